package handler

import (
	"errors"
	"net/http"

	"github.com/ecocycle/rewards-api/internal/middleware"
	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/service"
)

// RedemptionHandler handles redemption requests and admin decisions.
type RedemptionHandler struct {
	service *service.RedemptionService
}

func NewRedemptionHandler(svc *service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{service: svc}
}

// HandleCreate handles POST /api/redeem-request.
func (h *RedemptionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRedemptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserID),
			errors.Is(err, service.ErrInvalidPoints),
			errors.Is(err, service.ErrInsufficientPoints):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleProcess handles POST /api/admin/process-redemption. The acting admin is the
// one named by the verified token.
func (h *RedemptionHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || !admin.IsAdmin {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProcessRedemptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Process(r.Context(), admin.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestIDRequired),
			errors.Is(err, service.ErrInvalidDecision):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrAdminMismatch):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrRequestNotFound),
			errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrAlreadyProcessed),
			errors.Is(err, service.ErrInsufficientPoints):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleListPending handles GET /api/admin/pending-redemptions.
func (h *RedemptionHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.StatusPending)
}

// HandleListApproved handles GET /api/admin/approved-redemptions.
func (h *RedemptionHandler) HandleListApproved(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.StatusApproved)
}

func (h *RedemptionHandler) list(w http.ResponseWriter, r *http.Request, status model.RedemptionStatus) {
	resp, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
