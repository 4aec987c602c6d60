package handler

import (
	"errors"
	"net/http"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/service"
)

// AdminHandler serves the admin user and catalog endpoints.
type AdminHandler struct {
	admin *service.AdminService
	auth  *service.AuthService
}

func NewAdminHandler(admin *service.AdminService, auth *service.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, auth: auth}
}

// HandleListUsers handles GET /api/admin/users.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleResetPassword handles POST /api/admin/users/{id}/reset-password.
func (h *AdminHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.auth.ResetPassword(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleListRecyclables handles GET /api/admin/recyclables.
func (h *AdminHandler) HandleListRecyclables(w http.ResponseWriter, r *http.Request) {
	items, err := h.admin.ListRecyclables(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleUpdateRecyclable handles PUT /api/admin/recyclables/{id}.
func (h *AdminHandler) HandleUpdateRecyclable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid recyclable id"))
		return
	}

	var req model.UpdateRecyclableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.admin.UpdateRecyclablePoints(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecyclableID),
			errors.Is(err, service.ErrPointsPerPiece):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrRecyclableNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			internalError(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
