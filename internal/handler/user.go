package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecocycle/rewards-api/internal/service"
)

// UserHandler serves the user dashboard's read endpoints.
type UserHandler struct {
	users         *service.UserService
	redemptions   *service.RedemptionService
	notifications *service.NotificationService
}

func NewUserHandler(users *service.UserService, redemptions *service.RedemptionService, notifications *service.NotificationService) *UserHandler {
	return &UserHandler{users: users, redemptions: redemptions, notifications: notifications}
}

// HandlePoints handles GET /api/user-points/{userId}.
func (h *UserHandler) HandlePoints(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.users.Points(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleStats handles GET /api/user-stats/{userId}.
func (h *UserHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.users.Stats(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTransactions handles GET /api/transactions/{userId}.
func (h *UserHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.users.Transactions(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePendingRedemptions handles GET /api/pending-redemptions/{userId}.
func (h *UserHandler) HandlePendingRedemptions(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.redemptions.ListPendingForUser(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleNotifications handles GET /api/notifications?userId=.
func (h *UserHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("userId is required"))
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	resp, err := h.notifications.ListUnread(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUserID):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		internalError(w, r, err)
	}
}
