package handler

import (
	"log/slog"
	"net/http"

	"github.com/ecocycle/rewards-api/internal/middleware"
	"github.com/ecocycle/rewards-api/internal/notify"
	"github.com/go-chi/chi/v5"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Logger      *slog.Logger
	Tokens      middleware.TokenVerifier
	AuthLimiter *middleware.IPRateLimiter
	Feed        *notify.Hub

	Auth        *AuthHandler
	Users       *UserHandler
	Redemptions *RedemptionHandler
	Admin       *AdminHandler
}

// NewRouter mounts every route. Auth endpoints are rate limited per IP when
// AuthLimiter is set; /api/admin/* requires an admin session token.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(d.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if d.AuthLimiter != nil {
			r.Use(middleware.RateLimit(d.AuthLimiter))
		}
		r.Post("/api/login", d.Auth.HandleLogin)
		r.Post("/api/register", d.Auth.HandleRegister)
		r.Post("/api/auth/signup", d.Auth.HandleSignup)
	})

	r.Get("/api/notifications", d.Users.HandleNotifications)
	r.Get("/api/user-points/{userId}", d.Users.HandlePoints)
	r.Get("/api/user-stats/{userId}", d.Users.HandleStats)
	r.Get("/api/pending-redemptions/{userId}", d.Users.HandlePendingRedemptions)
	r.Get("/api/transactions/{userId}", d.Users.HandleTransactions)
	r.Post("/api/redeem-request", d.Redemptions.HandleCreate)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(d.Tokens))

		r.Get("/users", d.Admin.HandleListUsers)
		r.Post("/users/{id}/reset-password", d.Admin.HandleResetPassword)
		r.Get("/pending-redemptions", d.Redemptions.HandleListPending)
		r.Get("/approved-redemptions", d.Redemptions.HandleListApproved)
		r.Get("/recyclables", d.Admin.HandleListRecyclables)
		r.Put("/recyclables/{id}", d.Admin.HandleUpdateRecyclable)
		r.Post("/process-redemption", d.Redemptions.HandleProcess)
		if d.Feed != nil {
			r.Get("/feed", notify.HandleFeed(d.Feed))
		}
	})

	return r
}
