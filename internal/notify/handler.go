package notify

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/ecocycle/rewards-api/internal/middleware"
)

// HandleFeed upgrades an authenticated admin request to a websocket feed connection.
// It must be mounted behind middleware.RequireAdminToken.
func HandleFeed(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			slog.Warn("feed upgrade failed", "admin_id", p.UserID, "error", err)
			return
		}

		NewClient(hub, conn, p.UserID).Run(r.Context())
	}
}
