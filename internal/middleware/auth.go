package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ecocycle/rewards-api/internal/crypto"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the caller identity taken from a verified session token.
type Principal struct {
	UserID  int64
	IsAdmin bool
}

// TokenVerifier is implemented by *crypto.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (*crypto.Claims, error)
}

// Authenticate validates the Bearer session token and stores the caller's Principal
// in the request context. Any failure is a 401.
func Authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers without a Principal (401) or without the admin flag (403).
// The flag comes from the verified token only.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !p.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminToken is the admin gate: Authenticate followed by RequireAdmin.
func RequireAdminToken(tokens TokenVerifier) func(http.Handler) http.Handler {
	authenticate := Authenticate(tokens)
	return func(next http.Handler) http.Handler {
		return authenticate(RequireAdmin(next))
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
