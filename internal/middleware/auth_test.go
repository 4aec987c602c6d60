package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecocycle/rewards-api/internal/crypto"
)

func newTestIssuer() *crypto.TokenIssuer {
	return crypto.NewTokenIssuer("test-secret", time.Hour)
}

func mustToken(t *testing.T, ti *crypto.TokenIssuer, userID int64, isAdmin bool) string {
	t.Helper()
	token, err := ti.Issue(userID, isAdmin)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	return token
}

func TestRequireAdminToken(t *testing.T) {
	ti := newTestIssuer()
	other := crypto.NewTokenIssuer("other-secret", time.Hour)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no credential", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"bare admin id", "Bearer 1", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + mustToken(t, other, 1, true), http.StatusUnauthorized},
		{"non-admin token", "Bearer " + mustToken(t, ti, 2, false), http.StatusForbidden},
		{"admin token", "Bearer " + mustToken(t, ti, 1, true), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Principal
			handler := RequireAdminToken(ti)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK && (got.UserID != 1 || !got.IsAdmin) {
				t.Errorf("principal = %+v, want admin 1", got)
			}
		})
	}
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	ti := newTestIssuer()

	var got Principal
	var ok bool
	handler := Authenticate(ti)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, ti, 42, false))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected principal in context")
	}
	if got.UserID != 42 || got.IsAdmin {
		t.Errorf("principal = %+v, want non-admin 42", got)
	}
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}
