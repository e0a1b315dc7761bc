package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireRoles(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := NewHandler(nil)
	mw := h.RequireRoles(RoleAdmin, RoleEditor)(next)

	cases := []struct {
		name string
		user *User
		want int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"student", &User{ID: 1, Role: RoleStudent}, http.StatusForbidden},
		{"editor", &User{ID: 2, Role: RoleEditor}, http.StatusOK},
		{"admin", &User{ID: 3, Role: RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if tc.user != nil {
				req = req.WithContext(ContextWithUser(req.Context(), tc.user))
			}
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestCurrentUserMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := CurrentUser(req.Context()); ok {
		t.Fatalf("expected no user in bare context")
	}
}

func TestReadIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	if got := readIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}

func TestReadIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"

	if got := readIP(req); got != "10.0.0.9:1234" {
		t.Fatalf("expected remote addr, got %q", got)
	}
}

func TestReadSessionTokenMissingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := readSessionToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}
