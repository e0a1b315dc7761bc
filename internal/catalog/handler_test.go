package catalog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sorubank/internal/auth"
)

func withUser(req *http.Request, user *auth.User) *http.Request {
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func TestCreateCategoryUnauthorized(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"Türkçe"}`))
	w := httptest.NewRecorder()
	h.CreateCategory(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateCategoryInvalidBody(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{`))
	req = withUser(req, &auth.User{ID: 1, Role: auth.RoleAdmin})
	w := httptest.NewRecorder()
	h.CreateCategory(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListTopicsInvalidCategoryID(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/topics?category_id=abc", nil)
	w := httptest.NewRecorder()
	h.ListTopics(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateTopicUnauthorized(t *testing.T) {
	h := NewHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/topics", strings.NewReader(`{"category_id":1,"name":"Paragraf"}`))
	w := httptest.NewRecorder()
	h.CreateTopic(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
