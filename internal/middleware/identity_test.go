package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// dummyHandler records whether it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func TestIdentity_MissingHeader(t *testing.T) {
	dummy := &dummyHandler{}
	h := Identity(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/categories", nil)
	h.ServeHTTP(rec, req)

	if dummy.called {
		t.Error("did not expect next handler to be called without a user id")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized, got %d", rec.Code)
	}
}

func TestIdentity_InvalidHeader(t *testing.T) {
	dummy := &dummyHandler{}
	h := Identity(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set(UserHeader, "not-a-number")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized, got %d", rec.Code)
	}
}

func TestIdentity_ValidHeader(t *testing.T) {
	dummy := &dummyHandler{}
	h := Identity(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set(UserHeader, "42")
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called with a valid user id")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if got := GetUserIDFromContext(dummy.ctx); got != 42 {
		t.Errorf("context user id = %d; want 42", got)
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	if got := GetUserIDFromContext(context.Background()); got != 0 {
		t.Errorf("expected 0 for missing user id, got %d", got)
	}
}
