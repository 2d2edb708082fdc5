package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAuth_MissingToken(t *testing.T) {
	ts := newTestTokenService(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	rr := httptest.NewRecorder()

	RequireAuth(ts)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	// The gate must short-circuit before the handler (and therefore before
	// any data-store access) runs.
	if called {
		t.Error("next handler should not run without a token")
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	req.Header.Set(TokenHeader, "this.is.garbage")
	rr := httptest.NewRecorder()

	RequireAuth(ts)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("next handler should not run with an invalid token")
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-42")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var gotID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
	req.Header.Set(TokenHeader, token)
	rr := httptest.NewRecorder()

	RequireAuth(ts)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if gotID != "user-42" {
		t.Errorf("context userID = %q, want %q", gotID, "user-42")
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext on bare context = (%q, %v), want (\"\", false)", id, ok)
	}
}
