package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/toastmobile/ordering/internal/session"
)

func sessionTestHandler(t *testing.T, reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		if SessionState(r.Context()) == nil {
			t.Error("expected session state on the request context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession_MissingToken(t *testing.T) {
	store := session.NewStore()
	var reached bool
	handler := RequireSession(store)(sessionTestHandler(t, &reached))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if reached {
		t.Error("handler must not run without a session token")
	}
}

func TestRequireSession_UnknownToken(t *testing.T) {
	store := session.NewStore()
	var reached bool
	handler := RequireSession(store)(sessionTestHandler(t, &reached))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, "not-a-session")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
	if reached {
		t.Error("handler must not run with an unknown session token")
	}
}

func TestRequireSession_ValidToken(t *testing.T) {
	store := session.NewStore()
	token, _ := store.Create()

	var reached bool
	handler := RequireSession(store)(sessionTestHandler(t, &reached))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if !reached {
		t.Error("expected the handler to run")
	}
}
