package middleware

import (
	"context"
	"net/http"

	"github.com/toastmobile/ordering/internal/session"
)

// SessionHeader carries the opaque token issued by POST /api/session.
const SessionHeader = "X-Session-Token"

type contextKey int

const sessionStateKey contextKey = iota

// RequireSession middleware resolves the session token header and puts
// the session state on the request context. Requests without a valid
// token are rejected before reaching the handler.
func RequireSession(store *session.Store) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)

			if token == "" {
				http.Error(w, "Unauthorized: session token required", http.StatusUnauthorized)
				return
			}

			state, ok := store.Get(token)
			if !ok {
				http.Error(w, "Unauthorized: unknown session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionStateKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionState returns the session state attached by RequireSession, or
// nil when the middleware did not run.
func SessionState(ctx context.Context) *session.State {
	state, _ := ctx.Value(sessionStateKey).(*session.State)
	return state
}
