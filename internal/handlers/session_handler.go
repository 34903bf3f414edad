package handlers

import (
	"log/slog"
	"net/http"

	"github.com/toastmobile/ordering/internal/session"
)

// SessionHandler issues gateway session tokens.
type SessionHandler struct {
	store  *session.Store
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store *session.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// Create handles POST /api/session
// Opens a session with an empty cart and returns its token. The client
// sends the token back in the X-Session-Token header on every call.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, _ := h.store.Create()
	h.logger.Info("session created")

	writeJSON(w, http.StatusCreated, map[string]string{
		"token": token,
	})
}
