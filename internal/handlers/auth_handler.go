package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/toastmobile/ordering/internal/middleware"
	"github.com/toastmobile/ordering/internal/models"
)

// identityProvider is the interface for the identity service
type identityProvider interface {
	SignUp(ctx context.Context, username, password, email string) error
	SignIn(ctx context.Context, username, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*models.Session, error)
}

// AuthHandler handles identity requests and keeps the signed-in user on
// the session state.
type AuthHandler struct {
	identity identityProvider
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity identityProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		logger:   logger,
	}
}

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	if err := h.identity.SignUp(r.Context(), req.Username, req.Password, req.Email); err != nil {
		h.logger.Error("sign up failed", "username", req.Username, "error", err)
		writeError(w, http.StatusBadGateway, "Sign up failed")
		return
	}

	h.logger.Info("user signed up", "username", req.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	sess, err := h.identity.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Warn("sign in failed", "username", req.Username, "error", err)
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	state.User = sess
	h.logger.Info("user signed in", "username", sess.Username)

	writeJSON(w, http.StatusOK, map[string]string{"username": sess.Username})
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	if state.User == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
		return
	}

	if err := h.identity.SignOut(r.Context(), state.AccessToken()); err != nil {
		h.logger.Error("sign out failed", "username", state.User.Username, "error", err)
		writeError(w, http.StatusBadGateway, "Sign out failed")
		return
	}

	h.logger.Info("user signed out", "username", state.User.Username)
	state.User = nil

	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Me handles GET /api/auth/me
// Returns the signed-in user or an explicit guest marker; absence of a
// session is a normal answer here, never an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	state := middleware.SessionState(r.Context())

	sess, err := h.identity.CurrentUser(r.Context(), state.AccessToken())
	if err != nil {
		h.logger.Error("identity lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "Identity provider unavailable")
		return
	}

	if sess == nil {
		// Token may have expired since sign-in; drop it.
		state.User = nil
		writeJSON(w, http.StatusOK, map[string]interface{}{"guest": true})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"guest":    false,
		"username": sess.Username,
	})
}
