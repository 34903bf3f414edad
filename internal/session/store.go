// Package session holds per-session state for the gateway: the cart and
// the signed-in identity, keyed by an opaque session token.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/toastmobile/ordering/internal/cart"
	"github.com/toastmobile/ordering/internal/models"
)

// State is everything scoped to one session. A session serves a single
// active caller, so State itself is not locked; only the store's map is.
type State struct {
	Cart *cart.Cart
	User *models.Session // nil for guests
}

// AccessToken returns the session's identity token, empty for guests.
func (s *State) AccessToken() string {
	if s.User == nil {
		return ""
	}
	return s.User.AccessToken
}

// Store is an in-memory session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*State),
	}
}

// Create opens a new session with an empty cart and returns its token.
func (s *Store) Create() (string, *State) {
	token := uuid.New().String()
	state := &State{Cart: cart.New()}

	s.mu.Lock()
	s.sessions[token] = state
	s.mu.Unlock()

	return token, state
}

// Get resolves a session token.
func (s *Store) Get(token string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[token]
	return state, ok
}

// Delete removes a session.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
