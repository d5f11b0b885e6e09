// Package session holds the authenticated user and token for a client.
// The two always change together, so callers never observe a user
// without a token or a token without a user.
package session

import (
	"sync"

	"storefront/internal/domain"
)

// Holder is a concurrency-safe container for the current session.
// The zero value is a logged-out session.
type Holder struct {
	mu    sync.RWMutex
	user  *domain.User
	token string
}

func NewHolder() *Holder {
	return &Holder{}
}

// Set stores the user and token as one atomic update. An empty token
// clears the session instead, keeping user and token in lockstep.
func (h *Holder) Set(user domain.User, token string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if token == "" {
		h.user = nil
		h.token = ""
		return
	}
	u := user
	h.user = &u
	h.token = token
}

// Clear logs the session out.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
	h.token = ""
}

// Token returns the current bearer token, empty when logged out.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// User returns a copy of the current user.
func (h *Holder) User() (domain.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return domain.User{}, false
	}
	return *h.user, true
}

// Active reports whether a session is present.
func (h *Holder) Active() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token != ""
}
