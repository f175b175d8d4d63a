// Package sessions provides the server-side store backing session cookies
package sessions

import (
	"sync"
	"time"

	"github.com/boardhub/backend/internal/models"
	"github.com/google/uuid"
)

// entry pairs a session context with its expiry deadline
type entry struct {
	identity  models.SessionContext
	expiresAt time.Time
}

// Store holds active sessions in memory, keyed by opaque session id.
// Sessions expire after the configured TTL; expired entries are dropped
// lazily on lookup and by the periodic sweep.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
}

// NewStore creates a session store with the given session lifetime
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
	}
}

// Create stores the identity under a fresh session id and returns the id
func (s *Store) Create(identity models.SessionContext) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = entry{
		identity:  identity,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return id
}

// Get returns the identity for a session id, or false if the session does
// not exist or has expired. Expired sessions are removed on lookup.
func (s *Store) Get(id string) (*models.SessionContext, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.Destroy(id)
		return nil, false
	}

	identity := e.identity
	return &identity, true
}

// Destroy removes a session. Destroying an absent session is a no-op.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes all expired sessions and returns how many were dropped
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps expired sessions at the given interval until the
// returned stop function is called
func (s *Store) StartSweeper(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
