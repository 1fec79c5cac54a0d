package session

import (
	"sync"

	"avtoclub/internal/domain"
)

// Store is the in-memory registry of active conversation sessions,
// at most one per user. Starting a new flow while another is active
// overwrites it wholesale (last write wins, no merge).
//
// Handlers that await I/O between reading and writing a session can
// observe stale state if the same user fires a second event before the
// first completes; completion paths must re-check presence via Get
// before committing.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*domain.Session),
	}
}

// Get returns the user's active session, or nil if none
func (s *Store) Get(userID int64) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Set stores the session, replacing any active one for the same user
func (s *Store) Set(userID int64, sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Delete removes the user's session if present
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len returns the number of active sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
