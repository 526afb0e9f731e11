package service

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the identity of the logged-in user for the lifetime of the
// process. Each AuthService works on its own Session, so independent sessions
// can coexist in one process.
type Session struct {
	mu     sync.RWMutex
	userID uint
	active bool
	id     uuid.UUID
}

func NewSession() *Session {
	return &Session{}
}

// UserID returns the session user's id and whether a session is active.
func (s *Session) UserID() (uint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.active
}

// ID is the correlation id of the current login, empty without a session.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return ""
	}
	return s.id.String()
}

func (s *Session) set(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.active = true
	s.id = uuid.New()
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.active = false
	s.id = uuid.Nil
}
