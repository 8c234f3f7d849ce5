package services

import (
	"errors"
	"sync"

	"gifts-backend/internal/billing"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionManager tracks the in-progress checkout sessions, one per operator
// checkout. Sessions live only in memory; an abandoned session is simply
// discarded.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*billing.Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*billing.Session)}
}

// Create starts a fresh checkout session for an operator.
func (m *SessionManager) Create(operatorID *int) *billing.Session {
	s := billing.NewSession(operatorID)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session by id.
func (m *SessionManager) Get(id string) (*billing.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Discard drops a session without finalizing it.
func (m *SessionManager) Discard(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
