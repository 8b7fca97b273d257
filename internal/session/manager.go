package session

import (
	"sync"

	"github.com/avoronin/cardbox/internal/models"
)

// Manager tracks the single active session per user. Starting a new
// session replaces whatever the user had; the old session object is
// simply abandoned.
type Manager struct {
	mu     sync.Mutex
	byUser map[int64]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{byUser: make(map[int64]*Session)}
}

// Put registers s as the user's active session, replacing any previous one.
func (m *Manager) Put(userID int64, s *Session) {
	m.mu.Lock()
	m.byUser[userID] = s
	m.mu.Unlock()
}

// Get returns the user's active session, or ErrNoActiveSession.
func (m *Manager) Get(userID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, models.ErrNoActiveSession
	}
	return s, nil
}

// Remove drops the user's active session, if any.
func (m *Manager) Remove(userID int64) {
	m.mu.Lock()
	delete(m.byUser, userID)
	m.mu.Unlock()
}
