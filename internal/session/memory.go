package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps sessions in process memory. Suitable for single-node
// deployments and tests; sessions do not survive a restart.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]string
	ttl      time.Duration
}

// NewMemoryStorage creates an in-memory session storage. A non-positive
// ttl disables expiry.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]string),
		ttl:      ttl,
	}
}

// Get returns the session, or (nil, nil) when absent or expired
func (m *MemoryStorage) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if m.ttl > 0 && time.Since(s.CreatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.sessions, s.ID)
		if m.byUser[s.UserID] == s.ID {
			delete(m.byUser, s.UserID)
		}
		m.mu.Unlock()
		return nil, nil
	}

	copied := *s
	return &copied, nil
}

// Create stores a session for the user, evicting any prior one
func (m *MemoryStorage) Create(_ context.Context, userID string) (*Session, error) {
	s := newSession(userID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if oldID, ok := m.byUser[userID]; ok {
		delete(m.sessions, oldID)
	}
	m.sessions[s.ID] = s
	m.byUser[userID] = s.ID

	copied := *s
	return &copied, nil
}

// Delete removes a session
func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return errSessionNotFound(id)
	}
	delete(m.sessions, id)
	if m.byUser[s.UserID] == id {
		delete(m.byUser, s.UserID)
	}
	return nil
}
