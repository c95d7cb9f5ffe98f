package chat

import (
	"context"
	"sync"
)

// Store keeps per-session dialogue state. Operations are total: a missing
// session id yields a fresh empty session, never an error.
type Store interface {
	GetOrCreate(ctx context.Context, sessionID string) (*Session, error)
	Replace(ctx context.Context, sessionID string, s *Session) error
	Clear(ctx context.Context, sessionID string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore is the single-instance default. Sessions do not survive a
// restart, which the dialogue contract allows.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (m *memoryStore) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		copy := s
		return &copy, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		copy := s
		return &copy, nil
	}
	fresh := NewSession()
	m.sessions[sessionID] = *fresh
	return fresh, nil
}

func (m *memoryStore) Replace(ctx context.Context, sessionID string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = *s
	return nil
}

func (m *memoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
