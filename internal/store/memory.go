package store

import (
	"sync"

	"visionchat-backend/internal/chat"
)

// MemoryStore keeps sessions in process memory behind a RWMutex. It is the
// default backend and the one tests run against.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]chat.Turn
	maxTurns int
}

// NewMemoryStore creates an in-memory store. maxTurns <= 0 means unlimited.
func NewMemoryStore(maxTurns int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]chat.Turn),
		maxTurns: maxTurns,
	}
}

func (m *MemoryStore) Load(sessionID string) ([]chat.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	turns := m.sessions[sessionID]
	out := make([]chat.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (m *MemoryStore) Save(sessionID string, turns []chat.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = trimTurns(append([]chat.Turn(nil), turns...), m.maxTurns)
	return nil
}

func (m *MemoryStore) Clear(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
