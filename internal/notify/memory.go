package notify

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory KeyValueStore. It backs unit tests and serves
// as a fallback when the database store is unavailable; flags are lost on
// restart, which only risks one extra alert.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string

	// GetErr and SetErr let tests simulate storage failures.
	GetErr error
	SetErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the stored value for key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

var _ KeyValueStore = (*MemoryStore)(nil)
