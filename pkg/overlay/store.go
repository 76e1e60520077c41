package overlay

import (
	"context"
	"sync"
)

// Store is the persistence interface for override records, keyed by map
// instance key. Loads happen at editor mount; saves only on an explicit
// save action. Last writer wins.
type Store interface {
	// Load retrieves the override state for a map key. A missing or
	// unreadable record yields a fresh empty state, never an error about
	// shape — only transport failures are reported.
	Load(ctx context.Context, key string) (*State, error)

	// Save persists the state for a map key, replacing any previous record.
	Save(ctx context.Context, key string, s *State) error

	// Delete removes the record for a map key. Deleting a missing record
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryStore is an in-memory store for tests and throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, key string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Decode(m.records[key]), nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, s *State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = data
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
