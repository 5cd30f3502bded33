// Package session holds the authenticated user session: the bearer token,
// the cached user profile, and the last-selected device.
package session

import "sync"

// Storage keys. These names are part of the persisted state contract and
// must stay stable across releases.
const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyDevice = "deviceId"
)

// Store is a key-value store for persisted client state. Implementations
// must make single-key reads and writes atomic.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores the value for key.
	Set(key, value string) error

	// Delete removes the value for key. Deleting an absent key is not an error.
	Delete(key string) error

	// Clear removes every key.
	Clear() error
}

// MemStore is an in-memory Store used in tests and for ephemeral sessions.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
