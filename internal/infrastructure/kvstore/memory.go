package kvstore

import (
	"context"
	"sync"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

// MemoryStore is a thread-safe in-memory key/value store.
// Values are copied on the way in and out so callers never share buffers.
type MemoryStore struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get retrieves the value stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, domain.ErrNotFound
	}

	return cloneBytes(value), nil
}

// Set replaces the value stored under key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = cloneBytes(value)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }

// Size returns the number of stored keys
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Clear removes every key
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data = make(map[string][]byte)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
