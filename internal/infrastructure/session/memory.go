// Package session provides the key-value backends a client session can be
// persisted in.
package session

import (
	"context"
	"sync"

	"github.com/shopfront/storefront/internal/core/ports"
)

// MemoryStore keeps the session in process memory. It is used by tests and by
// one-shot CLI runs that should leave nothing behind.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}
