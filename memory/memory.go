// Package memory holds the long-term memory store contract plus a
// process-local implementation. The agent run loop receives recalled memory
// as plain text; this package is where hosting code loads and persists that
// text per user. Swap the in-memory store for a database-backed one at
// wiring time.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store loads and persists the long-term memory snippet for a user. An
// unknown user yields an empty snippet, not an error.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (string, error)
	Save(ctx context.Context, userID uuid.UUID, memory string) error
}

// InMemoryStore is a process-local Store. Safe for concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	memories map[uuid.UUID]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		memories: make(map[uuid.UUID]string),
	}
}

// Load implements Store.
func (s *InMemoryStore) Load(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memories[userID], nil
}

// Save implements Store.
func (s *InMemoryStore) Save(_ context.Context, userID uuid.UUID, memory string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories[userID] = memory
	return nil
}
