// Package session stores short-term conversation history: the alternating
// human/ai turns a run receives as its prior context. The store keeps one
// message sequence per conversation id; hosting code appends the query and
// final answer after each completed run and replays the sequence into the
// next one.
//
// Add durable backends (Redis, Postgres, etc.) in sub-packages without
// changing calling code; only the wiring layer decides which implementation
// to instantiate.
package session

import (
	"sync"

	"github.com/lumoai/lumo/core"
)

// Store persists conversation history per conversation id. History returns
// turns oldest first; an unknown conversation yields an empty history.
type Store interface {
	History(conversationID string) ([]core.Message, error)
	AppendTurn(conversationID, query, answer string) error
	Clear(conversationID string) error
}

// InMemoryStore is a volatile Store keeping history in a process-local map.
// Returned slices are copies; callers may not mutate stored state through
// them. Safe for concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.Message)}
}

// History implements Store.
func (s *InMemoryStore) History(conversationID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.sessions[conversationID]
	out := make([]core.Message, len(stored))
	copy(out, stored)
	return out, nil
}

// AppendTurn implements Store. Each completed run adds one human and one ai
// message, keeping the history's even-length invariant.
func (s *InMemoryStore) AppendTurn(conversationID, query, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[conversationID] = append(
		s.sessions[conversationID],
		core.HumanMessage{Content: query},
		core.AIMessage{Content: answer},
	)
	return nil
}

// Clear implements Store.
func (s *InMemoryStore) Clear(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, conversationID)
	return nil
}
