package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRecord struct {
	value   string
	expires time.Time
}

// InMemoryStopStore is a process-local StopStore for tests and
// single-process deployments. Records honor their TTLs lazily on read.
type InMemoryStopStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
}

// NewInMemoryStopStore creates an empty in-memory stop store.
func NewInMemoryStopStore() *InMemoryStopStore {
	return &InMemoryStopStore{records: make(map[string]memoryRecord)}
}

// SetTaskBelong implements StopStore.
func (s *InMemoryStopStore) SetTaskBelong(_ context.Context, taskID uuid.UUID, owner string, ttl time.Duration) error {
	s.set(TaskBelongKey(taskID), owner, ttl)
	return nil
}

// Stop implements StopStore.
func (s *InMemoryStopStore) Stop(_ context.Context, taskID uuid.UUID) error {
	s.set(TaskStoppedKey(taskID), "1", StopFlagTTL)
	return nil
}

// IsStopped implements StopStore.
func (s *InMemoryStopStore) IsStopped(_ context.Context, taskID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := TaskStoppedKey(taskID)
	rec, ok := s.records[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(rec.expires) {
		delete(s.records, key)
		return false, nil
	}
	return true, nil
}

// Owner returns the recorded owner of a task, if any. Test helper.
func (s *InMemoryStopStore) Owner(taskID uuid.UUID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[TaskBelongKey(taskID)]
	if !ok || time.Now().After(rec.expires) {
		return "", false
	}
	return rec.value, true
}

func (s *InMemoryStopStore) set(key, value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = memoryRecord{value: value, expires: time.Now().Add(ttl)}
}
