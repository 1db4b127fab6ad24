package snapshot

import (
	"context"
	"sync"

	"github.com/taskboard/core/internal/domain/entities"
)

// MemoryStore keeps encoded snapshots in process memory. Used in tests
// and as the throwaway "memory" storage driver.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, userID string, boards []*entities.Board) error {
	data, err := encode(userID, boards)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, userID string) ([]*entities.Board, error) {
	s.mu.RLock()
	data, ok := s.data[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return decode(data)
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
