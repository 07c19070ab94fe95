package registry

import (
	"context"
	"sync"
	"time"

	"github.com/Proton-105/gatebot/internal/domain"
)

// MemoryStore keeps records in process memory. Records are never evicted.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]time.Time)}
}

func (s *MemoryStore) Touch(_ context.Context, userID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[userID] = at
	return nil
}

func (s *MemoryStore) Snapshot(_ context.Context) ([]domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.UserRecord, 0, len(s.users))
	for id, seen := range s.users {
		records = append(records, domain.UserRecord{ID: id, LastSeenAt: seen})
	}

	return records, nil
}
