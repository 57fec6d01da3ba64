package users

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for tests and development.
// It mirrors the Postgres contract: upsert-by-telegram-id, listing in
// insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	byTGID   map[int64]int
	profiles []Profile
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTGID: make(map[int64]int)}
}

// Upsert inserts the profile or overwrites username/display name in place,
// preserving insertion order.
func (s *MemoryStore) Upsert(_ context.Context, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if idx, ok := s.byTGID[p.TelegramID]; ok {
		s.profiles[idx].Username = p.Username
		s.profiles[idx].DisplayName = p.DisplayName
		s.profiles[idx].UpdatedAt = now
		return nil
	}

	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	s.byTGID[p.TelegramID] = len(s.profiles)
	s.profiles = append(s.profiles, p)
	return nil
}

// List returns profiles in insertion order, at most limit entries.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.profiles)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]Profile, n)
	copy(out, s.profiles[:n])
	return out, nil
}
