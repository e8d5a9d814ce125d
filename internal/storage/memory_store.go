package storage

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryStore is an in-process TokenCache used when Redis is unavailable
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	order      []string
	maxEntries int
	now        func() time.Time
}

// ------------------------------------------------------------------------------------------------------
// NewMemoryStore creates a new in-memory store holding at most maxEntries
// counts; maxEntries <= 0 means unbounded
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		order:      make([]string, 0),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) GetTokenCount(_ context.Context, key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return 0, false, nil
	}
	return entry.count, true, nil
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) SetTokenCount(_ context.Context, key string, count int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{count: count}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = entry
	s.trimToMaxEntries()
	return nil
}

// ------------------------------------------------------------------------------------------------------
// Oldest keys are evicted first
func (s *MemoryStore) trimToMaxEntries() {
	if s.maxEntries <= 0 || len(s.order) <= s.maxEntries {
		return
	}

	evict := len(s.order) - s.maxEntries
	for _, key := range s.order[:evict] {
		delete(s.entries, key)
	}
	s.order = append(s.order[:0], s.order[evict:]...)
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ------------------------------------------------------------------------------------------------------
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	s.order = s.order[:0]
	return nil
}
