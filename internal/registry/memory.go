package registry

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the process-local registry backend.
//
// Contexts whose terminal webhook event never arrives would otherwise grow
// the map forever, so entries expire after a TTL and the map is bounded:
// inserting into a full store evicts the oldest entry first.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	ttl time.Duration
	max int

	now func() time.Time
}

type memoryEntry struct {
	cc         CallContext
	insertedAt time.Time
}

func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		max:     maxEntries,
		now:     time.Now,
	}
}

func (s *MemoryStore) Insert(_ context.Context, cc CallContext) error {
	if cc.CallID == "" {
		return ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[cc.CallID]; ok && !s.expired(e, now) {
		return ErrDuplicate
	}
	if s.max > 0 && len(s.entries) >= s.max {
		s.evictOldestLocked()
	}
	s.entries[cc.CallID] = memoryEntry{cc: cc, insertedAt: now}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, callID string) (CallContext, bool, error) {
	if callID == "" {
		return CallContext{}, false, ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[callID]
	if !ok {
		return CallContext{}, false, nil
	}
	delete(s.entries, callID)
	if s.expired(e, s.now()) {
		return CallContext{}, false, nil
	}
	return e.cc, true, nil
}

// Len reports the current number of entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps expired entries until ctx is done. Intended to be started as a
// goroutine from main.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.insertedAt) >= s.ttl
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.insertedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.insertedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
