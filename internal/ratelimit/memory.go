package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int
	reset time.Time
}

// MemoryStore keeps windows in a map. Expired windows are swept once the map grows past
// maxKeys, at most once per window length, so memory follows the number of active clients
// rather than every client ever seen.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*window
	maxKeys   int
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(maxKeys int) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

// WithClock swaps the time source; tests use it to step through windows.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Hit(_ context.Context, key string, length time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.maxKeys > 0 && len(s.windows) > s.maxKeys && now.Sub(s.lastSweep) >= length {
		s.sweep(now)
		s.lastSweep = now
	}

	w, ok := s.windows[key]
	if !ok || now.After(w.reset) {
		w = &window{reset: now.Add(length)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.reset, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if now.After(w.reset) {
			delete(s.windows, k)
		}
	}
}

// Len reports how many windows are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
