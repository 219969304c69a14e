package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps rate limit entries in a lock-guarded map. State is lost
// when the process exits and is not shared between processes.
//
// Entries whose window has elapsed are removed by Sweep. When maxEntries is
// positive the store never holds more than that many identities: adding a new
// one to a full store first sweeps, then evicts the entry closest to its
// reset.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]Entry
	maxEntries int
}

// NewMemoryStore creates an empty MemoryStore. maxEntries <= 0 means
// unbounded.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &MemoryStore{
		entries:    make(map[string]Entry),
		maxEntries: maxEntries,
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(
	_ context.Context,
	key string,
	quota int,
	window time.Duration,
	now time.Time,
) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.After(entry.ResetAt) {
		if !ok {
			s.makeRoomLocked(now)
		}
		entry = Entry{Count: 1, ResetAt: now.Add(window)}
		s.entries[key] = entry
		return entry, true, nil
	}

	if entry.Count >= quota {
		return entry, false, nil
	}

	entry.Count++
	s.entries[key] = entry
	return entry, true, nil
}

// Len returns the number of tracked identities.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep deletes every entry whose window elapsed before now and returns the
// number removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.ResetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// makeRoomLocked frees a slot for a new identity when the store is full.
func (s *MemoryStore) makeRoomLocked(now time.Time) {
	if s.maxEntries == 0 || len(s.entries) < s.maxEntries {
		return
	}
	if s.sweepLocked(now) > 0 {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, entry := range s.entries {
		if oldestKey == "" || entry.ResetAt.Before(oldest) {
			oldestKey = key
			oldest = entry.ResetAt
		}
	}
	delete(s.entries, oldestKey)
}

// RunSweeper calls Sweep every interval until ctx is done. It blocks, so run
// it in its own goroutine.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if removed := s.Sweep(now); removed > 0 && logger != nil {
				logger.Debug("swept expired rate limit entries",
					"removed", removed,
					"remaining", s.Len())
			}
		}
	}
}
