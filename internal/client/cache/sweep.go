package cache

import (
	"context"
	"time"
)

// Sweep removes entries that have had no subscribers for longer than the
// retention window and have no request in flight. It returns how many were
// removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if len(e.subs) > 0 || e.fetching {
			continue
		}
		if now.Sub(e.unusedSince) < s.keepUnused {
			continue
		}
		delete(s.entries, key)
		removed++
	}
	if removed > 0 {
		s.log.Debug(context.Background(), "evicted unused entries", "count", removed)
	}
	return removed
}

// Run calls Sweep every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
