package cache

import (
	"time"

	"github.com/dmitrijs2005/farmdash/internal/logging"
)

// DefaultKeepUnusedDataFor is how long an entry without subscribers is kept.
const DefaultKeepUnusedDataFor = 300 * time.Second

type Option func(*Store)

// WithKeepUnusedDataFor sets the retention window of unused entries.
func WithKeepUnusedDataFor(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.keepUnused = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
