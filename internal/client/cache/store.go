package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Store is a keyed cache of server state. It is safe for concurrent use.
//
// Every state change of an entry happens under mu. Subscriber callbacks are
// queued while mu is held and delivered after it is released, in commit
// order.
type Store struct {
	name       string
	keepUnused time.Duration
	now        func() time.Time
	log        logging.Logger

	group singleflight.Group

	mu         sync.Mutex
	entries    map[Key]*entry
	nextSubID  uint64
	pending    []func()
	delivering bool
}

// New returns an empty Store. name only appears in logs.
func New(name string, opts ...Option) *Store {
	s := &Store{
		name:       name,
		keepUnused: DefaultKeepUnusedDataFor,
		now:        time.Now,
		log:        logging.Nop(),
		entries:    make(map[Key]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("store", name)
	return s
}

type fetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key      Key
	fetch    fetchFunc
	provides func(any) []Tag

	data      any
	hasData   bool
	err       error
	fetchedAt time.Time
	tags      []Tag

	// version counts payloads written by the server.
	version uint64
	stale   bool

	// fetching is true while a singleflight call for key is registered.
	fetching     bool
	refetchAfter bool

	subs        map[uint64]*subscriber
	unusedSince time.Time
}

type subscriber struct {
	fn     func(rawSnapshot)
	active atomic.Bool
}

type rawSnapshot struct {
	data       any
	hasData    bool
	isLoading  bool
	isFetching bool
	err        error
	fetchedAt  time.Time
}

func (e *entry) snapshotLocked() rawSnapshot {
	return rawSnapshot{
		data:       e.data,
		hasData:    e.hasData,
		isLoading:  e.fetching && !e.hasData,
		isFetching: e.fetching,
		err:        e.err,
		fetchedAt:  e.fetchedAt,
	}
}

func (e *entry) needsFetch() bool {
	return !e.fetching && (!e.hasData || e.stale)
}

// entryLocked returns the entry for key, creating it if needed.
func (s *Store) entryLocked(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{key: key, subs: make(map[uint64]*subscriber), unusedSince: s.now()}
		s.entries[key] = e
	}
	return e
}

// notifyLocked queues the current snapshot of e for every subscriber.
func (s *Store) notifyLocked(e *entry) {
	if len(e.subs) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, sub := range e.subs {
		s.pending = append(s.pending, func() {
			if sub.active.Load() {
				sub.fn(snap)
			}
		})
	}
}

// flush delivers queued notifications. Only one goroutine delivers at a
// time; a flush called while another is running (including from inside a
// callback) leaves its work to the running one.
func (s *Store) flush() {
	s.mu.Lock()
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()
		for _, fn := range batch {
			fn()
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// launchLocked makes sure a request for e is running and returns a channel
// that receives its result. Concurrent callers join the running request
// through the store's singleflight group; the result has already landed in
// e when the channel delivers it.
func (s *Store) launchLocked(e *entry) <-chan singleflight.Result {
	if !e.fetching {
		e.fetching = true
		s.notifyLocked(e)
		s.log.Debug(context.Background(), "fetch started", "key", e.key)
	}
	return s.group.DoChan(string(e.key), func() (any, error) {
		return s.run(e)
	})
}

// run performs the request for e and lands its outcome.
func (s *Store) run(e *entry) (any, error) {
	s.mu.Lock()
	fetch := e.fetch
	s.mu.Unlock()

	v, err := fetch(context.Background())
	s.land(e, v, err)
	return v, err
}

// land records the outcome of a request in e. An error nobody is subscribed
// to is dropped. When e was invalidated while the request was running, one
// more request follows.
func (s *Store) land(e *entry, v any, err error) {
	ctx := context.Background()

	s.mu.Lock()
	// Later launches must start a new call instead of joining this one.
	s.group.Forget(string(e.key))
	e.fetching = false

	if err != nil {
		if len(e.subs) == 0 {
			s.log.Debug(ctx, "fetch failed without subscribers, dropping error", "key", e.key, "error", err)
		} else {
			s.log.Debug(ctx, "fetch failed", "key", e.key, "error", err)
			e.err = err
		}
	} else {
		e.data = v
		e.hasData = true
		e.err = nil
		e.fetchedAt = s.now()
		e.version++
		e.stale = false
		e.tags = nil
		if e.provides != nil {
			e.tags = e.provides(v)
		}
		s.log.Debug(ctx, "fetch landed", "key", e.key, "version", e.version)
	}

	if e.refetchAfter {
		e.refetchAfter = false
		e.stale = true
		if len(e.subs) > 0 {
			s.launchLocked(e)
		}
	}
	if len(e.subs) == 0 {
		e.unusedSince = s.now()
	}
	s.notifyLocked(e)
	s.mu.Unlock()

	s.flush()
}

// register attaches the fetcher of q to e. The most recent registration wins.
func (e *entry) register(fetch fetchFunc, provides func(any) []Tag) {
	e.fetch = fetch
	e.provides = provides
}

// Refetch starts a new request for key. It reports false when key has no
// registered query. A request already in flight is reused.
func (s *Store) Refetch(key Key) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.fetch == nil {
		s.mu.Unlock()
		return false
	}
	s.launchLocked(e)
	s.mu.Unlock()
	s.flush()
	return true
}

// Invalidate marks every entry providing a tag covered by tags as stale.
// Subscribed entries are fetched again right away; entries with a request in
// flight are fetched again once it lands; the rest wait for the next reader.
func (s *Store) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	s.mu.Lock()
	for _, e := range s.entries {
		if !e.providesAny(tags) {
			continue
		}
		switch {
		case e.fetching:
			e.refetchAfter = true
		case len(e.subs) > 0 && e.fetch != nil:
			e.stale = true
			s.launchLocked(e)
		default:
			e.stale = true
		}
		s.log.Debug(context.Background(), "entry invalidated", "key", e.key)
	}
	s.mu.Unlock()
	s.flush()
}

func (e *entry) providesAny(tags []Tag) bool {
	for _, t := range tags {
		for _, p := range e.tags {
			if t.covers(p) {
				return true
			}
		}
	}
	return false
}

// Len is the number of entries currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has reports whether an entry exists for key.
func (s *Store) Has(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Subscription is returned by Subscribe.
type Subscription struct {
	store *Store
	key   Key
	id    uint64
	sub   *subscriber
	once  sync.Once
}

// Unsubscribe detaches the callback. A request in flight is not cancelled;
// its result still lands in the entry. When the last subscriber leaves, the
// entry's retention window starts.
func (sub *Subscription) Unsubscribe() {
	sub.once.Do(func() {
		sub.sub.active.Store(false)
		s := sub.store
		s.mu.Lock()
		defer s.mu.Unlock()
		e, ok := s.entries[sub.key]
		if !ok {
			return
		}
		delete(e.subs, sub.id)
		if len(e.subs) == 0 {
			e.unusedSince = s.now()
		}
	})
}
