package cache

import (
	"context"
	"time"
)

// Query describes how to fill one entry.
type Query[T any] struct {
	Key   Key
	Fetch func(ctx context.Context) (T, error)
	// Provides lists the tags the fetched payload carries. Optional.
	Provides func(T) []Tag
}

func (q Query[T]) fetchFunc() fetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := q.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func (q Query[T]) providesFunc() func(any) []Tag {
	if q.Provides == nil {
		return nil
	}
	return func(v any) []Tag {
		t, _ := v.(T)
		return q.Provides(t)
	}
}

// Snapshot is the state of an entry as a view sees it.
type Snapshot[T any] struct {
	Data    T
	HasData bool
	// IsLoading is true while the first request is running.
	IsLoading bool
	// IsFetching is true while any request is running.
	IsFetching bool
	IsError    bool
	Err        error
	FetchedAt  time.Time
}

func typed[T any](r rawSnapshot) Snapshot[T] {
	snap := Snapshot[T]{
		HasData:    r.hasData,
		IsLoading:  r.isLoading,
		IsFetching: r.isFetching,
		IsError:    r.err != nil,
		Err:        r.err,
		FetchedAt:  r.fetchedAt,
	}
	if r.hasData {
		snap.Data, _ = r.data.(T)
	}
	return snap
}

// Subscribe registers fn for changes of q's entry and returns the current
// snapshot. A request is started in the background when the entry has no
// data or is stale and none is running. Subscribe never blocks on I/O.
func Subscribe[T any](s *Store, q Query[T], fn func(Snapshot[T])) (Snapshot[T], *Subscription) {
	s.mu.Lock()
	e := s.entryLocked(q.Key)
	e.register(q.fetchFunc(), q.providesFunc())

	s.nextSubID++
	id := s.nextSubID
	sub := &subscriber{fn: func(r rawSnapshot) {
		if fn != nil {
			fn(typed[T](r))
		}
	}}
	sub.active.Store(true)

	// Launch before attaching sub: the loading state is what Subscribe
	// returns, so sub must not also be notified of it.
	if e.needsFetch() {
		s.launchLocked(e)
	}
	snap := typed[T](e.snapshotLocked())
	e.subs[id] = sub
	s.mu.Unlock()
	s.flush()

	return snap, &Subscription{store: s, key: q.Key, id: id, sub: sub}
}

// Get returns q's payload, fetching it when the entry has no data or is
// stale. Concurrent callers share one request. ctx bounds the wait only;
// the request itself runs to completion and its result is cached.
func Get[T any](ctx context.Context, s *Store, q Query[T]) (T, error) {
	var zero T

	s.mu.Lock()
	e := s.entryLocked(q.Key)
	e.register(q.fetchFunc(), q.providesFunc())
	if e.hasData && !e.stale {
		v, _ := e.data.(T)
		if len(e.subs) == 0 {
			e.unusedSince = s.now()
		}
		s.mu.Unlock()
		s.log.Debug(ctx, "cache hit", "key", q.Key)
		return v, nil
	}
	ch := s.launchLocked(e)
	s.mu.Unlock()
	s.flush()

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Peek returns the cached payload of key without fetching.
func Peek[T any](s *Store, key Key) (T, bool) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.hasData {
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}
