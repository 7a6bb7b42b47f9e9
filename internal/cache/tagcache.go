package cache

import (
	"context"
	"sync"
	"time"
)

// Tag groups cached query results so one mutation can invalidate every
// related read at once.
type Tag string

const (
	TagProduct  Tag = "Product"
	TagCategory Tag = "Category"
	TagColor    Tag = "Color"
	TagOrder    Tag = "Order"
)

// Key identifies one cached query result: a tag plus a qualifier
// (serialized filter params, a resource id, or a caller scope).
type Key struct {
	Tag       Tag
	Qualifier string
}

func (k Key) String() string {
	return string(k.Tag) + "/" + k.Qualifier
}

// FetchFunc produces a fresh payload for a key.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

type entry struct {
	value      interface{}
	valid      bool
	fetch      FetchFunc
	subs       map[int]chan interface{}
	lastAccess time.Time
}

// Store is an in-process response cache with declarative tag invalidation.
// Each entry remembers the FetchFunc that produced it; invalidating a tag
// marks every entry under it stale, and entries with live subscribers are
// refetched in the background so subscribers receive the new payload
// without re-issuing the query. Writes for a key are last-write-wins by
// completion order; in-flight fetches are never cancelled.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	byTag   map[Tag]map[string]struct{}
	nextSub int
	nowFunc func() time.Time

	hits   uint64
	misses uint64
}

func New() *Store {
	return &Store{
		entries: map[string]*entry{},
		byTag:   map[Tag]map[string]struct{}{},
		nowFunc: time.Now,
	}
}

// GetOrFetch returns the cached payload for key when the entry is valid;
// otherwise it runs fetch, stores the result under key and returns it.
// Fetch errors are returned to the caller and never cached.
func (s *Store) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) (interface{}, error) {
	k := key.String()

	s.mu.Lock()
	if e, ok := s.entries[k]; ok && e.valid {
		s.hits++
		e.lastAccess = s.nowFunc()
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.misses++
	s.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.store(key, v, fetch)
	s.mu.Unlock()
	return v, nil
}

// store writes an entry and indexes it under its tag. Caller holds mu.
func (s *Store) store(key Key, v interface{}, fetch FetchFunc) {
	k := key.String()
	e, ok := s.entries[k]
	if !ok {
		e = &entry{subs: map[int]chan interface{}{}}
		s.entries[k] = e
	}
	e.value = v
	e.valid = true
	e.fetch = fetch
	e.lastAccess = s.nowFunc()

	if _, ok := s.byTag[key.Tag]; !ok {
		s.byTag[key.Tag] = map[string]struct{}{}
	}
	s.byTag[key.Tag][k] = struct{}{}
}

// Invalidate marks every entry under the given tags stale. Entries with
// subscribers are refetched in the background.
func (s *Store) Invalidate(tags ...Tag) {
	s.mu.Lock()
	var stale []*staleEntry
	for _, tag := range tags {
		for k := range s.byTag[tag] {
			if se := s.markStale(k); se != nil {
				stale = append(stale, se)
			}
		}
	}
	s.mu.Unlock()
	s.refetch(stale)
}

// InvalidateKey marks one entry stale, refetching it in the background when
// it has subscribers. Used when a mutation targets a single resource id.
func (s *Store) InvalidateKey(key Key) {
	s.mu.Lock()
	se := s.markStale(key.String())
	s.mu.Unlock()
	if se != nil {
		s.refetch([]*staleEntry{se})
	}
}

type staleEntry struct {
	key   string
	fetch FetchFunc
}

// markStale flags an entry and returns refetch work if any subscriber is
// waiting on it. Caller holds mu.
func (s *Store) markStale(k string) *staleEntry {
	e, ok := s.entries[k]
	if !ok {
		return nil
	}
	e.valid = false
	if len(e.subs) == 0 || e.fetch == nil {
		return nil
	}
	return &staleEntry{key: k, fetch: e.fetch}
}

func (s *Store) refetch(stale []*staleEntry) {
	for _, se := range stale {
		go func(se *staleEntry) {
			v, err := se.fetch(context.Background())
			if err != nil {
				// leave the entry stale; the next read will fetch again
				return
			}
			s.mu.Lock()
			e, ok := s.entries[se.key]
			if !ok {
				s.mu.Unlock()
				return
			}
			e.value = v
			e.valid = true
			chans := make([]chan interface{}, 0, len(e.subs))
			for _, ch := range e.subs {
				chans = append(chans, ch)
			}
			s.mu.Unlock()

			for _, ch := range chans {
				// keep only the newest payload when the subscriber lags
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- v:
				default:
				}
			}
		}(se)
	}
}

// Subscribe registers interest in a key. The returned channel receives each
// payload produced by background refetches of that key; cancel removes the
// subscription.
func (s *Store) Subscribe(key Key) (<-chan interface{}, func()) {
	k := key.String()
	ch := make(chan interface{}, 1)

	s.mu.Lock()
	e, ok := s.entries[k]
	if !ok {
		e = &entry{subs: map[int]chan interface{}{}}
		s.entries[k] = e
		if _, ok := s.byTag[key.Tag]; !ok {
			s.byTag[key.Tag] = map[string]struct{}{}
		}
		s.byTag[key.Tag][k] = struct{}{}
	}
	id := s.nextSub
	s.nextSub++
	e.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if e, ok := s.entries[k]; ok {
			delete(e.subs, id)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// EvictIdle drops every entry that has not been read for at least maxIdle
// and returns how many were removed. Entries with live subscribers are
// kept: their consumers still want refetch pushes. Distinct search
// strings, filters and order ids each create an entry, so a long-lived
// process needs a periodic sweep.
func (s *Store) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.nowFunc().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for k, e := range s.entries {
		if len(e.subs) > 0 || e.lastAccess.After(cutoff) {
			continue
		}
		delete(s.entries, k)
		for _, keys := range s.byTag {
			delete(keys, k)
		}
		evicted++
	}
	return evicted
}

// Stats returns a snapshot of the hit/miss counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses}
}

// GetOrFetch is the typed convenience wrapper used by the resource services.
func GetOrFetch[T any](ctx context.Context, s *Store, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.GetOrFetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
