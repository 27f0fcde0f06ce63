// package cache implements the in-memory TTL store backing track resolution
// and lyrics lookups.
package cache

import (
	"sync"
	"time"
)

// Entry wraps a cached value together with an OK flag. OK distinguishes a
// present value from an explicit-absent marker ("already searched, confirmed
// not found"), which is cached just like a hit.
type Entry[V any] struct {
	Value V
	OK    bool
}

// stored pairs an entry with the generation it was written at. Timers capture
// their write's generation and only evict while it still matches, so a stale
// timer can never remove a newer write under the same key.
type stored[V any] struct {
	entry Entry[V]
	gen   uint64
}

// Store is a concurrency-safe map with per-entry time-driven eviction.
//
// There is no capacity bound and no LRU; entries leave only by expiring or by
// being overwritten. Same-key races resolve last-write-wins.
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]stored[V]
	gen   uint64
}

// New creates an empty [Store].
func New[V any]() *Store[V] {
	return &Store[V]{items: make(map[string]stored[V])}
}

// Get returns the entry stored under key. The second return value reports
// whether anything was stored at all; check [Entry.OK] to tell a cached value
// from a cached absence.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	return item.entry, ok
}

// Put stores a value under key for ttl.
func (s *Store[V]) Put(key string, value V, ttl time.Duration) {
	s.insert(key, Entry[V]{Value: value, OK: true}, ttl)
}

// PutMiss stores an explicit-absent marker under key for ttl, so repeated
// lookups within the window skip the network entirely.
func (s *Store[V]) PutMiss(key string, ttl time.Duration) {
	s.insert(key, Entry[V]{}, ttl)
}

func (s *Store[V]) insert(key string, entry Entry[V], ttl time.Duration) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.items[key] = stored[V]{entry: entry, gen: gen}
	s.mu.Unlock()

	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if item, ok := s.items[key]; ok && item.gen == gen {
			delete(s.items, key)
		}
		s.mu.Unlock()
	})
}

// Delete removes the entry stored under key, if any.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Len returns the number of live entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Flush drops every entry. Pending timers become no-ops because their
// generations no longer match anything.
func (s *Store[V]) Flush() {
	s.mu.Lock()
	s.items = make(map[string]stored[V])
	s.mu.Unlock()
}
