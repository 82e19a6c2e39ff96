// Package livestore provides watchable in-process collections for the
// command center. A watch observes a filtered, ordered, limited view of a
// collection and receives the full current result set on every change,
// never a bare diff.
package livestore

import (
	"sort"
	"sync"
)

// ChangeType classifies how an item moved relative to a watch's result set.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// Change pairs a change type with the item it concerns. For removed
// changes the item is the last version the watch saw.
type Change[T any] struct {
	Type ChangeType `json:"type"`
	Item T          `json:"item"`
}

// Snapshot is one delivery to a watcher: the complete current result set
// in collection order plus the changes that produced it. The initial
// delivery after Watch carries no changes.
type Snapshot[T any] struct {
	Items   []T
	Changes []Change[T]
}

// Watcher receives snapshots. Watchers run under the collection's lock so
// dispatch order matches mutation order; they must not call back into the
// collection.
type Watcher[T any] func(snapshot Snapshot[T])

type watch[T any] struct {
	filter  func(T) bool
	limit   int
	deliver Watcher[T]
	prev    map[string]T
}

// Collection is a keyed, ordered, watchable set of items. The zero value
// is not usable; construct with New.
type Collection[T any] struct {
	mu      sync.Mutex
	key     func(T) string
	less    func(a, b T) bool
	cap     int
	items   map[string]T
	watches map[uint64]*watch[T]
	nextID  uint64
	closed  bool
}

type Option[T any] func(c *Collection[T])

// WithCap bounds the collection to the n best-ordered items; anything
// beyond is evicted on insert, with removed changes delivered to watches.
func WithCap[T any](n int) Option[T] {
	return func(c *Collection[T]) {
		c.cap = n
	}
}

// New creates a Collection. key must be stable per item identity; less
// defines snapshot order (the command center uses newest-first).
func New[T any](key func(T) string, less func(a, b T) bool, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		key:     key,
		less:    less,
		items:   make(map[string]T),
		watches: make(map[uint64]*watch[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Watch registers a live query. A nil filter matches everything; limit 0
// means unlimited. The watcher immediately receives the current result set
// with no changes, then a snapshot per mutation that alters its view. The
// returned function cancels the watch; forgetting it leaks the watch until
// Close.
func (c *Collection[T]) Watch(filter func(T) bool, limit int, deliver Watcher[T]) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}

	c.nextID++
	token := c.nextID
	w := &watch[T]{filter: filter, limit: limit, deliver: deliver}
	c.watches[token] = w

	items := c.resultLocked(w)
	w.prev = byKey(c.key, items)
	deliver(Snapshot[T]{Items: items})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.watches, token)
	}
}

// Upsert inserts or replaces the item with the same key and notifies
// affected watches. Returns false when the collection is closed and the
// write was rejected.
func (c *Collection[T]) Upsert(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.items[c.key(item)] = item
	if c.cap > 0 && len(c.items) > c.cap {
		sorted := c.sortedLocked()
		for _, victim := range sorted[c.cap:] {
			delete(c.items, c.key(victim))
		}
	}
	c.dispatchLocked(c.key(item))
	return true
}

// Delete removes the item with the given key, if present.
func (c *Collection[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.dispatchLocked(key)
}

// Get returns the item with the given key.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	return item, ok
}

// List returns a filtered, ordered, limited result set without
// registering a watch.
func (c *Collection[T]) List(filter func(T) bool, limit int) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultLocked(&watch[T]{filter: filter, limit: limit})
}

// Len reports the total number of items, ignoring filters.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close cancels every watch and rejects further mutations. Part of the
// shutdown contract: a service that forgets Close leaks its watches.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.watches = make(map[uint64]*watch[T])
}

// dispatchLocked recomputes every watch's result set after a mutation to
// the item with mutatedKey and delivers snapshots to watches whose view
// changed. Runs under c.mu so snapshots arrive in mutation order.
func (c *Collection[T]) dispatchLocked(mutatedKey string) {
	for _, w := range c.watches {
		next := c.resultLocked(w)
		nextByKey := byKey(c.key, next)

		var changes []Change[T]
		for _, item := range next {
			key := c.key(item)
			if _, existed := w.prev[key]; !existed {
				changes = append(changes, Change[T]{Type: ChangeAdded, Item: item})
			} else if key == mutatedKey {
				changes = append(changes, Change[T]{Type: ChangeModified, Item: item})
			}
		}
		for key, item := range w.prev {
			if _, still := nextByKey[key]; !still {
				changes = append(changes, Change[T]{Type: ChangeRemoved, Item: item})
			}
		}
		if len(changes) == 0 {
			continue
		}
		w.prev = nextByKey
		w.deliver(Snapshot[T]{Items: next, Changes: changes})
	}
}

func (c *Collection[T]) resultLocked(w *watch[T]) []T {
	sorted := c.sortedLocked()
	result := make([]T, 0, len(sorted))
	for _, item := range sorted {
		if w.filter == nil || w.filter(item) {
			result = append(result, item)
			if w.limit > 0 && len(result) == w.limit {
				break
			}
		}
	}
	return result
}

func (c *Collection[T]) sortedLocked() []T {
	sorted := make([]T, 0, len(c.items))
	for _, item := range c.items {
		sorted = append(sorted, item)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return c.less(sorted[i], sorted[j]) })
	return sorted
}

func byKey[T any](key func(T) string, items []T) map[string]T {
	m := make(map[string]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}
