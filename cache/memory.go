package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memory is an in-memory LRU cache with optional expiry.
type Memory[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*list.Element
	order   *list.List // front = most recently used
	policy  Policy

	sfGroup singleflight.Group // collapses concurrent loads per key
	keyName func(K) string
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// Option configures a Memory cache.
type Option[K comparable] func(*memoryOptions[K])

type memoryOptions[K comparable] struct {
	keyName func(K) string
	now     func() time.Time
}

// WithKeyName sets how keys are named for load deduplication. Distinct keys
// must produce distinct names. Defaults to fmt.Sprint.
func WithKeyName[K comparable](fn func(K) string) Option[K] {
	return func(o *memoryOptions[K]) {
		o.keyName = fn
	}
}

// WithClock replaces time.Now for expiry.
func WithClock[K comparable](now func() time.Time) Option[K] {
	return func(o *memoryOptions[K]) {
		o.now = now
	}
}

// NewMemory creates a new in-memory cache with the given policy.
func NewMemory[K comparable, V any](policy Policy, opts ...Option[K]) *Memory[K, V] {
	o := memoryOptions[K]{
		keyName: func(k K) string { return fmt.Sprint(k) },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory[K, V]{
		entries: make(map[K]*list.Element),
		order:   list.New(),
		policy:  policy.Normalize(),
		keyName: o.keyName,
		now:     o.now,
	}
}

// Policy returns the eviction policy.
func (c *Memory[K, V]) Policy() Policy {
	return c.policy
}

// Get retrieves a value from the cache. Returns (zero, false) on miss or expiry.
func (c *Memory[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Memory[K, V]) getLocked(key K) (V, bool) {
	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.policy.Expires() && !c.now().Before(e.expiresAt) {
		// Expired - clean up lazily
		c.removeLocked(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *Memory[K, V]) Set(_ context.Context, key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

func (c *Memory[K, V]) setLocked(key K, value V) {
	var expiresAt time.Time
	if c.policy.Expires() {
		expiresAt = c.now().Add(c.policy.TTL)
	}

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	for c.policy.Bounded() && c.order.Len() > c.policy.MaxEntries {
		c.removeLocked(c.order.Back())
	}
}

// Delete removes a value from the cache. Idempotent - no-op on miss.
func (c *Memory[K, V]) Delete(_ context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

func (c *Memory[K, V]) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry[K, V]).key)
}

// Len reports the number of stored entries, including expired ones not yet
// collected.
func (c *Memory[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// GetOrLoad returns the cached value for key, loading and storing it on a
// miss. Concurrent misses for the same key share one load. Errors are not
// cached.
func (c *Memory[K, V]) GetOrLoad(ctx context.Context, key K, load LoadFunc[V]) (V, error) {
	if v, ok := c.Get(ctx, key); ok {
		return v, nil
	}
	if load == nil {
		var zero V
		return zero, ErrNilLoader
	}

	res, err, _ := c.sfGroup.Do(c.keyName(key), func() (any, error) {
		// Another caller may have filled the entry while we waited.
		c.mu.Lock()
		if v, ok := c.getLocked(key); ok {
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(ctx, key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Ensure Memory implements Cache
var _ Cache[string, int] = (*Memory[string, int])(nil)
