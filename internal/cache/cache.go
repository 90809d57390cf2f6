// Package cache memoizes slow-changing reference data for a fixed TTL.
//
// Concurrent misses on the same key share one in-flight fetch. A caller that
// gives up waiting does not cancel the fetch the others are waiting on.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const keylessFlight = "keyless"

// Entry is a cached value and the time it was fetched.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

func (e Entry[T]) valid(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Cache holds a single value.
type Cache[T any] struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	entry *Entry[T]
	group singleflight.Group
}

// New creates a keyless cache.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// GetOrUpdate returns the cached value while it is younger than the TTL,
// otherwise calls fetch once for all concurrent callers and stores the result.
func (c *Cache[T]) GetOrUpdate(ctx context.Context, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.load(); ok {
		return v, nil
	}

	ch := c.group.DoChan(keylessFlight, func() (any, error) {
		if v, ok := c.load(); ok {
			return v, nil
		}
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entry = &Entry[T]{Value: v, FetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})

	return wait[T](ctx, ch)
}

func (c *Cache[T]) load() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.entry.valid(c.ttl, c.now()) {
		return c.entry.Value, true
	}
	var zero T
	return zero, false
}

// KeyedCache holds one independent entry per key.
type KeyedCache[K comparable, V any] struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[K]Entry[V]
	group   singleflight.Group
}

// NewKeyed creates a keyed cache.
func NewKeyed[K comparable, V any](ttl time.Duration) *KeyedCache[K, V] {
	return &KeyedCache[K, V]{ttl: ttl, now: time.Now, entries: make(map[K]Entry[V])}
}

// GetOrUpdate is the keyed form of Cache.GetOrUpdate.
func (c *KeyedCache[K, V]) GetOrUpdate(ctx context.Context, key K, fetch func(ctx context.Context, key K) (V, error)) (V, error) {
	if v, ok := c.load(key); ok {
		return v, nil
	}

	ch := c.group.DoChan(flightKey(key), func() (any, error) {
		if v, ok := c.load(key); ok {
			return v, nil
		}
		v, err := fetch(context.WithoutCancel(ctx), key)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = Entry[V]{Value: v, FetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})

	return wait[V](ctx, ch)
}

// Invalidate drops the entry of key.
func (c *KeyedCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *KeyedCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *KeyedCache[K, V]) load(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && e.valid(c.ttl, c.now()) {
		return e.Value, true
	}
	var zero V
	return zero, false
}

func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%#v", key)
}

func wait[T any](ctx context.Context, ch <-chan singleflight.Result) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}
