// Package querycache is a small keyed cache for read queries. Concurrent
// requests for the same key share one fetch, entries go stale after a TTL,
// and mutations invalidate the keys they affect through an explicit table.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fetcher loads the value for a key when the cache has no fresh copy.
type Fetcher[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]*entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, fetching it when missing or stale.
// Concurrent callers with the same key wait on a single fetch. A failed
// fetch leaves any stale value in place.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry[T]{value: value, fetchedAt: c.now()}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			zero = e.value
		}
		c.mu.Unlock()
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the given keys so the next Get refetches.
func (c *Cache[T]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// InvalidatePrefix drops every key starting with prefix. List keys carry
// filter parameters in their suffix, so mutations invalidate by prefix.
func (c *Cache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// InvalidateFor applies the Mutations table for a named mutation.
func (c *Cache[T]) InvalidateFor(mutation string) {
	for _, prefix := range Mutations[mutation] {
		c.InvalidatePrefix(prefix)
	}
}

// Poll refetches key at a fixed interval until ctx is cancelled. Fetch
// failures keep the previous value and the loop running.
func (c *Cache[T]) Poll(ctx context.Context, key string, interval time.Duration, fetch Fetcher[T]) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Invalidate(key)
			_, _ = c.Get(ctx, key, fetch)
		}
	}
}

// Len reports how many entries are cached, fresh or stale.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
