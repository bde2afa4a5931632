// Package cache holds short-lived derived values between requests — in
// practice the blue-dollar sell rate, so a month's worth of balance reads
// costs one quote fetch instead of one per read.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value   T
	staleAt time.Time
}

// InMemory is a process-local TTL cache. Implements port.Cache.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
}

// New creates a cache whose entries expire ttl after Set. A sweeper
// goroutine reclaims stale entries; reads never return them regardless.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the live value for key, or false when absent or stale.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || time.Now().After(e.staleAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:   value,
		staleAt: time.Now().Add(c.ttl),
	}
}

// Delete drops key immediately.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// sweep drops stale entries once per TTL so an idle cache does not pin
// dead rate quotes in memory.
func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, e := range c.items {
			if now.After(e.staleAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
