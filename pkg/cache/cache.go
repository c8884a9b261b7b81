// Package cache provides a thread-safe LRU cache of transpilation outcomes.
//
// The pipeline is deterministic, so an outcome computed once for a source
// string is valid forever; failures are cached as well as successes. The
// HTTP server puts the cache in front of its backend so repeated requests
// (an editor re-sending the same text) skip the pipeline or the sandbox.
//
// # Example
//
//	c := cache.New(1024)
//	out := c.GetOrCompute(source, func() types.Outcome { return tr.Transpile(source) })
package cache

import (
	"container/list"
	"sync"

	"github.com/sandrolain/lispc/pkg/types"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

// entry is a cache entry stored in the doubly-linked list.
type entry struct {
	key     string
	outcome types.Outcome
}

// Cache is a thread-safe LRU (Least Recently Used) cache of outcomes.
// Once the capacity is reached, the least recently accessed entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a new LRU cache with the given capacity.
// capacity must be > 0; if <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves an outcome from the cache.
// Returns (outcome, true) if found and moves the entry to front (MRU).
func (c *Cache) Get(key string) (types.Outcome, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	if ok && c.ll.Front() == el {
		out := el.Value.(*entry).outcome
		c.mu.RUnlock()
		return out, true
	}
	c.mu.RUnlock()
	if !ok {
		return types.Outcome{}, false
	}

	// Promote to front under write lock; re-check in case of concurrent eviction.
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok = c.items[key]
	if !ok {
		return types.Outcome{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).outcome, true
}

// Set inserts or replaces an outcome in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *Cache) Set(key string, outcome types.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).outcome = outcome
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{key: key, outcome: outcome})
	c.items[key] = el
}

// GetOrCompute returns the cached outcome for key, or calls compute,
// caches its result and returns it. Concurrent misses on the same key may
// each call compute; the results are identical.
func (c *Cache) GetOrCompute(key string, compute func() types.Outcome) types.Outcome {
	if out, ok := c.Get(key); ok {
		return out
	}
	out := compute()
	c.Set(key, out)
	return out
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate removes a single entry from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
