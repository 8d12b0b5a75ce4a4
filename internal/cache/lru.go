// Package cache provides the bounded in-memory store for weather icon bytes.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is the icon cache capacity used when none is configured.
const DefaultCapacity = 50

type entry struct {
	key   string
	value []byte
}

// LRU is a capacity-bounded byte cache with least-recently-used eviction.
// Get and Put are O(1) and safe for concurrent use. Absence is reported via
// the bool return, never as an error.
type LRU struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

// NewLRU creates an LRU holding at most capacity entries. Values <= 0
// default to DefaultCapacity.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached bytes for key and marks the entry recently used.
func (c *LRU) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

// Put stores value under key, evicting the least recently used entry when
// the cache is full. Empty keys are ignored; cache keys are never empty.
func (c *LRU) Put(key string, value []byte) {
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: value})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
}

// Len reports the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}
