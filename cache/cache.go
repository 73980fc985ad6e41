// Package cache provides an insertion-ordered key/value store.
package cache

import "sync"

// Cache keeps values in the order their keys were first set.
// Re-setting an existing key replaces the value in place.
// There is no eviction; the owner clears it.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	index map[K]int
	keys  []K
	vals  []V
}

// New creates an empty cache
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{index: make(map[K]int)}
}

// Get returns the value for key and whether it was present
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.vals[i], true
}

// Has reports whether key is present
func (c *Cache[K, V]) Has(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.index[key]
	return ok
}

// Set stores value under key
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[key]; ok {
		c.vals[i] = value
		return
	}
	c.index[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.vals = append(c.vals, value)
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		return false
	}

	delete(c.index, key)
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.vals = append(c.vals[:i], c.vals[i+1:]...)
	for j := i; j < len(c.keys); j++ {
		c.index[c.keys[j]] = j
	}
	return true
}

// Clear removes every entry
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = make(map[K]int)
	c.keys = nil
	c.vals = nil
}

// Len returns the number of entries
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.keys)
}

// Keys returns a snapshot of the keys in insertion order
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]K{}, c.keys...)
}

// Values returns a snapshot of the values in insertion order
func (c *Cache[K, V]) Values() []V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]V{}, c.vals...)
}
