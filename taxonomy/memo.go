package taxonomy

import "sync"

// memo is an insert-only cache keyed by string. Lookups hold the read
// lock only; concurrent misses may both compute, but they compute the
// same value from the same immutable index, so the duplicate store is
// harmless.
type memo[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

func newMemo[V any]() *memo[V] {
	return &memo[V]{m: make(map[string]V)}
}

func (c *memo[V]) get(key string) (V, bool) {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *memo[V]) put(key string, v V) V {
	c.mu.Lock()
	c.m[key] = v
	c.mu.Unlock()
	return v
}
