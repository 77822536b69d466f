// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync"
)

// FIFO a bounded cache which evicts the earliest inserted entries when
// length exceeds limit. Reading an entry does not change its position.
type FIFO[K comparable, V any] struct {
	m     map[K]V
	order []K
	limit int
	lock  sync.Mutex
}

// NewFIFO create a new FIFO cache.
func NewFIFO[K comparable, V any](limit int) *FIFO[K, V] {
	if limit < 1 {
		panic("invalid limit for FIFO")
	}
	return &FIFO[K, V]{
		m:     make(map[K]V, limit),
		order: make([]K, 0, limit+1),
		limit: limit,
	}
}

// Len returns count of entries in the cache.
func (c *FIFO[K, V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.m)
}

// Set sets value for given key. Overwriting an existing key keeps its
// original insertion position. Returns the evicted keys, oldest first.
func (c *FIFO[K, V]) Set(key K, value V) (evicted []K) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.m[key]; ok {
		c.m[key] = value
		return nil
	}
	c.m[key] = value
	c.order = append(c.order, key)

	for len(c.m) > c.limit {
		oldest := c.order[0]
		var zero K
		c.order[0] = zero
		c.order = c.order[1:]
		delete(c.m, oldest)
		evicted = append(evicted, oldest)
	}
	return
}

// Get get value for the given key.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	v, ok := c.m[key]
	return v, ok
}

// Contains returns whether the given key is contained.
func (c *FIFO[K, V]) Contains(key K) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, ok := c.m[key]
	return ok
}

// Keys returns keys in insertion order.
func (c *FIFO[K, V]) Keys() []K {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]K(nil), c.order...)
}
