// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"container/heap"
)

// W8 keeps the maxCount heaviest values. The weight order is given by less,
// the lightest value is evicted first once the count exceeds maxCount.
type W8[K comparable, V any] struct {
	entryMap  map[K]*wentry[K, V]
	entryHeap wheap[K, V]
	maxCount  int
}

// NewW8 create a new instance.
func NewW8[K comparable, V any](maxCount int, less func(a, b V) bool) *W8[K, V] {
	return &W8[K, V]{
		entryMap:  make(map[K]*wentry[K, V]),
		entryHeap: wheap[K, V]{less: less},
		maxCount:  maxCount,
	}
}

// Get get value for given key.
func (c *W8[K, V]) Get(key K) (V, bool) {
	if entry, ok := c.entryMap[key]; ok {
		return entry.value, true
	}
	var zero V
	return zero, false
}

// Set set or update value for given key.
// Returns the evicted key and value if the count exceeds max count.
func (c *W8[K, V]) Set(key K, value V) (evictedKey K, evicted V, ok bool) {
	if entry, exists := c.entryMap[key]; exists {
		entry.value = value
		heap.Fix(&c.entryHeap, entry.index)
	} else {
		newEntry := &wentry[K, V]{
			key:   key,
			value: value,
		}
		heap.Push(&c.entryHeap, newEntry)
		c.entryMap[key] = newEntry
	}

	if len(c.entryHeap.entries) > c.maxCount {
		popped := heap.Pop(&c.entryHeap).(*wentry[K, V])
		delete(c.entryMap, popped.key)
		return popped.key, popped.value, true
	}
	return
}

// Count returns count of value.
func (c *W8[K, V]) Count() int {
	return len(c.entryHeap.entries)
}

// Drain removes all values and returns them lightest first.
func (c *W8[K, V]) Drain() []V {
	values := make([]V, 0, len(c.entryHeap.entries))
	for len(c.entryHeap.entries) > 0 {
		popped := heap.Pop(&c.entryHeap).(*wentry[K, V])
		delete(c.entryMap, popped.key)
		values = append(values, popped.value)
	}
	return values
}

type wentry[K comparable, V any] struct {
	key   K
	value V
	index int
}

type wheap[K comparable, V any] struct {
	entries []*wentry[K, V]
	less    func(a, b V) bool
}

func (h wheap[K, V]) Len() int { return len(h.entries) }
func (h wheap[K, V]) Less(i, j int) bool {
	return h.less(h.entries[i].value, h.entries[j].value)
}

func (h wheap[K, V]) Swap(i, j int) {
	h.entries[i].index = j
	h.entries[j].index = i
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *wheap[K, V]) Push(value any) {
	ent := value.(*wentry[K, V])
	ent.index = len(h.entries)
	h.entries = append(h.entries, ent)
}

func (h *wheap[K, V]) Pop() any {
	n := len(h.entries)
	ent := h.entries[n-1]
	ent.index = -1
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	return ent
}
