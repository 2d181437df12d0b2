// Package fifo implements the first-in-first-out replacement policy.
//
// Keys and values live in two parallel ring-buffer deques sharing one
// capacity. Lookups scan linearly: FIFO trades lookup speed for simplicity.
package fifo

import (
	"iter"

	"github.com/gammazero/deque"

	"github.com/IvanBrykalov/evictcache/policy"
)

// Cache is a FIFO engine. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	keys     deque.Deque[K]
	vals     deque.Deque[V]
	cfg      policy.Config[K, V]
}

// New returns a FIFO engine holding at most capacity entries
// (negative = unbounded, 0 = disabled).
func New[K comparable, V any](capacity int, opts ...policy.Option[K, V]) *Cache[K, V] {
	return &Cache[K, V]{capacity: capacity, cfg: policy.Apply(opts...)}
}

func (c *Cache[K, V]) index(k K) int {
	return c.keys.Index(func(x K) bool { return x == k })
}

// Contains reports whether k is still queued (tombstones included).
func (c *Cache[K, V]) Contains(k K) bool { return c.index(k) >= 0 }

// Get returns the value stored for k. Insertion order is the only order, so a
// hit changes nothing. A key evicted by EvictByKey still hits with the zero
// value until it rolls off.
func (c *Cache[K, V]) Get(k K) (V, error) {
	i := c.index(k)
	if i < 0 {
		var zero V
		return zero, policy.ErrNotFound
	}
	return c.vals.At(i), nil
}

// Set appends k→v if k is new. At capacity the oldest pair rolls off first.
func (c *Cache[K, V]) Set(k K, v V) {
	if c.capacity == 0 || c.Contains(k) {
		return
	}
	if policy.AtCapacity(c.keys.Len(), c.capacity) {
		c.cfg.Evicted(c.keys.PopFront(), c.vals.PopFront())
	}
	c.keys.PushBack(k)
	c.vals.PushBack(v)
}

// Update overwrites the value of k in place, or appends it like Set.
func (c *Cache[K, V]) Update(k K, v V) {
	if c.capacity == 0 {
		return
	}
	if i := c.index(k); i >= 0 {
		c.vals.Set(i, v)
		return
	}
	c.Set(k, v)
}

// ItemAccessed is a no-op: reads do not reorder a FIFO queue.
func (c *Cache[K, V]) ItemAccessed(...K) {}

// EvictByKey tombstones k: its value is reset to the zero value but the slot
// stays queued (and counted by Len) until it rolls off. Removing from the
// middle of the ring would cost an O(n) shift.
func (c *Cache[K, V]) EvictByKey(k K) {
	if c.capacity == 0 {
		return
	}
	if i := c.index(k); i >= 0 {
		var zero V
		c.vals.Set(i, zero)
	}
}

// Len returns the number of queued slots, tombstones included.
func (c *Cache[K, V]) Len() int { return c.keys.Len() }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear empties both deques.
func (c *Cache[K, V]) Clear() {
	c.keys.Clear()
	c.vals.Clear()
}

// Keys yields keys oldest first.
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := 0; i < c.keys.Len(); i++ {
			if !yield(c.keys.At(i)) {
				return
			}
		}
	}
}

// Kind returns policy.FIFO.
func (c *Cache[K, V]) Kind() policy.Kind { return policy.FIFO }

var _ policy.Cache[string, int] = (*Cache[string, int])(nil)
