// Package lru implements the Least-Recently-Used replacement policy.
package lru

import (
	"iter"

	"github.com/IvanBrykalov/evictcache/internal/list"
	"github.com/IvanBrykalov/evictcache/policy"
)

type item[K comparable, V any] struct {
	key K
	val V
}

// Cache is a classic map + intrusive list LRU: head is the oldest entry,
// tail the most recently used. All operations are O(1).
// Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	m        map[K]*list.Entry[item[K, V]]
	ll       list.List[item[K, V]]
	cfg      policy.Config[K, V]
}

// New returns an LRU engine holding at most capacity entries
// (negative = unbounded, 0 = disabled).
func New[K comparable, V any](capacity int, opts ...policy.Option[K, V]) *Cache[K, V] {
	hint := capacity
	if hint < 0 {
		hint = 0
	}
	return &Cache[K, V]{
		capacity: capacity,
		m:        make(map[K]*list.Entry[item[K, V]], hint),
		cfg:      policy.Apply(opts...),
	}
}

// Contains reports whether k is cached without promoting it.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.m[k]
	return ok
}

// Get returns the value and promotes the entry to most recently used.
func (c *Cache[K, V]) Get(k K) (V, error) {
	e, ok := c.m[k]
	if !ok {
		var zero V
		return zero, policy.ErrNotFound
	}
	c.moveToBack(e)
	return e.Value.val, nil
}

// Set inserts k→v if absent, evicting the oldest entries while full.
func (c *Cache[K, V]) Set(k K, v V) {
	if c.capacity == 0 {
		return
	}
	if _, ok := c.m[k]; ok {
		return
	}
	for policy.AtCapacity(len(c.m), c.capacity) {
		if !c.evictByPolicy() {
			break
		}
	}
	e := list.NewEntry(item[K, V]{key: k, val: v})
	c.ll.PushBack(e)
	c.m[k] = e
}

// Update overwrites in place; an overwrite is not a use, so the position is
// kept. Absent keys are inserted like Set.
func (c *Cache[K, V]) Update(k K, v V) {
	if c.capacity == 0 {
		return
	}
	if e, ok := c.m[k]; ok {
		e.Value.val = v
		return
	}
	c.Set(k, v)
}

// ItemAccessed promotes each present key without reading it.
func (c *Cache[K, V]) ItemAccessed(keys ...K) {
	for _, k := range keys {
		if e, ok := c.m[k]; ok {
			c.moveToBack(e)
		}
	}
}

// EvictByKey removes k in O(1).
func (c *Cache[K, V]) EvictByKey(k K) {
	if e, ok := c.m[k]; ok {
		delete(c.m, k)
		c.ll.Remove(e)
	}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return len(c.m) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear drops every entry and unlinks the list.
func (c *Cache[K, V]) Clear() {
	clear(c.m)
	c.ll.Clear()
}

// Keys yields keys from least to most recently used.
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := range c.ll.All() {
			if !yield(e.Value.key) {
				return
			}
		}
	}
}

// Kind returns policy.LRU.
func (c *Cache[K, V]) Kind() policy.Kind { return policy.LRU }

// ---- internals ----

func (c *Cache[K, V]) moveToBack(e *list.Entry[item[K, V]]) {
	if e.Next() == nil {
		return
	}
	c.ll.PushBack(c.ll.Pop(e))
}

// evictByPolicy drops the head (least recently used). Reports false on an
// empty list.
func (c *Cache[K, V]) evictByPolicy() bool {
	e := c.ll.PopFront()
	if e == nil {
		return false
	}
	delete(c.m, e.Value.key)
	c.cfg.Evicted(e.Value.key, e.Value.val)
	return true
}

var _ policy.Cache[string, int] = (*Cache[string, int])(nil)
