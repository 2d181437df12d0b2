// Package lfu implements the O(1) Least-Frequently-Used replacement policy
// and its mirror, Most-Frequently-Used.
//
// Layout (two levels of intrusive lists):
//
//	freq:  [0] <-> [1] <-> [4] <-> [9]        buckets, counts strictly increasing
//	        |       |       |       |
//	       a,d     b       c,e     f          items with that count, oldest first
//
// Every item keeps a back-reference to its bucket, so an access moves it to
// the next bucket in O(1). The count-0 bucket is the landing zone for new
// items and may stay empty; any other bucket is dropped as soon as it empties.
// The key map owns the items; buckets only link them.
package lfu

import (
	"iter"

	"github.com/IvanBrykalov/evictcache/internal/list"
	"github.com/IvanBrykalov/evictcache/policy"
)

type bucket[K comparable, V any] struct {
	count uint64
	items list.List[item[K, V]]
}

type item[K comparable, V any] struct {
	key K
	val V
	// bucket is the owning frequency bucket; nil while detached.
	bucket *list.Entry[bucket[K, V]]
}

// Cache is an LFU (or MFU) engine. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	// mostFrequent flips the eviction scan to start at the highest count.
	mostFrequent bool

	m    map[K]*list.Entry[item[K, V]]
	freq list.List[bucket[K, V]]
	cfg  policy.Config[K, V]
}

// New returns an LFU engine holding at most capacity entries
// (negative = unbounded, 0 = disabled).
func New[K comparable, V any](capacity int, opts ...policy.Option[K, V]) *Cache[K, V] {
	return newCache(capacity, false, opts)
}

// NewMFU returns an MFU engine: same structure as LFU, but the victim is the
// oldest item of the highest-count bucket.
func NewMFU[K comparable, V any](capacity int, opts ...policy.Option[K, V]) *Cache[K, V] {
	return newCache(capacity, true, opts)
}

func newCache[K comparable, V any](capacity int, mostFrequent bool, opts []policy.Option[K, V]) *Cache[K, V] {
	hint := capacity
	if hint < 0 {
		hint = 0
	}
	return &Cache[K, V]{
		capacity:     capacity,
		mostFrequent: mostFrequent,
		m:            make(map[K]*list.Entry[item[K, V]], hint),
		cfg:          policy.Apply(opts...),
	}
}

// Contains reports whether k is cached. It does not count as an access.
func (c *Cache[K, V]) Contains(k K) bool {
	_, ok := c.m[k]
	return ok
}

// Get returns the value and bumps the access count of k.
func (c *Cache[K, V]) Get(k K) (V, error) {
	e, ok := c.m[k]
	if !ok {
		var zero V
		return zero, policy.ErrNotFound
	}
	c.increment(e)
	return e.Value.val, nil
}

// Frequency returns the current access count of k.
func (c *Cache[K, V]) Frequency(k K) (uint64, bool) {
	e, ok := c.m[k]
	if !ok {
		return 0, false
	}
	return e.Value.bucket.Value.count, true
}

// Set inserts k→v with count 0 if absent, evicting by policy while full.
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

	zero := c.freq.Front()
	if zero == nil || zero.Value.count != 0 {
		zero = list.NewEntry(bucket[K, V]{})
		c.freq.PushFront(zero)
	}
	e := list.NewEntry(item[K, V]{key: k, val: v, bucket: zero})
	zero.Value.items.PushBack(e)
	c.m[k] = e
}

// Update overwrites the value in place without touching the count, or
// inserts like Set.
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

// ItemAccessed bumps the count of every present key.
func (c *Cache[K, V]) ItemAccessed(keys ...K) {
	for _, k := range keys {
		if e, ok := c.m[k]; ok {
			c.increment(e)
		}
	}
}

// EvictByKey removes k if present.
func (c *Cache[K, V]) EvictByKey(k K) {
	if e, ok := c.m[k]; ok {
		c.remove(e)
	}
}

// Len returns the number of cached keys.
func (c *Cache[K, V]) Len() int { return len(c.m) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear removes every item (tearing down back-references), then the buckets.
func (c *Cache[K, V]) Clear() {
	for _, e := range c.m {
		c.remove(e)
	}
	c.freq.Clear()
}

// Keys yields keys by ascending count, oldest first within a count.
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for b := range c.freq.All() {
			for e := range b.Value.items.All() {
				if !yield(e.Value.key) {
					return
				}
			}
		}
	}
}

// Kind returns policy.LFU or policy.MFU.
func (c *Cache[K, V]) Kind() policy.Kind {
	if c.mostFrequent {
		return policy.MFU
	}
	return policy.LFU
}

// ---- internals ----

// increment moves e from its bucket (count n) to bucket n+1.
func (c *Cache[K, V]) increment(e *list.Entry[item[K, V]]) {
	b := e.Value.bucket
	n := b.Value.count

	next := b.Next()
	if next == nil || next.Value.count != n+1 {
		// e is alone in b: relabel b instead of creating n+1 and dropping b.
		// Safe only because no n+1 bucket exists.
		if b.Value.items.Len() == 1 {
			b.Value.count = n + 1
			return
		}
		next = list.NewEntry(bucket[K, V]{count: n + 1})
		c.freq.InsertAfter(b, next)
	}

	b.Value.items.Pop(e)
	c.dropIfEmpty(b)
	next.Value.items.PushBack(e)
	e.Value.bucket = next
}

// remove detaches e from its bucket and the map.
func (c *Cache[K, V]) remove(e *list.Entry[item[K, V]]) {
	b := e.Value.bucket
	delete(c.m, e.Value.key)
	b.Value.items.Remove(e) // releases key, value and the back-reference
	c.dropIfEmpty(b)
}

// dropIfEmpty removes b once it holds no items, unless it is the count-0 bucket.
func (c *Cache[K, V]) dropIfEmpty(b *list.Entry[bucket[K, V]]) {
	if b.Value.items.Len() == 0 && b.Value.count != 0 {
		c.freq.Remove(b)
	}
}

// victim returns the oldest item of the lowest (LFU) or highest (MFU)
// non-empty bucket.
func (c *Cache[K, V]) victim() *list.Entry[item[K, V]] {
	if c.mostFrequent {
		for b := c.freq.Back(); b != nil; b = b.Prev() {
			if v := b.Value.items.Front(); v != nil {
				return v
			}
		}
		return nil
	}
	for b := c.freq.Front(); b != nil; b = b.Next() {
		if v := b.Value.items.Front(); v != nil {
			return v
		}
	}
	return nil
}

func (c *Cache[K, V]) evictByPolicy() bool {
	e := c.victim()
	if e == nil {
		return false
	}
	k, v := e.Value.key, e.Value.val
	c.remove(e)
	c.cfg.Evicted(k, v)
	return true
}

var _ policy.Cache[string, int] = (*Cache[string, int])(nil)
