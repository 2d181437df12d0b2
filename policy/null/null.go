// Package null implements a zero-capacity cache: every write is dropped and
// every read misses. It is what the factory hands out for capacity 0 or the
// "none" policy, so callers never need a nil check.
package null

import (
	"iter"

	"github.com/IvanBrykalov/evictcache/policy"
)

// Cache is the null engine.
type Cache[K comparable, V any] struct{}

// New returns a null engine.
func New[K comparable, V any]() *Cache[K, V] { return &Cache[K, V]{} }

// Get always misses.
func (*Cache[K, V]) Get(K) (V, error) {
	var zero V
	return zero, policy.ErrNotFound
}

// Keys yields nothing.
func (*Cache[K, V]) Keys() iter.Seq[K] {
	return func(func(K) bool) {}
}

func (*Cache[K, V]) Contains(K) bool   { return false }
func (*Cache[K, V]) Set(K, V)          {}
func (*Cache[K, V]) Update(K, V)       {}
func (*Cache[K, V]) ItemAccessed(...K) {}
func (*Cache[K, V]) EvictByKey(K)      {}
func (*Cache[K, V]) Len() int          { return 0 }
func (*Cache[K, V]) Cap() int          { return 0 }
func (*Cache[K, V]) Clear()            {}
func (*Cache[K, V]) Kind() policy.Kind { return policy.None }

var _ policy.Cache[string, int] = (*Cache[string, int])(nil)
