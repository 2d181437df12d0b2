package cache

import (
	"github.com/pkg/errors"

	"github.com/IvanBrykalov/evictcache/policy"
	"github.com/IvanBrykalov/evictcache/policy/fifo"
	"github.com/IvanBrykalov/evictcache/policy/lfu"
	"github.com/IvanBrykalov/evictcache/policy/lru"
	"github.com/IvanBrykalov/evictcache/policy/null"
)

// NewPolicy builds a single-owner replacement engine from a policy name
// ("none", "fifo", "lru", "lfu", "mfu"; case-insensitive) and a capacity
// (negative = unbounded, 0 = disabled). Capacity 0 always yields the null
// engine, whatever the name. Unknown names fail with an error wrapping
// policy.ErrUnsupportedPolicy.
func NewPolicy[K comparable, V any](name string, capacity int, opts ...policy.Option[K, V]) (policy.Cache[K, V], error) {
	if capacity == 0 {
		return null.New[K, V](), nil
	}
	kind, err := policy.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return NewPolicyKind(kind, capacity, opts...)
}

// NewPolicyKind is NewPolicy for an already parsed Kind. Like NewPolicy it
// returns the null engine for capacity 0 before looking at kind.
func NewPolicyKind[K comparable, V any](kind policy.Kind, capacity int, opts ...policy.Option[K, V]) (policy.Cache[K, V], error) {
	if capacity == 0 {
		return null.New[K, V](), nil
	}
	switch kind {
	case policy.None:
		return null.New[K, V](), nil
	case policy.FIFO:
		return fifo.New(capacity, opts...), nil
	case policy.LRU:
		return lru.New(capacity, opts...), nil
	case policy.LFU:
		return lfu.New(capacity, opts...), nil
	case policy.MFU:
		return lfu.NewMFU(capacity, opts...), nil
	default:
		return nil, errors.Wrapf(policy.ErrUnsupportedPolicy, "kind %s", kind)
	}
}
