// Package policy defines the uniform contract shared by every cache
// replacement engine (null, FIFO, LRU, LFU, MFU) and the options they accept.
//
// Engines are NOT safe for concurrent use: one owner (a worker, a session)
// drives an instance at a time. Wrap an engine in a mutex, or use the sharded
// front-end in package cache, when several goroutines need to share it.
package policy

import (
	"iter"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get for an absent key. Engines return it bare
// (no wrapping) so a miss stays allocation free; test with errors.Is.
var ErrNotFound = errors.New("policy: key not found")

// ErrUnsupportedPolicy is wrapped by ParseKind and the factory for unknown
// policy names.
var ErrUnsupportedPolicy = errors.New("policy: unsupported policy")

// Unbounded is the capacity of an engine without an upper limit.
// Any negative capacity is treated the same way.
const Unbounded = -1

// Cache is the contract every engine implements.
type Cache[K comparable, V any] interface {
	// Contains reports whether k is cached. It does not count as an access.
	Contains(k K) bool

	// Get returns the value for k and records the access according to the
	// policy. Returns ErrNotFound on a miss.
	Get(k K) (V, error)

	// Set inserts k→v only if k is absent and the capacity is not zero.
	// An existing value is left untouched (first write wins). When full, the
	// engine evicts by policy before inserting.
	Set(k K, v V)

	// Update overwrites the value of a present key in place without touching
	// its recency or frequency, or behaves like Set otherwise.
	Update(k K, v V)

	// ItemAccessed records an external access of the given keys (e.g. a tile
	// consumed by a renderer) without returning data. Absent keys are ignored.
	ItemAccessed(keys ...K)

	// EvictByKey removes k if present.
	EvictByKey(k K)

	// Len returns the number of cached keys.
	Len() int

	// Cap returns the configured capacity (negative = unbounded).
	Cap() int

	// Clear drops every entry.
	Clear()

	// Keys iterates over cached keys in the engine's internal order.
	// The engine must not be modified during the iteration.
	Keys() iter.Seq[K]

	// Kind reports the replacement policy.
	Kind() Kind
}

// AtCapacity reports whether an engine holding n entries must evict before
// admitting a new key.
func AtCapacity(n, capacity int) bool {
	return capacity >= 0 && n >= capacity
}

// ---- engine options ----

// Config carries optional engine settings. Engines build it with Apply.
type Config[K comparable, V any] struct {
	// OnEvict is called for every eviction made by the policy itself
	// (capacity pressure). Explicit EvictByKey and Clear do not trigger it.
	OnEvict func(k K, v V)
}

// Option configures an engine.
type Option[K comparable, V any] func(*Config[K, V])

// WithOnEvict registers a callback for policy evictions. The callback runs
// synchronously inside Set and must not call back into the engine.
func WithOnEvict[K comparable, V any](fn func(k K, v V)) Option[K, V] {
	return func(c *Config[K, V]) { c.OnEvict = fn }
}

// Apply folds opts into a Config.
func Apply[K comparable, V any](opts ...Option[K, V]) Config[K, V] {
	var c Config[K, V]
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// Evicted invokes OnEvict if configured.
func (c Config[K, V]) Evicted(k K, v V) {
	if c.OnEvict != nil {
		c.OnEvict(k, v)
	}
}
