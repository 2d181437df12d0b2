package cache

import (
	"context"
	"time"
)

// Cache is a sharded, in-memory key/value cache backed by one replacement
// engine (FIFO, LRU, LFU or MFU) per shard.
// All methods are safe for concurrent use by multiple goroutines.
//
// Eviction order is exact within a shard and approximate across shards;
// use Shards: 1 when a global order matters.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present (first write wins).
	// It uses the cache's DefaultTTL (if any).
	// Returns false if the key already exists or the cache is disabled.
	Add(k K, v V) bool

	// Set inserts or overwrites k→v. Overwriting keeps the entry's
	// recency/frequency as is; only reads move entries.
	Set(k K, v V)

	// SetWithTTL is Set with a per-key TTL (relative duration).
	// A non-positive ttl disables expiration for this entry.
	SetWithTTL(k K, v V, ttl time.Duration)

	// Get returns the value for k and a presence flag.
	// On hit, the access is recorded by the policy.
	Get(k K) (V, bool)

	// Contains reports whether k is resident without recording an access.
	Contains(k K) bool

	// Touch records external accesses of keys (e.g. data consumed
	// elsewhere) without reading them. Absent keys are ignored.
	Touch(keys ...K)

	// Remove deletes k if present and reports whether it was resident.
	// FIFO shards only blank the slot; see policy/fifo.
	Remove(k K) bool

	// Len returns the total number of engine slots across all shards.
	// A FIFO slot blanked by Remove keeps counting until it rolls off.
	Len() int

	// Keys returns a snapshot of resident keys, shard by shard, each shard in
	// its engine's order. Blank FIFO slots are skipped.
	Keys() []K

	// Clear drops every entry.
	Clear()

	// Stats returns hit/miss/eviction counters accumulated since creation.
	Stats() Stats

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed: later writes are ignored, reads miss.
	Close() error
}

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRatio returns Hits/(Hits+Misses), or 0 before the first read.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
