package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPolicy: removed by the replacement policy to make room.
	EvictPolicy EvictReason = iota
	// EvictTTL: expired by TTL (lazy eviction on access).
	EvictTTL
)

func (r EvictReason) String() string {
	if r == EvictTTL {
		return "ttl"
	}
	return "policy"
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	// Size reports the total number of resident entries.
	Size(entries int)
}

// NoopMetrics discards every signal. It is the default when Options.Metrics
// is nil.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

var _ Metrics = NoopMetrics{}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. Zero values are safe;
// defaults are applied in New():
//   - Policy ""     => "lru"
//   - Shards <= 0   => auto (rounded up to power of two)
//   - nil Metrics   => NoopMetrics
//   - nil Logger    => zap.NewNop()
type Options[K comparable, V any] struct {
	// Capacity is the entry budget, split evenly across shards with each
	// shard rounded up, so the cache may hold up to
	// ceil(Capacity/Shards)*Shards entries (less than Capacity+Shards).
	// Each shard evicts on its own. Use Shards: 1 for an exact limit.
	// 0 disables caching; a negative value means unbounded.
	Capacity int

	// Shards defines the number of shards. If 0, an automatic value is chosen
	// (≈ 2*GOMAXPROCS rounded to the next power of two), lowered to a power
	// of two no larger than a positive Capacity.
	Shards int

	// Policy names the replacement policy: none, fifo, lru, lfu or mfu.
	Policy string

	// DefaultTTL applies to Add/Set when no per-key TTL is given (0 = no TTL).
	DefaultTTL time.Duration

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called on eviction under the shard lock; keep callbacks
	// lightweight and do not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)

	Metrics Metrics
	Logger  *zap.Logger

	// Clock allows overriding time source (tests). Nil => time.Now().
	Clock Clock
}

func (o Options[K, V]) withDefaults() Options[K, V] {
	if o.Policy == "" {
		o.Policy = "lru"
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
