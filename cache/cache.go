package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/evictcache/internal/util"
	"github.com/IvanBrykalov/evictcache/policy"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
var ErrNoLoader = errors.New("cache: no Loader provided")

// cache is a sharded in-memory KV store; each shard owns one replacement
// engine behind a mutex. All methods are safe for concurrent use.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool
	size   atomic.Int64

	opt Options[K, V]

	// coalesces concurrent loads in GetOrLoad.
	sf singleflight.Group
}

// New constructs a cache with the provided Options.
// Defaults:
//   - Policy ""   -> LRU
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> zap.NewNop()
//   - Shards <= 0 -> auto, a power of two no larger than a positive Capacity
//
// An unknown Policy fails with an error wrapping policy.ErrUnsupportedPolicy.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	opt = opt.withDefaults()
	kind, err := policy.ParseKind(opt.Policy)
	if err != nil {
		return nil, errors.Wrap(err, "cache: options")
	}

	c := &cache[K, V]{
		hash: util.Hash64[K], // fast non-crypto hash for sharding
		opt:  opt,
	}
	n := util.ShardCount(opt.Shards)
	if opt.Shards <= 0 {
		n = util.AutoShardsFor(n, opt.Capacity)
	}
	perShard := util.SplitCapacity(opt.Capacity, n)
	c.shards = make([]*shard[K, V], n)
	for i := range c.shards {
		// shards point at c.opt so every one sees the same Metrics/Logger/Clock.
		s, err := newShard(i, perShard, kind, &c.opt, &c.size)
		if err != nil {
			return nil, err
		}
		c.shards[i] = s
	}

	opt.Logger.Info("cache: created",
		zap.Stringer("policy", kind),
		zap.Int("capacity", opt.Capacity),
		zap.Int("shards", n),
		zap.Int("per_shard_capacity", perShard),
		zap.Duration("default_ttl", opt.DefaultTTL),
	)
	return c, nil
}

// MustNew is New that panics on invalid Options.
func MustNew[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	c, err := New(opt)
	if err != nil {
		panic(err)
	}
	return c
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Add(k, v, c.defaultDeadline())
}

func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Set(k, v, c.defaultDeadline())
}

func (c *cache[K, V]) SetWithTTL(k K, v V, ttl time.Duration) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Set(k, v, c.deadline(ttl))
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

func (c *cache[K, V]) Contains(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Contains(k)
}

// Touch groups keys by shard so each shard lock is taken once.
func (c *cache[K, V]) Touch(keys ...K) {
	if c.closed.Load() || len(keys) == 0 {
		return
	}
	if len(c.shards) == 1 {
		c.shards[0].Touch(keys)
		return
	}
	byShard := make(map[int][]K, len(c.shards))
	for _, k := range keys {
		i := c.shardIndex(k)
		byShard[i] = append(byShard[i], k)
	}
	for i, ks := range byShard {
		c.shards[i].Touch(ks)
	}
}

func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Remove(k)
}

func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

func (c *cache[K, V]) Keys() []K {
	var keys []K
	for _, s := range c.shards {
		keys = s.Keys(keys)
	}
	return keys
}

func (c *cache[K, V]) Clear() {
	for _, s := range c.shards {
		s.Clear()
	}
}

func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		ss := s.stats()
		st.Hits += ss.Hits
		st.Misses += ss.Misses
		st.Evictions += ss.Evictions
	}
	return st
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	if !c.closed.Swap(true) {
		c.opt.Logger.Debug("cache: closed", zap.Int("len", c.Len()))
	}
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key. Cancelling ctx releases only
// this caller; the shared load keeps running with the leader's ctx.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	ch := c.sf.DoChan(util.KeyString(k), func() (any, error) {
		// double-check after flight join; the caller already counted its miss
		if v, ok := c.lookup(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			return v, errors.Wrapf(err, "cache: load %v", k)
		}
		c.Set(k, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// ---- helpers ----

func (c *cache[K, V]) shardIndex(k K) int {
	return util.ShardIndex(c.hash(k), len(c.shards))
}

func (c *cache[K, V]) lookup(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).lookup(k)
}

func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[c.shardIndex(k)]
}

// defaultDeadline returns an absolute deadline based on DefaultTTL.
func (c *cache[K, V]) defaultDeadline() int64 {
	return c.deadline(c.opt.DefaultTTL)
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *cache[K, V]) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	now := time.Now().UnixNano()
	if c.opt.Clock != nil {
		now = c.opt.Clock.NowUnixNano()
	}
	return now + int64(ttl)
}
