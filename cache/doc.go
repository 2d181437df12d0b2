// Package cache provides a sharded, concurrency-safe front-end over the
// single-owner replacement engines of package policy (FIFO, LRU, LFU, MFU),
// plus the factory that builds those engines.
//
// Design
//
//   - Engines: policy.Cache implementations are NOT synchronized. NewPolicy
//     returns one for callers that own it exclusively (one worker, one
//     session) and need no locking at all.
//
//   - Concurrency: New splits the cache into shards, each a sync.Mutex around
//     one engine. Engine reads reorder lists (LRU) or buckets (LFU/MFU), so
//     reads take the exclusive lock too. Eviction order is exact per shard;
//     use Shards: 1 for a global order.
//
//   - Capacity: Options.Capacity is split evenly across shards (rounded up).
//     0 disables caching (every shard gets the null engine); a negative value
//     means unbounded. Eviction happens inline in Add/Set, never in the
//     background.
//
//   - TTL: entries can have per-item deadlines (UnixNano). Expiration is lazy
//     on read.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     golang.org/x/sync/singleflight. If Loader is nil, GetOrLoad returns
//     ErrNoLoader.
//
//   - Metrics & logging: Options.Metrics receives Hit/Miss/Evict/Size
//     signals (see metrics/prom and metrics/gometrics); Options.Logger is a
//     zap logger (construction at Info, evictions at Debug).
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every eviction
//     (reason is EvictPolicy or EvictTTL). Explicit Remove and Clear are not
//     evictions.
//
// Single-owner engine
//
//	c, err := cache.NewPolicy[string, []byte]("mfu", 256)
//	if err != nil {
//	    return err // wraps policy.ErrUnsupportedPolicy
//	}
//	c.Set("tile:3:7", data)
//	if v, err := c.Get("tile:3:7"); err == nil {
//	    _ = v
//	}
//	c.ItemAccessed("tile:3:7", "tile:3:8")
//
// Shared cache
//
//	c := cache.MustNew[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Policy:   "lfu",
//	})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
//
// With GetOrLoad (singleflight)
//
//	c := cache.MustNew[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil // e.g. decode a tile from disk
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
package cache
