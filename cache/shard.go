package cache

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/evictcache/internal/util"
	"github.com/IvanBrykalov/evictcache/policy"
)

// entry is what a shard stores in its engine. The zero entry (live == false)
// is what a FIFO engine leaves behind after EvictByKey, so it reads as a miss.
type entry[V any] struct {
	val  V
	exp  int64 // absolute UnixNano deadline; 0 = no TTL
	live bool
}

// shard is an independent partition of the cache: one mutex around one
// single-owner replacement engine. Engine reads reorder internal lists, so
// every call (Get included) takes the exclusive lock.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex
	eng policy.Cache[K, entry[V]]

	id   int
	opt  *Options[K, V]
	size *atomic.Int64 // cache-wide resident count, shared by all shards

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedCounter
	misses util.PaddedCounter
	evicts util.PaddedCounter
}

// newShard builds the shard's engine with the given per-shard capacity.
func newShard[K comparable, V any](id, capacity int, kind policy.Kind, opt *Options[K, V], size *atomic.Int64) (*shard[K, V], error) {
	s := &shard[K, V]{id: id, opt: opt, size: size}
	eng, err := NewPolicyKind(kind, capacity, policy.WithOnEvict(func(k K, e entry[V]) {
		// a FIFO slot blanked by Remove was already accounted for
		if e.live {
			s.evicted(k, e.val, EvictPolicy)
		}
	}))
	if err != nil {
		return nil, err
	}
	s.eng = eng
	return s, nil
}

// Add inserts a NEW entry (first write wins) and reports whether it did.
// Checking presence must not count as an access, so an expired entry keeps
// blocking Add until a Get expires it. A blank FIFO slot is revived in place.
func (s *shard[K, V]) Add(k K, v V, exp int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.trackSize(s.eng.Len())

	found, live := s.residentLocked(k)
	if live {
		return false
	}
	e := entry[V]{val: v, exp: exp, live: true}
	if found {
		s.eng.Update(k, e)
		return true
	}
	s.eng.Set(k, e)
	return s.eng.Contains(k)
}

// Set inserts or overwrites k→v in place.
func (s *shard[K, V]) Set(k K, v V, exp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.trackSize(s.eng.Len())

	s.eng.Update(k, entry[V]{val: v, exp: exp, live: true})
}

// Get returns the value and lets the engine record the access.
// TTL: an expired entry is evicted and reported as a miss.
func (s *shard[K, V]) Get(k K) (V, bool) { return s.get(k, true) }

// lookup is Get without hit/miss accounting. The engine still records the
// access and TTL expiry still applies.
func (s *shard[K, V]) lookup(k K) (V, bool) { return s.get(k, false) }

func (s *shard[K, V]) get(k K, count bool) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.eng.Get(k)
	if err != nil || !e.live {
		return s.missLocked(count)
	}
	if s.expiredLocked(e) {
		before := s.eng.Len()
		s.expireLocked(k, e)
		s.trackSize(before)
		return s.missLocked(count)
	}
	if count {
		s.hits.Add(1)
		s.opt.Metrics.Hit()
	}
	return e.val, true
}

// Contains reports whether k holds a live entry; blank FIFO slots do not.
func (s *shard[K, V]) Contains(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, live := s.residentLocked(k)
	return live
}

func (s *shard[K, V]) Touch(keys []K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.ItemAccessed(keys...)
}

// Remove deletes an entry by key. Returns true if the entry existed.
// Explicit removal is not counted as an eviction.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.trackSize(s.eng.Len())

	if _, live := s.residentLocked(k); !live {
		return false
	}
	s.eng.EvictByKey(k)
	return true
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Len()
}

// Keys appends this shard's live keys to dst.
func (s *shard[K, V]) Keys(dst []K) []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng.Kind() != policy.FIFO {
		return slices.AppendSeq(dst, s.eng.Keys())
	}
	for k := range s.eng.Keys() {
		if _, live := s.residentLocked(k); live {
			dst = append(dst, k)
		}
	}
	return dst
}

func (s *shard[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.trackSize(s.eng.Len())
	s.eng.Clear()
}

func (s *shard[K, V]) stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Evictions: s.evicts.Load()}
}

// -------------------- internals (mu held) --------------------

func (s *shard[K, V]) missLocked(count bool) (V, bool) {
	if count {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
	}
	var zero V
	return zero, false
}

// residentLocked reports whether the engine holds k (found) and whether that
// entry is live. Only FIFO keeps dead slots, and a FIFO Get records nothing,
// so reading the entry there is not an access.
func (s *shard[K, V]) residentLocked(k K) (found, live bool) {
	if !s.eng.Contains(k) {
		return false, false
	}
	if s.eng.Kind() != policy.FIFO {
		return true, true
	}
	e, err := s.eng.Get(k)
	return true, err == nil && e.live
}

func (s *shard[K, V]) expiredLocked(e entry[V]) bool {
	return e.exp != 0 && s.now() > e.exp
}

func (s *shard[K, V]) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

func (s *shard[K, V]) expireLocked(k K, e entry[V]) {
	s.eng.EvictByKey(k)
	s.evicted(k, e.val, EvictTTL)
}

// evicted updates counters/metrics/logs and calls OnEvict. It runs for
// policy evictions from inside the engine's Set, still under mu.
func (s *shard[K, V]) evicted(k K, v V, reason EvictReason) {
	s.evicts.Add(1)
	s.opt.Metrics.Evict(reason)
	if ce := s.opt.Logger.Check(zap.DebugLevel, "cache: evicted"); ce != nil {
		ce.Write(zap.Any("key", k), zap.Stringer("reason", reason), zap.Int("shard", s.id))
	}
	if cb := s.opt.OnEvict; cb != nil {
		cb(k, v, reason)
	}
}

// trackSize folds the change since before into the cache-wide size and
// reports it.
func (s *shard[K, V]) trackSize(before int) {
	delta := s.eng.Len() - before
	if delta == 0 {
		return
	}
	s.opt.Metrics.Size(int(s.size.Add(int64(delta))))
}
