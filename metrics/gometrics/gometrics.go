// Package gometrics adapts cache.Metrics to an rcrowley/go-metrics registry,
// for processes that report through go-metrics rather than Prometheus.
package gometrics

import (
	"github.com/rcrowley/go-metrics"

	"github.com/IvanBrykalov/evictcache/cache"
)

// Adapter implements cache.Metrics on top of go-metrics counters and a gauge.
// Metric names are prefix + "hit", "miss", "evict.policy", "evict.ttl", "size".
type Adapter struct {
	hits   metrics.Counter
	misses metrics.Counter
	evicts [2]metrics.Counter // indexed by cache.EvictReason
	size   metrics.Gauge
}

// New registers the cache metrics under prefix in reg
// (nil => metrics.DefaultRegistry). Existing metrics with the same names
// are reused, so two caches sharing a prefix aggregate.
func New(reg metrics.Registry, prefix string) *Adapter {
	if reg == nil {
		reg = metrics.DefaultRegistry
	}
	return &Adapter{
		hits:   metrics.GetOrRegisterCounter(prefix+"hit", reg),
		misses: metrics.GetOrRegisterCounter(prefix+"miss", reg),
		evicts: [2]metrics.Counter{
			cache.EvictPolicy: metrics.GetOrRegisterCounter(prefix+"evict.policy", reg),
			cache.EvictTTL:    metrics.GetOrRegisterCounter(prefix+"evict.ttl", reg),
		},
		size: metrics.GetOrRegisterGauge(prefix+"size", reg),
	}
}

func (a *Adapter) Hit()  { a.hits.Inc(1) }
func (a *Adapter) Miss() { a.misses.Inc(1) }

func (a *Adapter) Evict(r cache.EvictReason) {
	if int(r) < len(a.evicts) {
		a.evicts[r].Inc(1)
	}
}

func (a *Adapter) Size(entries int) { a.size.Update(int64(entries)) }

var _ cache.Metrics = (*Adapter)(nil)
