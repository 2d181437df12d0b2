// Command bench runs a synthetic Zipf workload against the cache and exposes
// optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/evictcache/cache"
	pmet "github.com/IvanBrykalov/evictcache/metrics/prom"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(2)
	}

	log := newLogger(cfg.Debug)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("bench failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	log, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

type counters struct {
	reads, writes, touches, hits, misses, total atomic.Uint64
}

func run(cfg config, log *zap.Logger) error {
	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			log.Info("pprof: serving", zap.String("addr", cfg.PprofAddr))
			log.Warn("pprof: stopped", zap.Error(http.ListenAndServe(cfg.PprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	var m cache.Metrics = cache.NoopMetrics{}
	if cfg.MetricsAddr != "" {
		m = pmet.New(nil, "evictcache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info("metrics: serving", zap.String("addr", cfg.MetricsAddr))
			log.Warn("metrics: stopped", zap.Error(http.ListenAndServe(cfg.MetricsAddr, nil)))
		}()
	}

	// ---- Build cache ----
	c, err := cache.New[string, string](cache.Options[string, string]{
		Capacity:   cfg.Capacity,
		Shards:     cfg.Shards,
		Policy:     cfg.Policy,
		DefaultTTL: cfg.TTL,
		Metrics:    m,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := cfg.Preload
	if pl == 0 {
		pl = cfg.Capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Set(k, "v"+strconv.Itoa(i))
	}

	// Latency timers live in a go-metrics registry and are printed at the end.
	registry := metrics.NewRegistry()
	getTimer := metrics.NewRegisteredTimer("get", registry)
	setTimer := metrics.NewRegisteredTimer("set", registry)
	touchTimer := metrics.NewRegisteredTimer("touch", registry)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	keysMax := uint64(cfg.Keys - 1)

	// ---- Load generation ----
	var n counters
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, keysMax)
			key := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

			for ctx.Err() == nil {
				n.total.Add(1)
				switch {
				case int(r.Int31n(100)) < cfg.ReadPct:
					n.reads.Add(1)
					k := key()
					var ok bool
					getTimer.Time(func() { _, ok = c.Get(k) })
					if ok {
						n.hits.Add(1)
					} else {
						n.misses.Add(1)
					}
				case int(r.Int31n(100)) < cfg.TouchPct:
					n.touches.Add(1)
					k1, k2 := key(), key()
					touchTimer.Time(func() { c.Touch(k1, k2) })
				default:
					n.writes.Add(1)
					k, v := key(), "v"+strconv.Itoa(r.Int())
					setTimer.Time(func() { c.Set(k, v) })
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	ops := n.total.Load()
	reads := n.reads.Load()
	hitRate := 0.0
	if reads > 0 {
		hitRate = float64(n.hits.Load()) / float64(reads) * 100
	}
	st := c.Stats()

	fmt.Printf("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		cfg.Policy, cfg.Capacity, cfg.Shards, workers, cfg.Keys, elapsed, cfg.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  touches=%d\n",
		ops, float64(ops)/elapsed.Seconds(), reads, n.writes.Load(), n.touches.Load())
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d\n",
		n.hits.Load(), n.misses.Load(), hitRate, st.Evictions)
	fmt.Printf("Len()=%d\n", c.Len())
	metrics.WriteOnce(registry, os.Stdout)
	return nil
}
