package main

import (
	"flag"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/IvanBrykalov/evictcache/policy"
)

// config is the bench configuration. It can come from a YAML file
// (-config); flags given explicitly on the command line win over the file.
type config struct {
	Capacity int    `yaml:"capacity"`
	Shards   int    `yaml:"shards"`
	Policy   string `yaml:"policy"`

	Workers  int           `yaml:"workers"`
	Duration time.Duration `yaml:"duration"`
	ReadPct  int           `yaml:"reads"`
	TouchPct int           `yaml:"touches"`
	TTL      time.Duration `yaml:"ttl"`

	Keys    int     `yaml:"keys"`
	ZipfS   float64 `yaml:"zipf_s"`
	ZipfV   float64 `yaml:"zipf_v"`
	Seed    int64   `yaml:"seed"`
	Preload int     `yaml:"preload"`

	PprofAddr   string `yaml:"pprof"`
	MetricsAddr string `yaml:"http"`
	Debug       bool   `yaml:"debug"`
}

func defaultConfig() config {
	return config{
		Capacity:    100_000,
		Policy:      "lru",
		Workers:     2 * runtime.GOMAXPROCS(0),
		Duration:    10 * time.Second,
		ReadPct:     80,
		Keys:        1_000_000,
		ZipfS:       1.1,
		ZipfV:       1.0,
		Seed:        time.Now().UnixNano(),
		MetricsAddr: ":8080",
	}
}

// parseConfig builds the configuration from defaults, then the optional YAML
// file, then explicit flags.
func parseConfig(args []string, stderr io.Writer) (config, error) {
	cfg := defaultConfig()
	var path string

	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&path, "config", "", "YAML config file; explicit flags override it")
	fs.IntVar(&cfg.Capacity, "cap", cfg.Capacity, "cache capacity (entries, <0 = unbounded)")
	fs.IntVar(&cfg.Shards, "shards", cfg.Shards, "number of shards (0=auto)")
	fs.StringVar(&cfg.Policy, "policy", cfg.Policy, "eviction policy: none | fifo | lru | lfu | mfu")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of worker goroutines")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "benchmark duration")
	fs.IntVar(&cfg.ReadPct, "reads", cfg.ReadPct, "read percentage [0..100]")
	fs.IntVar(&cfg.TouchPct, "touches", cfg.TouchPct, "percentage of writes replaced by Touch [0..100]")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "default TTL for writes (0 = none)")
	fs.IntVar(&cfg.Keys, "keys", cfg.Keys, "keyspace size")
	fs.Float64Var(&cfg.ZipfS, "zipf_s", cfg.ZipfS, "Zipf s > 1 (skew)")
	fs.Float64Var(&cfg.ZipfV, "zipf_v", cfg.ZipfV, "Zipf v")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Preload, "preload", cfg.Preload, "preload entries (0 = cap/2)")
	fs.StringVar(&cfg.PprofAddr, "pprof", cfg.PprofAddr, "serve pprof at addr (e.g. :6060); empty = disabled")
	fs.StringVar(&cfg.MetricsAddr, "http", cfg.MetricsAddr, "serve Prometheus metrics at addr; empty = disabled")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging (logs every eviction)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
		// Second pass: explicit flags override the file.
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.validate()
}

func loadYAML(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "decode config %s", path)
	}
	return nil
}

func (c config) validate() error {
	if _, err := policy.ParseKind(c.Policy); err != nil {
		return err
	}
	if c.ReadPct < 0 || c.ReadPct > 100 {
		return errors.Errorf("reads must be in [0..100], got %d", c.ReadPct)
	}
	if c.TouchPct < 0 || c.TouchPct > 100 {
		return errors.Errorf("touches must be in [0..100], got %d", c.TouchPct)
	}
	if c.Keys < 1 {
		return errors.Errorf("keys must be positive, got %d", c.Keys)
	}
	if c.ZipfS <= 1 || c.ZipfV < 1 {
		return errors.Errorf("zipf needs s > 1 and v >= 1, got s=%v v=%v", c.ZipfS, c.ZipfV)
	}
	return nil
}
