package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/evictcache/policy"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "lru", cfg.Policy)
	assert.Equal(t, 100_000, cfg.Capacity)
	assert.Equal(t, ":8080", cfg.MetricsAddr)
}

func TestParseConfig_FileThenFlags(t *testing.T) {
	path := writeConfig(t, `
capacity: 512
policy: mfu
duration: 3s
touches: 20
http: ""
`)
	cfg, err := parseConfig([]string{"-config", path, "-cap", "64", "-debug"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Capacity, "explicit flag wins")
	assert.Equal(t, "mfu", cfg.Policy)
	assert.Equal(t, 3*time.Second, cfg.Duration)
	assert.Equal(t, 20, cfg.TouchPct)
	assert.Empty(t, cfg.MetricsAddr)
	assert.True(t, cfg.Debug)
}

func TestParseConfig_Errors(t *testing.T) {
	_, err := parseConfig([]string{"-policy", "arc"}, io.Discard)
	assert.True(t, errors.Is(err, policy.ErrUnsupportedPolicy))

	_, err = parseConfig([]string{"-reads", "101"}, io.Discard)
	assert.Error(t, err)

	_, err = parseConfig([]string{"-config", writeConfig(t, "bogus: 1\n")}, io.Discard)
	assert.Error(t, err, "unknown fields are rejected")

	_, err = parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard)
	assert.Error(t, err)
}

func TestParseConfig_EmptyFile(t *testing.T) {
	cfg, err := parseConfig([]string{"-config", writeConfig(t, "")}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().Capacity, cfg.Capacity)
}
