package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Cores)
	assert.Equal(t, 0.25, cfg.SparsityThreshold)
	assert.Equal(t, 0.0001, cfg.Tolerance)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smartop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cores: 8
granularity: 2
policy: static
factory: compact
workers: [http://a:8080]
request_timeout: 5s
`), 0o644))

	t.Setenv("SMARTOP_CORES", "12")
	t.Setenv("SMARTOP_DYNAMIC_SPLIT", "yes")
	t.Setenv("SMARTOP_WORKERS", "http://x:1, ,http://y:2")
	t.Setenv("SMARTOP_GRANULARITY", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cores, "env overrides file")
	assert.Equal(t, 2, cfg.Granularity, "unparsable env keeps file value")
	assert.Equal(t, "static", cfg.Policy)
	assert.Equal(t, "compact", cfg.Factory)
	assert.True(t, cfg.DynamicSplit)
	assert.Equal(t, []string{"http://x:1", "http://y:2"}, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1, cfg.ThreadMultiplier, "default survives")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	cfg := Default()
	cfg.Engine = EngineDistributed
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"cores", func(c *Config) { c.Cores = 0 }},
		{"threads", func(c *Config) { c.ThreadMultiplier = -1 }},
		{"granularity", func(c *Config) { c.Granularity = 0 }},
		{"max nodes", func(c *Config) { c.MaxNodes = 0 }},
		{"threshold", func(c *Config) { c.SparsityThreshold = 1.5 }},
		{"tolerance", func(c *Config) { c.Tolerance = -1 }},
		{"timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"policy", func(c *Config) { c.Policy = "magic" }},
		{"factory", func(c *Config) { c.Factory = "hash" }},
		{"engine", func(c *Config) { c.Engine = "gpu" }},
		{"adapter", func(c *Config) { c.Adapter = "grpc" }},
		{"http without workers", func(c *Config) { c.Adapter = AdapterHTTP }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var ce ConfigError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestMatrixOptions(t *testing.T) {
	cfg := Default()
	cfg.SparsityThreshold = 0.4
	assert.Len(t, cfg.MatrixOptions(), 2)
}
