package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Server.Address)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Game.TableSize)
	assert.Equal(t, 100, cfg.Game.BigBlind)
	assert.Equal(t, 10000, cfg.Game.StartingStack)
	assert.Equal(t, "hero", cfg.Game.HeroName)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trainer.hcl")
	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

game {
  table_size = 9
  big_blind  = 200
  seed       = 42
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 9, cfg.Game.TableSize)
	assert.Equal(t, 200, cfg.Game.BigBlind)
	assert.Equal(t, int64(42), cfg.Game.Seed)

	// Untouched fields keep their defaults.
	assert.Equal(t, 10000, cfg.Game.StartingStack)
	assert.Equal(t, "hero", cfg.Game.HeroName)

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unsupported table size", func(c *Config) { c.Game.TableSize = 7 }},
		{"negative big blind", func(c *Config) { c.Game.BigBlind = -1 }},
		{"stack below blind", func(c *Config) { c.Game.StartingStack = 50 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		assert.Error(t, cfg.Validate(), tc.name)
	}
}
