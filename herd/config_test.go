package herd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50.0, cfg.Flock.MaxSpeed)
	assert.Equal(t, 40.0, cfg.Flock.ProtectedDistance)
	assert.Equal(t, 200.0, cfg.Flock.VisibleDistance)
	assert.Equal(t, 44, cfg.Flock.SheepCount)
	assert.False(t, cfg.Herder.Enabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"protected not below visible", func(c *Config) { c.Flock.ProtectedDistance = 200 }, "must be less than"},
		{"zero max speed", func(c *Config) { c.Flock.MaxSpeed = 0 }, "maxSpeed"},
		{"margin above one", func(c *Config) { c.Flock.Margin = 1.5 }, "margin"},
		{"negative sheep", func(c *Config) { c.Flock.SheepCount = -1 }, "sheepCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("json overrides defaults", func(t *testing.T) {
		path := writeFile(t, dir, "flock.json", `{"flock": {"sheepCount": 12, "seed": 7}, "herder": {"enabled": true}}`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 12, cfg.Flock.SheepCount)
		assert.Equal(t, uint64(7), cfg.Flock.Seed)
		assert.True(t, cfg.Herder.Enabled)
		assert.Equal(t, DefaultConfig().Flock.MaxSpeed, cfg.Flock.MaxSpeed)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "flock.yaml", "flock:\n  maxSpeed: 30\n  wanderForce: 0\nfield:\n  tileSize: 32\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 30.0, cfg.Flock.MaxSpeed)
		assert.Zero(t, cfg.Flock.WanderForce)
		assert.Equal(t, 32.0, cfg.Field.TileSize)
	})

	t.Run("empty yaml keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeFile(t, dir, "empty.yml", ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("schema rejects unknown keys", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "typo.json", `{"flock": {"maxSpeeed": 3}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})

	t.Run("schema rejects wrong types", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "types.yaml", "flock:\n  sheepCount: lots\n"))
		require.Error(t, err)
	})

	t.Run("cross field rules", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "ranges.json", `{"flock": {"protectedDistance": 300}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, dir, "bad.json", `{"flock":`))
		require.Error(t, err)
	})
}
