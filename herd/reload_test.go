package herd

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigReloadSystemAppliesAtTickBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flock.SheepCount = 4
	w := NewWorld(cfg, discardLogger())

	updates := make(chan *Config, 1)
	w.WatchConfig(updates)

	next := DefaultConfig()
	next.Flock.SheepCount = 6
	next.Flock.Seed = 77
	next.Herder.Enabled = true
	updates <- next

	assert.False(t, w.Config().Herder.Enabled)
	w.Tick(1.0 / 60)

	assert.True(t, w.Config().Herder.Enabled)
	assert.Len(t, w.Sheep(), 6)

	groups := NewBiasGroups(NewRand(77), next.Flock.BiasStrength)
	for _, s := range w.Sheep() {
		assert.Equal(t, groups.For(s.ID), s.Bias)
	}
}

func TestConfigReloadWithoutSpawnChangeKeepsFlock(t *testing.T) {
	w := NewWorld(nil, discardLogger())
	updates := make(chan *Config, 1)
	w.WatchConfig(updates)
	before := w.Sheep()

	next := DefaultConfig()
	next.Flock.MaxSpeed = 10
	updates <- next
	w.Tick(0)

	assert.Equal(t, 10.0, w.Config().Flock.MaxSpeed)
	after := w.Sheep()
	require.Len(t, after, len(before))
	assert.Equal(t, before[0].Bias, after[0].Bias)
	assert.Equal(t, before[0].Position, after[0].Position)
}

func TestConfigWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "herd.json", `{"flock": {"sheepCount": 3}}`)

	w, err := WatchConfig(path, discardLogger())
	require.NoError(t, err)
	defer w.Close()

	// invalid content is skipped
	require.NoError(t, os.WriteFile(path, []byte(`{"flock": {"maxSpeed": -1}}`), 0o644))
	select {
	case cfg := <-w.Updates():
		t.Fatalf("unexpected update %+v", cfg.Flock)
	case <-time.After(500 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"flock": {"sheepCount": 9}}`), 0o644))
	select {
	case cfg := <-w.Updates():
		assert.Equal(t, 9, cfg.Flock.SheepCount)
	case <-time.After(5 * time.Second):
		t.Fatal("no config update received")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatchConfigMissingDirectory(t *testing.T) {
	_, err := WatchConfig("/does/not/exist/herd.json", discardLogger())
	require.Error(t, err)
}
