package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("overrides keep unset defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
[engine]
title = "demo"
tick_rate = "20ms"
input = "none"
max_frames = 120

[physics]
gravity = [0.0, -20.0, 0.0]

[database]
enabled = true
`))
		require.NoError(t, err)
		assert.Equal(t, "demo", cfg.Engine.Title)
		assert.Equal(t, 20*time.Millisecond, cfg.Engine.TickRate)
		assert.Equal(t, "none", cfg.Engine.Input)
		assert.Equal(t, int64(120), cfg.Engine.MaxFrames)
		assert.NotZero(t, cfg.Engine.StartTime)
		assert.Equal(t, [3]float32{0, -20, 0}, cfg.Physics.Gravity)
		assert.Equal(t, 4, cfg.Physics.NumCollisionIterations)
		assert.True(t, cfg.Physics.UseSweepTests)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, 600, cfg.Database.SaveEveryTicks)
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.Equal(t, "scripts", cfg.Scripting.Dir)
	})

	t.Run("shipped config parses", func(t *testing.T) {
		cfg, err := Load(filepath.Join("..", "..", "config", "engine.toml"))
		require.NoError(t, err)
		assert.Equal(t, "gd3", cfg.Engine.Title)
		assert.Equal(t, 16*time.Millisecond, cfg.Physics.MaxStep)
		assert.False(t, cfg.Database.Enabled)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("bad toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[engine\ntitle ="))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("unknown input device", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[engine]\ninput = \"gamepad\"\n"))
		assert.ErrorContains(t, err, "engine.input")
	})

	t.Run("unknown profile mode", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[debug]\nprofile = \"block\"\n"))
		assert.ErrorContains(t, err, "debug.profile")
	})
}
