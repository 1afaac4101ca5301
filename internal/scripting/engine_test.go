package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func shippedEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestBehaviours(t *testing.T) {
	e := shippedEngine(t)
	require.True(t, e.HasBehaviour("spin"))
	require.True(t, e.HasBehaviour("bob"))
	assert.False(t, e.HasBehaviour("teleport"))

	t.Run("spin turns about y", func(t *testing.T) {
		out := e.RunBehaviour("spin", BehaviourInput{
			DeltaMs:  500,
			Rotation: mgl32.Vec3{10, 350, 0},
			Params:   map[string]float64{"speed": 90},
		})
		require.True(t, out.HasRotation)
		assert.False(t, out.HasTranslation)
		assert.InDelta(t, 10, out.Rotation.X(), 1e-4)
		assert.InDelta(t, 35, out.Rotation.Y(), 1e-4, "wraps at 360")
	})

	t.Run("bob keeps x and z", func(t *testing.T) {
		out := e.RunBehaviour("bob", BehaviourInput{
			Translation: mgl32.Vec3{3, 0, -2},
			Params:      map[string]float64{"amplitude": 1, "base": 8},
		})
		require.True(t, out.HasTranslation)
		assert.Equal(t, mgl32.Vec3{3, 8, -2}, out.Translation)
	})

	t.Run("missing behaviour leaves the object alone", func(t *testing.T) {
		assert.Equal(t, BehaviourOutput{}, e.RunBehaviour("teleport", BehaviourInput{}))
	})

	t.Run("script errors are contained", func(t *testing.T) {
		require.NoError(t, e.DoString(`behaviours.broken = function(ctx) error("boom") end`))
		assert.Equal(t, BehaviourOutput{}, e.RunBehaviour("broken", BehaviourInput{}))
		require.NoError(t, e.DoString(`behaviours.silent = function(ctx) end`))
		assert.Equal(t, BehaviourOutput{}, e.RunBehaviour("silent", BehaviourInput{}))
	})
}

func TestCheckGameState(t *testing.T) {
	e := shippedEngine(t)
	cases := []struct {
		name string
		ctx  GameStateContext
		want GameState
	}{
		{"fresh", GameStateContext{Health: 5}, StatePlaying},
		{"four items", GameStateContext{Health: 5, Inventory: []string{"sword", "sword", "sword", "sword"}}, StatePlaying},
		{"five items", GameStateContext{Health: 5, Inventory: []string{"sword", "sword", "sword", "sword", "sword"}}, StateWon},
		{"dead", GameStateContext{Health: 0, Inventory: []string{"sword", "sword", "sword", "sword", "sword"}}, StateLost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.CheckGameState(tc.ctx))
		})
	}

	t.Run("unknown verdicts keep playing", func(t *testing.T) {
		require.NoError(t, e.DoString(`function check_game_state(ctx) return "draw" end`))
		assert.Equal(t, StatePlaying, e.CheckGameState(GameStateContext{}))
	})
}

func TestNewEngine(t *testing.T) {
	t.Run("missing directories are skipped", func(t *testing.T) {
		e, err := NewEngine(t.TempDir(), zap.NewNop())
		require.NoError(t, err)
		defer e.Close()
		assert.Equal(t, StatePlaying, e.CheckGameState(GameStateContext{}))
	})

	t.Run("syntax errors fail the load", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "behaviour"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "behaviour", "bad.lua"), []byte("behaviours.bad = function("), 0o644))
		_, err := NewEngine(dir, zap.NewNop())
		assert.ErrorContains(t, err, "load behaviour scripts")
	})

	t.Run("DoString reports errors", func(t *testing.T) {
		e := shippedEngine(t)
		assert.ErrorContains(t, e.DoString("this is not lua"), "lua:")
	})
}
