package system

import (
	"testing"
	"time"

	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r *recorder) Phase() Phase              { return r.phase }
func (r *recorder) Update(ctx *frame.Context) { *r.log = append(*r.log, r.name) }

func TestRunnerOrder(t *testing.T) {
	var got []string
	r := NewRunner()
	r.Register(&recorder{"render", PhaseRender, &got})
	r.Register(&recorder{"cleanup", PhaseCleanup, &got})
	r.Register(&recorder{"scene", PhaseUpdate, &got})
	r.Register(&recorder{"ui", PhaseUpdate, &got})
	r.Register(&recorder{"physics", PhasePhysics, &got})
	r.Register(&recorder{"events", PhaseEvents, &got})
	r.Register(&recorder{"input", PhaseInput, &got})
	require.Equal(t, 7, r.Len())

	ctx := frame.NewContext(frame.Screen{Width: 8, Height: 8}).Step(time.Millisecond)
	r.Tick(ctx)
	assert.Equal(t, []string{"input", "events", "physics", "scene", "ui", "render", "cleanup"}, got)

	t.Run("tick phase", func(t *testing.T) {
		got = got[:0]
		r.TickPhase(PhaseUpdate, ctx)
		assert.Equal(t, []string{"scene", "ui"}, got)
	})
}

func TestPausable(t *testing.T) {
	t.Run("pause then play", func(t *testing.T) {
		bus := event.NewBus(zap.NewNop())
		p := NewPausable(bus, StatusUpdated)
		require.True(t, p.IsUpdated())

		bus.Raise(event.New(event.CategoryMenu, event.OnPause))
		assert.False(t, p.IsUpdated())

		bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
		assert.True(t, p.IsUpdated())
		assert.False(t, p.IsDrawn())
	})

	t.Run("drawable resumes drawing", func(t *testing.T) {
		bus := event.NewBus(zap.NewNop())
		p := NewDrawablePausable(bus, StatusOff)
		bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
		assert.True(t, p.IsUpdated())
		assert.True(t, p.IsDrawn())
	})

	t.Run("menu is inverted", func(t *testing.T) {
		bus := event.NewBus(zap.NewNop())
		p := NewMenuPausable(bus, StatusDrawn|StatusUpdated)
		bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
		assert.Equal(t, StatusOff, p.Status())
		bus.Raise(event.New(event.CategoryMenu, event.OnPause))
		assert.True(t, p.IsDrawn())
	})

	t.Run("close stops listening", func(t *testing.T) {
		bus := event.NewBus(zap.NewNop())
		p := NewPausable(bus, StatusUpdated)
		p.Close()
		bus.Raise(event.New(event.CategoryMenu, event.OnPause))
		assert.True(t, p.IsUpdated())
	})

	t.Run("other categories are ignored", func(t *testing.T) {
		bus := event.NewBus(zap.NewNop())
		p := NewPausable(bus, StatusUpdated)
		bus.Raise(event.New(event.CategoryUI, event.OnPause))
		assert.True(t, p.IsUpdated())
	})
}
