package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/render"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var surface = physics.MaterialProperties{Elasticity: 0.2, StaticRoughness: 0.8, DynamicRoughness: 0.7}

func tick(d time.Duration) *frame.Context {
	return frame.NewContext(frame.Screen{Width: 80, Height: 24}).Step(d)
}

// loadedScene returns a manager whose active scene is already loaded.
func loadedScene(t *testing.T) (*scene.Manager, *scene.Scene, *event.Bus) {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	m := scene.NewManager(bus, zap.NewNop())
	s := scene.NewScene("level")
	require.True(t, m.AddScene(s, true))
	m.Update(tick(time.Millisecond))
	require.Same(t, s, m.ActiveScene())
	return m, s, bus
}

func boxObject(t *testing.T, name string, pos, size mgl32.Vec3, immovable bool) *scene.GameObject {
	t.Helper()
	g := scene.NewGameObject(name, scene.TypeProp)
	g.Transform().SetTranslation(pos)
	c := component.NewCollider(false, false)
	_, err := g.AddComponent(c)
	require.NoError(t, err)
	require.NoError(t, c.AddPrimitive(physics.NewBox(pos, mgl32.Ident4(), size), surface))
	require.NoError(t, c.Enable(immovable, 1))
	return g
}

func TestInputAndEvents(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	src := input.NewScriptedSource(input.Snapshot{Keys: []input.Key{input.KeyP}})
	r := coresys.NewRunner()
	r.Register(NewEventSystem(bus))
	r.Register(NewInputSystem(src))

	var got []event.Action
	bus.Subscribe(event.CategoryMenu, func(d event.Data) { got = append(got, d.Action) })
	bus.Post(event.New(event.CategoryMenu, event.OnPause))
	assert.Empty(t, got, "posted events wait for the event phase")

	ctx := tick(time.Millisecond)
	r.Tick(ctx)
	assert.True(t, ctx.Input.WasJustPressed(input.KeyP))
	assert.Equal(t, []event.Action{event.OnPause}, got)

	r.Tick(ctx)
	assert.False(t, ctx.Input.IsPressed(input.KeyP))
	assert.Len(t, got, 1)
}

func TestPhysicsManager(t *testing.T) {
	scenes, s, bus := loadedScene(t)
	pm := NewPhysicsManager(bus, scenes, physics.DefaultConfig(), 0, zap.NewNop())
	assert.Equal(t, coresys.PhasePhysics, pm.Phase())

	ground := boxObject(t, "ground", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 1, 10}, true)
	crate := boxObject(t, "crate", mgl32.Vec3{0, 5, 0}, mgl32.Vec3{1, 1, 1}, false)
	s.Add(ground)
	s.Add(crate)
	col, ok := scene.GetComponent[*component.Collider](crate)
	require.True(t, ok)
	body := col.Body()

	pm.Update(tick(time.Second))
	assert.Equal(t, 2, pm.World().NumBodies())
	assert.InDelta(t, -9.81/60, body.Velocity().Y(), 1e-4, "step capped at 1/60 s")
	assert.Equal(t, int64(1), pm.Steps())

	t.Run("paused manager does not step", func(t *testing.T) {
		bus.Raise(event.New(event.CategoryMenu, event.OnPause))
		v := body.Velocity()
		pm.Update(tick(10 * time.Millisecond))
		assert.Equal(t, v, body.Velocity())
		bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
		pm.Update(tick(10 * time.Millisecond))
		assert.NotEqual(t, v, body.Velocity())
	})

	t.Run("crate comes to rest on the ground", func(t *testing.T) {
		for i := 0; i < 300; i++ {
			pm.Update(tick(time.Second / 60))
		}
		assert.InDelta(t, 1, body.Position().Y(), 0.1, "resting on the ground's top face")
	})

	t.Run("removed objects leave the world", func(t *testing.T) {
		s.Remove(crate)
		pm.Update(tick(time.Millisecond))
		assert.Equal(t, 1, pm.World().NumBodies())
		assert.False(t, pm.World().HasBody(body))
	})

	t.Run("zero delta only syncs", func(t *testing.T) {
		steps := pm.Steps()
		pm.Update(frame.NewContext(frame.Screen{}))
		assert.Equal(t, steps, pm.Steps())
	})
}

type nopShader struct {
	prepasses int
	passes    int
}

func (s *nopShader) Name() string           { return "nop" }
func (s *nopShader) PrePass(graphics.View)  { s.prepasses++ }
func (s *nopShader) Pass(graphics.Drawable) { s.passes++ }

func TestRenderManager(t *testing.T) {
	scenes, s, bus := loadedScene(t)
	dev := &render.NullDevice{}
	fr := render.NewForwardRenderer()
	rm := NewRenderManager(bus, scenes, fr, dev, zap.NewNop())

	shader := &nopShader{}
	for _, name := range []string{"a", "b"} {
		g := scene.NewGameObject(name, scene.TypeProp)
		mat := graphics.NewMaterial(name, shader, mgl32.Vec3{1, 1, 1}, 1, nil)
		_, err := g.AddComponent(component.NewMeshRenderer(graphics.NewCubeMesh(), mat))
		require.NoError(t, err)
		s.Add(g)
	}

	overlay := &countingOverlay{}
	rm.AddOverlay(overlay)

	rm.Update(tick(time.Millisecond))
	assert.Zero(t, rm.Frames(), "no camera, no frame")
	assert.Zero(t, dev.Frames)
	assert.Zero(t, overlay.draws, "overlays draw only inside a frame")

	cam := scene.NewGameObject("camera", scene.TypeCamera)
	_, err := cam.AddComponent(component.NewCamera(graphics.Viewport{Width: 80, Height: 24}))
	require.NoError(t, err)
	s.Add(cam)

	rm.Update(tick(time.Millisecond))
	assert.Equal(t, int64(1), rm.Frames())
	assert.Equal(t, 1, dev.Frames)
	assert.Len(t, dev.Meshes, 2)
	assert.Equal(t, 24, dev.Triangles)
	assert.Equal(t, 1, shader.prepasses, "one pre-pass per shader per camera")
	assert.Equal(t, 2, shader.passes)
	assert.Equal(t, 1, overlay.draws)

	t.Run("paused draws nothing unless overridden", func(t *testing.T) {
		bus.Raise(event.New(event.CategoryMenu, event.OnPause))
		rm.Update(tick(time.Millisecond))
		assert.Equal(t, int64(1), rm.Frames())

		rm.SetDrawWhenPaused(true)
		rm.Update(tick(time.Millisecond))
		assert.Equal(t, int64(2), rm.Frames())
		rm.SetDrawWhenPaused(false)
		bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
	})

	t.Run("multi camera draws per camera", func(t *testing.T) {
		second := scene.NewGameObject("overhead", scene.TypeCamera)
		_, err := second.AddComponent(component.NewCamera(graphics.Viewport{Width: 80, Height: 24}))
		require.NoError(t, err)
		s.Add(second)

		rm.SetMultiCamera(true)
		before := fr.Draws()
		rm.Update(tick(time.Millisecond))
		assert.Equal(t, before+4, fr.Draws())
		assert.Len(t, dev.Meshes, 4)

		frames := rm.Frames()
		for _, c := range append([]scene.Camera(nil), s.Cameras()...) {
			c.Base().SetEnabled(false)
		}
		rm.Update(tick(time.Millisecond))
		assert.Equal(t, frames, rm.Frames(), "no enabled camera, no frame")
	})
}

type countingOverlay struct{ draws int }

func (o *countingOverlay) DrawOverlay(graphics.Device) { o.draws++ }

type memoryStore struct {
	saved map[string][]scene.TransformState
	fail  error
}

func (m *memoryStore) SaveSnapshot(_ context.Context, name string, states []scene.TransformState) error {
	if m.fail != nil {
		return m.fail
	}
	m.saved[name] = states
	return nil
}

func TestPersistenceSystem(t *testing.T) {
	scenes, s, _ := loadedScene(t)
	crate := scene.NewGameObject("crate", scene.TypeProp)
	crate.Transform().SetTranslation(mgl32.Vec3{1, 2, 3})
	s.Add(crate)

	store := &memoryStore{saved: map[string][]scene.TransformState{}}
	ps := NewPersistenceSystem(scenes, store, zap.NewNop(), 3)
	assert.Equal(t, coresys.PhaseCleanup, ps.Phase())

	ps.Update(tick(time.Millisecond))
	ps.Update(tick(time.Millisecond))
	assert.Empty(t, store.saved)
	ps.Update(tick(time.Millisecond))
	require.Len(t, store.saved["level"], 1)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, store.saved["level"][0].Translation)
	assert.Equal(t, 1, ps.Saves())

	t.Run("failures are logged and not counted", func(t *testing.T) {
		store.fail = errors.New("db down")
		ps.SaveActiveScene()
		assert.Equal(t, 1, ps.Saves())
	})
}

func TestCleanupSystem(t *testing.T) {
	scenes, s, _ := loadedScene(t)
	g := scene.NewGameObject("coin", scene.TypeConsumable)
	s.Add(g)
	scenes.Remove(g)
	require.Same(t, s, g.Scene())

	NewCleanupSystem(scenes, zap.NewNop()).Update(tick(time.Millisecond))
	assert.Nil(t, g.Scene())
}
