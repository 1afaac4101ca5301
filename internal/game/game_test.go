package game

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/data"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/prefab"
	"github.com/gd3/engine/internal/scene"
	"github.com/gd3/engine/internal/scripting"
	"github.com/gd3/engine/internal/system"
	"github.com/gd3/engine/internal/ui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkerFunc func(scripting.GameStateContext) scripting.GameState

func (f checkerFunc) CheckGameState(ctx scripting.GameStateContext) scripting.GameState { return f(ctx) }

// record collects every event raised in the given categories.
func record(bus *event.Bus, cats ...event.Category) *[]event.Data {
	var got []event.Data
	for _, c := range cats {
		bus.Subscribe(c, func(d event.Data) { got = append(got, d) })
	}
	return &got
}

func tick(keys ...input.Key) *frame.Context {
	ctx := frame.NewContext(frame.Screen{Width: 80, Height: 24}).Step(16 * time.Millisecond)
	ctx.Input.Apply(input.Snapshot{Keys: keys})
	return ctx
}

func TestStateManager(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var seen scripting.GameStateContext
	verdict := scripting.StatePlaying
	m := NewStateManager(bus, checkerFunc(func(ctx scripting.GameStateContext) scripting.GameState {
		seen = ctx
		return verdict
	}), 5, zap.NewNop())
	defer m.Close()
	outcomes := record(bus, event.CategoryGameState)

	bus.Raise(event.New(event.CategoryInventory, event.OnAddInventory, "sword"))
	bus.Raise(event.New(event.CategoryInventory, event.OnAddInventory, "shield"))
	bus.Raise(event.New(event.CategoryInventory, event.OnRemoveInventory, "sword"))
	bus.Raise(event.New(event.CategoryUI, event.OnHealthDelta, HealthTarget, -2))
	bus.Raise(event.New(event.CategoryUI, event.OnHealthDelta, "mana", -2))

	m.Update(tick())
	assert.Equal(t, []string{"shield"}, seen.Inventory)
	assert.Equal(t, 3, seen.Health)
	assert.Empty(t, *outcomes)

	verdict = scripting.StateWon
	m.Update(tick())
	require.Len(t, *outcomes, 1)
	assert.Equal(t, event.OnWin, (*outcomes)[0].Action)
	assert.Equal(t, scripting.StateWon, m.Outcome())
	assert.False(t, m.IsUpdated(), "game over pauses")

	bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
	m.Update(tick())
	assert.Len(t, *outcomes, 1, "the outcome is raised once")
}

func TestStateManagerLoses(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	m := NewStateManager(bus, checkerFunc(func(ctx scripting.GameStateContext) scripting.GameState {
		if ctx.Health <= 0 {
			return scripting.StateLost
		}
		return scripting.StatePlaying
	}), 1, zap.NewNop())
	defer m.Close()
	outcomes := record(bus, event.CategoryGameState)

	bus.Raise(event.New(event.CategoryUI, event.OnHealthDelta, HealthTarget, -1))
	m.Update(tick())
	require.Len(t, *outcomes, 1)
	assert.Equal(t, event.OnLose, (*outcomes)[0].Action)
}

func TestHeroResponder(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	got := record(bus, event.CategoryGameObject, event.CategoryUI, event.CategoryInventory)
	r := NewHeroResponder(bus, zap.NewNop())

	coin := scene.NewGameObject("coin", scene.TypeConsumable)
	r.HandleResponse(nil, coin)
	r.HandleResponse(nil, coin)
	r.HandleResponse(nil, scene.NewGameObject("wall", scene.TypeArchitecture))
	r.HandleResponse(nil, nil)

	assert.Equal(t, 1, r.Pickups())
	require.Len(t, *got, 3)
	assert.Equal(t, event.OnRemoveObject, (*got)[0].Action)
	obj, _ := (*got)[0].Param(0)
	assert.Same(t, coin, obj)

	target, _ := (*got)[1].StringParam(0)
	delta, _ := (*got)[1].IntParam(1)
	assert.Equal(t, HealthTarget, target)
	assert.Equal(t, 1, delta)

	item, _ := (*got)[2].StringParam(0)
	assert.Equal(t, PickupItem, item)
}

func TestHotkeys(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	got := record(bus, event.CategoryMenu, event.CategoryCamera)
	quits := 0
	h := NewHotkeys(bus, func() { quits++ }, zap.NewNop())

	h.Update(tick(input.KeyP))
	h.Update(tick(input.KeyO))
	h.Update(tick(input.KeyC))
	h.Update(tick(input.KeyEscape))
	h.Update(tick(input.KeyW))

	require.Len(t, *got, 3)
	assert.Equal(t, event.OnPause, (*got)[0].Action)
	assert.Equal(t, event.OnPlay, (*got)[1].Action)
	assert.Equal(t, event.OnCameraCycle, (*got)[2].Action)
	assert.Equal(t, 1, quits)

	t.Run("held keys fire once", func(t *testing.T) {
		ctx := tick(input.KeyP)
		h.Update(ctx)
		ctx.Input.Apply(input.Snapshot{Keys: []input.Key{input.KeyP}})
		h.Update(ctx)
		assert.Len(t, *got, 4)
	})
}

func cameraObject(t *testing.T, name string) *scene.GameObject {
	t.Helper()
	g := scene.NewGameObject(name, scene.TypeCamera)
	_, err := g.AddComponent(component.NewCamera(graphics.Viewport{Width: 80, Height: 24}))
	require.NoError(t, err)
	return g
}

func TestCameraDirector(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	m := scene.NewManager(bus, zap.NewNop())
	s := scene.NewScene("level")
	require.True(t, m.AddScene(s, true))
	m.Update(tick())
	a, b := cameraObject(t, "a"), cameraObject(t, "b")
	s.Add(a)
	s.Add(b)
	require.NoError(t, s.SetMainCameraByName("a"))

	d := NewCameraDirector(bus, m, zap.NewNop())
	defer d.Close()

	mainOwner := func() *scene.GameObject { return s.MainCamera().Base().Owner() }

	bus.Raise(event.New(event.CategoryCamera, event.OnCameraCycle))
	assert.Same(t, b, mainOwner())
	bus.Raise(event.New(event.CategoryCamera, event.OnCameraCycle))
	assert.Same(t, a, mainOwner())

	bus.Raise(event.New(event.CategoryCamera, event.OnCameraSetActive, "b"))
	assert.Same(t, b, mainOwner())
	bus.Raise(event.New(event.CategoryCamera, event.OnCameraSetActive, "missing"))
	assert.Same(t, b, mainOwner(), "unknown cameras are ignored")
}

func shippedBuilder(t *testing.T, bus *event.Bus) (*prefab.Builder, *data.Level) {
	t.Helper()
	dir := filepath.Join("..", "..", "data", "yaml")
	tbl, err := data.LoadArchetypeTable(filepath.Join(dir, "archetypes.yaml"))
	require.NoError(t, err)
	level, err := data.LoadLevel(filepath.Join(dir, "level.yaml"))
	require.NoError(t, err)
	shaders := map[string]graphics.Shader{"basic": graphics.NewBasicShader("basic", nil)}
	b := prefab.NewBuilder(tbl, bus, nil, shaders, zap.NewNop())
	t.Cleanup(b.Close)
	return b, level
}

func TestBuildWorld(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	b, level := shippedBuilder(t, bus)
	responder := NewHeroResponder(bus, zap.NewNop())

	w, err := BuildWorld(level, b, responder, graphics.Viewport{Width: 80, Height: 24}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, w.Hero)
	assert.Equal(t, level.Total()+len(level.Cameras), w.Scene.List().Len())
	assert.Len(t, w.Scene.Cameras(), 2)
	assert.Same(t, w.Hero, w.Scene.MainCamera().Base().Owner())

	col, ok := scene.GetComponent[*component.CharacterCollider](w.Hero)
	require.True(t, ok)
	assert.Same(t, responder, col.Responder())
	assert.Equal(t, mgl32.Vec3{0, 3, 10}, w.Hero.Transform().LocalTranslation())

	flyby := w.Scene.FindByName("flyby camera")
	require.NotNil(t, flyby)
	curve, ok := scene.GetComponent[*component.Curve](flyby)
	require.True(t, ok)
	assert.Equal(t, 4, curve.Curve3D().Len())

	t.Run("levels need a camera", func(t *testing.T) {
		_, err := BuildWorld(&data.Level{Name: "empty"}, b, nil, graphics.Viewport{}, zap.NewNop())
		assert.ErrorIs(t, err, ErrNoCameras)
	})
}

func TestMenu(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	got := record(bus, event.CategoryMenu)
	quits := 0
	h := MenuHandler(bus, func() { quits++ })

	h.HandleClick(ui.NewObject(ButtonResume, ui.KindButton, mgl32.Vec2{}, "Resume"))
	require.Len(t, *got, 1)
	assert.Equal(t, event.OnPlay, (*got)[0].Action)
	h.HandleClick(ui.NewObject(ButtonQuit, ui.KindButton, mgl32.Vec2{}, "Quit"))
	assert.Equal(t, 1, quits)

	menu := BuildMenu(bus, nil, zap.NewNop())
	defer menu.Close()
	require.NotNil(t, menu.ActiveScene())
	assert.NotNil(t, menu.ActiveScene().Find(ButtonResume))
	assert.False(t, menu.IsDrawn(), "hidden until paused")

	hud, err := BuildHUD(bus, "gd3", 5, zap.NewNop())
	require.NoError(t, err)
	defer hud.Close()
	bar := hud.ActiveScene().Find("health")
	require.NotNil(t, bar)
	assert.Equal(t, "5/10", bar.Text)
	bus.Raise(event.New(event.CategoryUI, event.OnHealthDelta, HealthTarget, 1))
	assert.Equal(t, "6/10", bar.Text)
}

// presence records, in its phase, whether obj is still in the active scene.
type presence struct {
	phase  coresys.Phase
	scenes *scene.Manager
	obj    *scene.GameObject
	seen   []bool
}

func (p *presence) Phase() coresys.Phase { return p.phase }

func (p *presence) Update(*frame.Context) {
	if p.obj == nil {
		return
	}
	p.seen = append(p.seen, p.scenes.Find(func(o *scene.GameObject) bool { return o == p.obj }) != nil)
}

func TestConsumablePickupTick(t *testing.T) {
	log := zap.NewNop()
	bus := event.NewBus(log)
	scenes := scene.NewManager(bus, log)
	defer scenes.Close()
	s := scene.NewScene("level")
	require.True(t, scenes.AddScene(s, true))

	physicsMgr := system.NewPhysicsManager(bus, scenes, physics.DefaultConfig(), 0, log)
	responder := NewHeroResponder(bus, log)
	inRender := &presence{phase: coresys.PhaseRender, scenes: scenes}

	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(bus))
	runner.Register(physicsMgr)
	runner.Register(scenes)
	runner.Register(inRender)
	runner.Register(system.NewCleanupSystem(scenes, log))

	ctx := frame.NewContext(frame.Screen{Width: 80, Height: 24})
	runner.Tick(ctx.Step(16 * time.Millisecond))
	require.Same(t, s, scenes.ActiveScene())

	proto := scene.NewGameObject("coin", scene.TypeConsumable)
	proto.SetPersistent(false)
	mat := graphics.NewMaterial("coin", nil, mgl32.Vec3{1, 1, 0}, 1, nil)
	_, err := proto.AddComponent(component.NewMeshRenderer(graphics.NewCubeMesh(), mat))
	require.NoError(t, err)
	col := component.NewCollider(false, true)
	_, err = proto.AddComponent(col)
	require.NoError(t, err)
	require.NoError(t, col.AddPrimitive(physics.NewBox(mgl32.Vec3{}, mgl32.Ident4(), mgl32.Vec3{1, 1, 1}), physics.MaterialProperties{}))
	require.NoError(t, col.Enable(true, 1))

	var coins []*scene.GameObject
	for i := 0; i < 5; i++ {
		c, err := proto.Clone()
		require.NoError(t, err)
		c.Transform().SetTranslation(mgl32.Vec3{5, float32(4 + 4*i), 0})
		bus.Raise(event.New(event.CategoryGameObject, event.OnAddObject, c))
		coins = append(coins, c)
	}
	assert.Len(t, s.Renderers(), 5)
	assert.Len(t, s.Colliders(), 5)

	hero := scene.NewGameObject("hero", scene.TypePlayer)
	hero.Transform().SetTranslation(mgl32.Vec3{5, 4, 0})
	cc := component.NewCharacterCollider(2, 2, true, false)
	_, err = hero.AddComponent(cc)
	require.NoError(t, err)
	cc.SetResponder(responder)
	require.NoError(t, cc.AddPrimitive(physics.NewBox(mgl32.Vec3{5, 4, 0}, mgl32.Ident4(), mgl32.Vec3{1, 1, 1}), physics.MaterialProperties{}))
	require.NoError(t, cc.Enable(false, 1))
	s.Add(hero)

	got := record(bus, event.CategoryGameObject, event.CategoryUI, event.CategoryInventory)
	inRender.obj = coins[0]
	runner.Tick(ctx.Step(16 * time.Millisecond))

	assert.Equal(t, 6, physicsMgr.World().NumBodies())
	for i, c := range coins {
		want := mgl32.Vec3{5, float32(4 + 4*i), 0}
		body, ok := scene.GetComponent[*component.Collider](c)
		require.True(t, ok)
		assert.Equal(t, want, body.Body().Position(), "coin %d", i)
		centre := body.Skin().WorldBounds().Centre()
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, want[axis], centre[axis], 1e-4, "coin %d axis %d", i, axis)
		}
	}

	assert.Equal(t, 1, responder.Pickups())
	require.Len(t, *got, 3)
	assert.Equal(t, event.OnRemoveObject, (*got)[0].Action)
	assert.Equal(t, event.OnHealthDelta, (*got)[1].Action)
	assert.Equal(t, event.OnAddInventory, (*got)[2].Action)

	assert.Equal(t, []bool{true}, inRender.seen, "picked up coin is still drawn in the tick it was hit")
	assert.Nil(t, coins[0].Scene(), "removed by the cleanup phase")
	assert.Len(t, s.Colliders(), 5, "four coins and the hero")
	assert.Len(t, s.Renderers(), 4)
	assert.Zero(t, scenes.Pending())

	runner.Tick(ctx.Step(16 * time.Millisecond))
	assert.Equal(t, 5, physicsMgr.World().NumBodies())
	assert.Equal(t, 1, responder.Pickups())
}
