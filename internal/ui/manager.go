package ui

import (
	"fmt"

	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

var ErrUISceneNotFound = fmt.Errorf("ui scene %w", scene.ErrNotFound)

// SceneManager holds named UI scenes, updates the active one and draws it
// as an overlay on top of the 3D frame.
type SceneManager struct {
	*coresys.Pausable

	bus    *event.Bus
	log    *zap.Logger
	scenes []*Scene
	active *Scene
	sub    event.Subscription
}

// NewSceneManager returns a HUD-style manager: shown while the game plays.
func NewSceneManager(bus *event.Bus, log *zap.Logger) *SceneManager {
	return newSceneManager(bus, log, coresys.NewDrawablePausable(bus, coresys.StatusDrawn|coresys.StatusUpdated))
}

func newSceneManager(bus *event.Bus, log *zap.Logger, p *coresys.Pausable) *SceneManager {
	m := &SceneManager{Pausable: p, bus: bus, log: log}
	m.sub = bus.Subscribe(event.CategoryUIObject, m.handleObjectEvent)
	return m
}

func (m *SceneManager) Phase() coresys.Phase { return coresys.PhaseUpdate }

// handleObjectEvent adds ([0] scene name, [1] *Object) or removes
// ([0] *Object) objects.
func (m *SceneManager) handleObjectEvent(d event.Data) {
	switch d.Action {
	case event.OnAddObject:
		name, _ := d.StringParam(0)
		p, _ := d.Param(1)
		obj, ok := p.(*Object)
		if !ok {
			return
		}
		s := m.Find(name)
		if s == nil {
			m.log.Warn("ui object for unknown scene", zap.String("scene", name), zap.String("object", obj.Name()))
			return
		}
		s.Add(obj)
	case event.OnRemoveObject:
		p, _ := d.Param(0)
		if obj, ok := p.(*Object); ok {
			for _, s := range m.scenes {
				s.Remove(obj)
			}
		}
	}
}

// Add registers s. The first scene added becomes active.
func (m *SceneManager) Add(s *Scene) {
	if s == nil || m.Find(s.Name()) != nil {
		return
	}
	m.scenes = append(m.scenes, s)
	if m.active == nil {
		m.active = s
	}
}

func (m *SceneManager) Find(name string) *Scene {
	for _, s := range m.scenes {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (m *SceneManager) ActiveScene() *Scene { return m.active }

func (m *SceneManager) SetActiveScene(name string) error {
	s := m.Find(name)
	if s == nil {
		return fmt.Errorf("%w: %q", ErrUISceneNotFound, name)
	}
	m.active = s
	return nil
}

func (m *SceneManager) Update(ctx *frame.Context) {
	if m.active == nil || !m.IsUpdated() {
		return
	}
	m.active.Update(ctx)
}

// DrawOverlay paints the active scene if the device is a Canvas.
func (m *SceneManager) DrawOverlay(device graphics.Device) {
	canvas, ok := device.(Canvas)
	if !ok || m.active == nil || !m.IsDrawn() {
		return
	}
	m.active.Draw(canvas)
}

func (m *SceneManager) Close() {
	m.bus.Unsubscribe(m.sub)
	m.Pausable.Close()
	for _, s := range m.scenes {
		s.Unload()
	}
}

// ClickHandler reacts to a menu button press.
type ClickHandler interface {
	HandleClick(button *Object)
}

type ClickHandlerFunc func(button *Object)

func (f ClickHandlerFunc) HandleClick(button *Object) { f(button) }

// MenuManager is a SceneManager that is visible while the game is paused.
// A left click on an enabled button in the active scene goes to the
// click handler.
type MenuManager struct {
	*SceneManager
	handler ClickHandler
	clicks  int
}

func NewMenuManager(bus *event.Bus, handler ClickHandler, log *zap.Logger) *MenuManager {
	return &MenuManager{
		SceneManager: newSceneManager(bus, log, coresys.NewMenuPausable(bus, coresys.StatusOff)),
		handler:      handler,
	}
}

// Clicks returns how many button presses were handled.
func (m *MenuManager) Clicks() int { return m.clicks }

func (m *MenuManager) Update(ctx *frame.Context) {
	if m.active == nil || !m.IsUpdated() {
		return
	}
	m.active.Update(ctx)
	if ctx.Input == nil || !ctx.Input.WasJustClicked(input.MouseLeft) {
		return
	}
	b := m.active.ObjectAt(ctx.Input.Position(), KindButton)
	if b == nil {
		return
	}
	m.clicks++
	m.log.Debug("menu button clicked", zap.String("scene", m.active.Name()), zap.String("button", b.Name()))
	if m.handler != nil {
		m.handler.HandleClick(b)
	}
}
