package system

import (
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/render"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// SceneRenderer draws one scene through one camera.
type SceneRenderer interface {
	Render(s *scene.Scene, cam scene.Camera, device graphics.Device)
}

// Overlay draws on top of the 3D frame, before it is presented.
type Overlay interface {
	DrawOverlay(device graphics.Device)
}

// RenderManager draws the active scene each tick, through its main camera
// or, in multi-camera mode, through every camera in draw-depth order.
// While paused it draws nothing unless DrawWhenPaused is set.
type RenderManager struct {
	*coresys.Pausable

	scenes   *scene.Manager
	renderer SceneRenderer
	device   graphics.Device
	overlays []Overlay
	log      *zap.Logger

	multiCamera    bool
	drawWhenPaused bool
	frames         int64
}

func NewRenderManager(bus *event.Bus, scenes *scene.Manager, renderer SceneRenderer, device graphics.Device, log *zap.Logger) *RenderManager {
	return &RenderManager{
		Pausable: coresys.NewDrawablePausable(bus, coresys.StatusDrawn|coresys.StatusUpdated),
		scenes:   scenes,
		renderer: renderer,
		device:   device,
		log:      log,
	}
}

func (m *RenderManager) Phase() coresys.Phase { return coresys.PhaseRender }

// AddOverlay appends o. Overlays draw in the order added.
func (m *RenderManager) AddOverlay(o Overlay) { m.overlays = append(m.overlays, o) }

func (m *RenderManager) SetMultiCamera(v bool)    { m.multiCamera = v }
func (m *RenderManager) SetDrawWhenPaused(v bool) { m.drawWhenPaused = v }
func (m *RenderManager) Frames() int64            { return m.frames }

// Update renders one frame. A frame is bracketed, overlaid and counted
// only when at least one camera can see the scene.
func (m *RenderManager) Update(*frame.Context) {
	if !m.IsDrawn() && !m.drawWhenPaused {
		return
	}
	s := m.scenes.ActiveScene()
	if s == nil {
		return
	}
	cams := m.viewers(s)
	if len(cams) == 0 {
		return
	}

	fd, bracketed := m.device.(render.FrameDevice)
	if bracketed {
		fd.BeginFrame()
	}
	for _, cam := range cams {
		m.renderer.Render(s, cam, m.device)
	}
	for _, o := range m.overlays {
		o.DrawOverlay(m.device)
	}
	if bracketed {
		fd.EndFrame()
	}
	m.frames++
}

// viewers returns the main camera, or every enabled camera in multi-camera
// mode.
func (m *RenderManager) viewers(s *scene.Scene) []scene.Camera {
	if !m.multiCamera {
		if cam := s.MainCamera(); cam != nil {
			return []scene.Camera{cam}
		}
		return nil
	}
	var out []scene.Camera
	for _, cam := range s.Cameras() {
		if cam.Base().IsEnabled() {
			out = append(out, cam)
		}
	}
	return out
}
