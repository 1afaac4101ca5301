package game

import (
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// Hotkeys maps global keys to engine events. It is never paused so the
// game can always be resumed or quit.
//
//	P  pause    O  play    C  next camera    Q / Esc  quit
type Hotkeys struct {
	bus  *event.Bus
	quit func()
	log  *zap.Logger
}

func NewHotkeys(bus *event.Bus, quit func(), log *zap.Logger) *Hotkeys {
	return &Hotkeys{bus: bus, quit: quit, log: log}
}

func (h *Hotkeys) Phase() coresys.Phase { return coresys.PhaseEvents }

func (h *Hotkeys) Update(ctx *frame.Context) {
	in := ctx.Input
	if in == nil {
		return
	}
	switch {
	case in.WasJustPressed(input.KeyQ), in.WasJustPressed(input.KeyEscape):
		h.log.Info("quit requested")
		if h.quit != nil {
			h.quit()
		}
	case in.WasJustPressed(input.KeyP):
		h.bus.Raise(event.New(event.CategoryMenu, event.OnPause))
	case in.WasJustPressed(input.KeyO):
		h.bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
	case in.WasJustPressed(input.KeyC):
		h.bus.Raise(event.New(event.CategoryCamera, event.OnCameraCycle))
	}
}

// CameraDirector switches the active scene's main camera on Camera
// events: OnCameraCycle moves to the next camera, OnCameraSetActive [0]
// selects a camera object by name.
type CameraDirector struct {
	bus    *event.Bus
	scenes *scene.Manager
	log    *zap.Logger
	sub    event.Subscription
}

func NewCameraDirector(bus *event.Bus, scenes *scene.Manager, log *zap.Logger) *CameraDirector {
	d := &CameraDirector{bus: bus, scenes: scenes, log: log}
	d.sub = bus.Subscribe(event.CategoryCamera, d.handle)
	return d
}

func (d *CameraDirector) handle(e event.Data) {
	s := d.scenes.ActiveScene()
	if s == nil {
		return
	}
	switch e.Action {
	case event.OnCameraCycle:
		if cam := s.CycleCameras(); cam != nil {
			d.log.Debug("camera cycled", zap.String("camera", cameraName(cam)))
		}
	case event.OnCameraSetActive:
		name, ok := e.StringParam(0)
		if !ok {
			return
		}
		if err := s.SetMainCameraByName(name); err != nil {
			d.log.Warn("set camera", zap.String("camera", name), zap.Error(err))
		}
	}
}

func (d *CameraDirector) Close() {
	d.bus.Unsubscribe(d.sub)
}

func cameraName(cam scene.Camera) string {
	if o := cam.Base().Owner(); o != nil {
		return o.Name()
	}
	return ""
}
