package render

import (
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/scene"
)

// ForwardRenderer draws a scene's renderers one by one through their
// materials' shaders. Renderers arrive sorted opaque to transparent, so
// the draw order is also the blend order.
type ForwardRenderer struct {
	prepared map[graphics.Shader]bool
	draws    int
}

func NewForwardRenderer() *ForwardRenderer {
	return &ForwardRenderer{prepared: make(map[graphics.Shader]bool, 4)}
}

// Render draws every enabled renderer of s as seen by cam. Each shader's
// PrePass runs once per call, before the first object that uses it.
func (f *ForwardRenderer) Render(s *scene.Scene, cam scene.Camera, device graphics.Device) {
	clear(f.prepared)
	for _, r := range s.Renderers() {
		if !r.Base().IsEnabled() {
			continue
		}
		if m := r.Material(); m != nil && m.Shader() != nil {
			sh := m.Shader()
			if !f.prepared[sh] {
				sh.PrePass(cam)
				f.prepared[sh] = true
			}
			sh.Pass(r)
		}
		r.Draw(device)
		f.draws++
	}
}

// Draws returns the number of renderer draw calls issued so far.
func (f *ForwardRenderer) Draws() int { return f.draws }
