package render

import (
	"strings"

	"github.com/gd3/engine/internal/graphics"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameDevice is a device that needs bracketing calls around each frame.
type FrameDevice interface {
	graphics.Device
	BeginFrame()
	EndFrame()
}

// NullDevice records draw calls without output. Used headless and in tests.
type NullDevice struct {
	Frames    int
	Triangles int
	Meshes    []*graphics.Mesh
	States    []graphics.ShaderState
	Text      []string
	Width     int
	Height    int
}

func (d *NullDevice) Apply(s graphics.ShaderState) { d.States = append(d.States, s) }

func (d *NullDevice) DrawMesh(m *graphics.Mesh) {
	d.Meshes = append(d.Meshes, m)
	d.Triangles += m.PrimitiveCount()
}

func (d *NullDevice) BeginFrame() {
	d.Frames++
	d.Meshes = d.Meshes[:0]
	d.States = d.States[:0]
	d.Text = d.Text[:0]
}

func (d *NullDevice) EndFrame() {}

func (d *NullDevice) Size() (int, int) { return d.Width, d.Height }

func (d *NullDevice) DrawText(_, _ int, text string, _ mgl32.Vec3) {
	d.Text = append(d.Text, text)
}

func (d *NullDevice) FillRect(_, _, w, h int, glyph rune, _ mgl32.Vec3) {
	if w > 0 && h > 0 {
		d.Text = append(d.Text, strings.Repeat(string(glyph), w))
	}
}

// TerminalDevice rasterizes mesh vertices as character cells.
type TerminalDevice struct {
	screen tcell.Screen
	state  graphics.ShaderState
}

func NewTerminalDevice(screen tcell.Screen) *TerminalDevice {
	return &TerminalDevice{screen: screen}
}

func (d *TerminalDevice) Apply(s graphics.ShaderState) { d.state = s }

func (d *TerminalDevice) BeginFrame() { d.screen.Clear() }
func (d *TerminalDevice) EndFrame()   { d.screen.Show() }

func (d *TerminalDevice) Size() (int, int) { return d.screen.Size() }

// DrawText writes text left to right from (x, y), clipped to the screen.
func (d *TerminalDevice) DrawText(x, y int, text string, c mgl32.Vec3) {
	style := tcell.StyleDefault.Foreground(colour(c))
	w, h := d.screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			d.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (d *TerminalDevice) FillRect(x, y, rw, rh int, glyph rune, c mgl32.Vec3) {
	style := tcell.StyleDefault.Foreground(colour(c))
	w, h := d.screen.Size()
	for j := max(y, 0); j < min(y+rh, h); j++ {
		for i := max(x, 0); i < min(x+rw, w); i++ {
			d.screen.SetContent(i, j, glyph, nil, style)
		}
	}
}

// DrawMesh plots every vertex that lands inside the clip volume.
func (d *TerminalDevice) DrawMesh(m *graphics.Mesh) {
	w, h := d.screen.Size()
	if w == 0 || h == 0 {
		return
	}
	mvp := d.state.Projection.Mul4(d.state.View).Mul4(d.state.World)
	style := tcell.StyleDefault.Foreground(colour(d.state.Diffuse))
	glyph := '#'
	if d.state.Alpha < 1 {
		glyph = '+'
	}
	for _, v := range m.Vertices {
		x, y, ok := project(mvp, v, w, h)
		if !ok {
			continue
		}
		d.screen.SetContent(x, y, glyph, nil, style)
	}
}

// project maps v to a cell. ok is false outside the clip volume.
func project(mvp mgl32.Mat4, v mgl32.Vec3, w, h int) (x, y int, ok bool) {
	clip := mvp.Mul4x1(v.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, false
	}
	x = int((ndc.X() + 1) / 2 * float32(w-1))
	y = int((1 - ndc.Y()) / 2 * float32(h-1))
	return x, y, true
}

func colour(c mgl32.Vec3) tcell.Color {
	to := func(f float32) int32 { return int32(mgl32.Clamp(f, 0, 1) * 255) }
	return tcell.NewRGBColor(to(c.X()), to(c.Y()), to(c.Z()))
}
