package render

import (
	"testing"

	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingShader struct {
	name      string
	prepasses int
	passes    int
}

func (s *countingShader) Name() string           { return s.name }
func (s *countingShader) PrePass(graphics.View)  { s.prepasses++ }
func (s *countingShader) Pass(graphics.Drawable) { s.passes++ }

func addMesh(t *testing.T, s *scene.Scene, name string, sh graphics.Shader, alpha float32) *component.MeshRenderer {
	t.Helper()
	g := scene.NewGameObject(name, scene.TypeProp)
	r := component.NewMeshRenderer(graphics.NewQuadMesh(), graphics.NewMaterial(name, sh, mgl32.Vec3{1, 1, 1}, alpha, nil))
	_, err := g.AddComponent(r)
	require.NoError(t, err)
	s.Add(g)
	return r
}

func TestForwardRenderer(t *testing.T) {
	s := scene.NewScene("level")
	opaque := &countingShader{name: "opaque"}
	glass := &countingShader{name: "glass"}
	addMesh(t, s, "wall", opaque, 1)
	addMesh(t, s, "floor", opaque, 1)
	addMesh(t, s, "window", glass, 0.5)
	hidden := addMesh(t, s, "ghost", opaque, 1)
	hidden.SetEnabled(false)

	cam := scene.NewGameObject("camera", scene.TypeCamera)
	c := component.NewCamera(graphics.Viewport{Width: 80, Height: 24})
	_, err := cam.AddComponent(c)
	require.NoError(t, err)
	s.Add(cam)

	dev := &NullDevice{}
	fr := NewForwardRenderer()
	fr.Render(s, c, dev)

	assert.Equal(t, 3, fr.Draws())
	assert.Len(t, dev.Meshes, 3)
	assert.Equal(t, 6, dev.Triangles)
	assert.Equal(t, 1, opaque.prepasses)
	assert.Equal(t, 2, opaque.passes)
	assert.Equal(t, 1, glass.prepasses)
	assert.Equal(t, 1, glass.passes)

	t.Run("pre-pass repeats per render call", func(t *testing.T) {
		fr.Render(s, c, dev)
		assert.Equal(t, 2, opaque.prepasses)
		assert.Equal(t, 6, fr.Draws())
	})

	t.Run("basic shader binds the camera and material", func(t *testing.T) {
		dev := &NullDevice{}
		s := scene.NewScene("basic")
		r := addMesh(t, s, "tile", graphics.NewBasicShader("basic", dev), 0.25)
		r.Material().SetDiffuseColor(mgl32.Vec3{0, 1, 0})
		viewer := scene.NewGameObject("viewer", scene.TypeCamera)
		_, err := viewer.AddComponent(component.NewCamera(graphics.Viewport{Width: 80, Height: 24}))
		require.NoError(t, err)
		s.Add(viewer)

		NewForwardRenderer().Render(s, s.MainCamera(), dev)
		require.Len(t, dev.States, 1)
		st := dev.States[0]
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, st.Diffuse)
		assert.InDelta(t, 0.25, st.Alpha, 1e-6)
		assert.Equal(t, s.MainCamera().Projection(), st.Projection)
	})
}

func TestNullDeviceFrames(t *testing.T) {
	dev := &NullDevice{}
	dev.DrawMesh(graphics.NewCubeMesh())
	dev.BeginFrame()
	assert.Empty(t, dev.Meshes)
	assert.Equal(t, 1, dev.Frames)
	dev.DrawMesh(graphics.NewCubeMesh())
	dev.EndFrame()
	assert.Len(t, dev.Meshes, 1)
	assert.Equal(t, 24, dev.Triangles)
}

func TestProject(t *testing.T) {
	id := mgl32.Ident4()
	x, y, ok := project(id, mgl32.Vec3{}, 80, 24)
	require.True(t, ok)
	assert.Equal(t, 39, x)
	assert.Equal(t, 11, y)

	x, y, ok = project(id, mgl32.Vec3{-1, 1, 0}, 80, 24)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	_, _, ok = project(id, mgl32.Vec3{2, 0, 0}, 80, 24)
	assert.False(t, ok)
}

func TestTerminalDevice(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	dev := NewTerminalDevice(screen)
	point := &graphics.Mesh{Vertices: []mgl32.Vec3{{0, 0, 0}}}
	state := graphics.ShaderState{
		World:      mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		Diffuse:    mgl32.Vec3{1, 0, 0},
		Alpha:      1,
	}

	dev.BeginFrame()
	dev.Apply(state)
	dev.DrawMesh(point)
	dev.EndFrame()
	r, _, style, _ := screen.GetContent(39, 11)
	assert.Equal(t, '#', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)

	state.Alpha = 0.5
	dev.BeginFrame()
	dev.Apply(state)
	dev.DrawMesh(point)
	dev.EndFrame()
	r, _, _, _ = screen.GetContent(39, 11)
	assert.Equal(t, '+', r)

	t.Run("points behind the camera are culled", func(t *testing.T) {
		state.Alpha = 1
		state.Projection = mgl32.Perspective(mgl32.DegToRad(45), 80.0/24, 1, 100)
		dev.BeginFrame()
		dev.Apply(state)
		dev.DrawMesh(&graphics.Mesh{Vertices: []mgl32.Vec3{{0, 0, 5}}})
		dev.EndFrame()
		r, _, _, _ := screen.GetContent(39, 11)
		assert.NotEqual(t, '#', r)
	})
}

func TestTerminalCanvas(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 3)
	dev := NewTerminalDevice(screen)

	w, h := dev.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 3, h)

	dev.DrawText(7, 1, "hello", mgl32.Vec3{1, 1, 1})
	r, _, _, _ := screen.GetContent(7, 1)
	assert.Equal(t, 'h', r)
	r, _, _, _ = screen.GetContent(9, 1)
	assert.Equal(t, 'l', r, "clipped at the right edge")

	dev.FillRect(-2, 2, 4, 5, '=', mgl32.Vec3{1, 1, 1})
	r, _, _, _ = screen.GetContent(1, 2)
	assert.Equal(t, '=', r)
	r, _, _, _ = screen.GetContent(2, 2)
	assert.NotEqual(t, '=', r)
}
