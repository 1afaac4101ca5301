package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialAlpha(t *testing.T) {
	m := NewMaterial("  crate ", nil, mgl32.Vec3{1, 1, 1}, 0.5, nil)
	assert.Equal(t, "crate", m.Name())
	assert.Equal(t, float32(0.5), m.Alpha())

	t.Run("out of range stores one", func(t *testing.T) {
		m.SetAlpha(1.5)
		assert.Equal(t, float32(1), m.Alpha())
		m.SetAlpha(-0.1)
		assert.Equal(t, float32(1), m.Alpha())
		assert.Equal(t, float32(1), NewMaterial("x", nil, mgl32.Vec3{}, 7, nil).Alpha())
	})

	t.Run("changes bump the version", func(t *testing.T) {
		before := AlphaVersion()
		m.SetAlpha(0.25)
		assert.Greater(t, AlphaVersion(), before)

		same := AlphaVersion()
		m.SetAlpha(0.25)
		assert.Equal(t, same, AlphaVersion(), "unchanged alpha is not a change")
	})
}

func TestMaterialClone(t *testing.T) {
	tex := &Texture{Name: "checker", Width: 64, Height: 64}
	shader := NewBasicShader("basic", nil)
	m := NewMaterial("crate", shader, mgl32.Vec3{1, 0, 0}, 0.8, tex)

	c := m.Clone()
	assert.Equal(t, "Clone - crate", c.Name())
	assert.Same(t, tex, c.Texture())
	assert.Same(t, shader, c.Shader())

	c.SetDiffuseColor(mgl32.Vec3{0, 1, 0})
	c.SetAlpha(0.1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.DiffuseColor())
	assert.Equal(t, float32(0.8), m.Alpha())
}

func TestMeshes(t *testing.T) {
	cube := NewCubeMesh()
	require.Len(t, cube.Vertices, 24)
	assert.Equal(t, 12, cube.PrimitiveCount())
	lo, hi := cube.Bounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, lo)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, hi)

	quad := NewQuadMesh()
	assert.Equal(t, 2, quad.PrimitiveCount())

	sphere := NewSphereMesh(8, 4)
	assert.InDelta(t, 0.5, sphere.Radius(), 1e-5)
	assert.Equal(t, 8*4*2, sphere.PrimitiveCount())

	model := &Model{Name: "pair", Meshes: []*Mesh{quad, cube}}
	lo, hi = model.Bounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, lo)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, hi)
}

type fakeView struct{ v, p mgl32.Mat4 }

func (f fakeView) View() mgl32.Mat4       { return f.v }
func (f fakeView) Projection() mgl32.Mat4 { return f.p }

type fakeDrawable struct {
	world mgl32.Mat4
	mat   *Material
}

func (f fakeDrawable) WorldMatrix() mgl32.Mat4 { return f.world }
func (f fakeDrawable) Material() *Material     { return f.mat }

type recordingDevice struct{ applied []ShaderState }

func (d *recordingDevice) Apply(s ShaderState) { d.applied = append(d.applied, s) }
func (d *recordingDevice) DrawMesh(*Mesh)      {}

func TestBasicShaderPasses(t *testing.T) {
	dev := &recordingDevice{}
	s := NewBasicShader("basic", dev)
	view := mgl32.Translate3D(0, 0, -10)
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 1, 100)
	s.PrePass(fakeView{v: view, p: proj})

	mat := NewMaterial("red", s, mgl32.Vec3{1, 0, 0}, 0.3, nil)
	world := mgl32.Translate3D(1, 2, 3)
	s.Pass(fakeDrawable{world: world, mat: mat})

	require.Len(t, dev.applied, 1)
	st := dev.applied[0]
	assert.Equal(t, view, st.View)
	assert.Equal(t, proj, st.Projection)
	assert.Equal(t, world, st.World)
	assert.Equal(t, float32(0.3), st.Alpha)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, st.Diffuse)
}
