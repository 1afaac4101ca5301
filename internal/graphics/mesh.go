package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is indexed triangle geometry. Meshes are shared between renderers
// and are never mutated after construction.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []uint16
}

// PrimitiveCount returns the number of triangles.
func (m *Mesh) PrimitiveCount() int { return len(m.Indices) / 3 }

// Bounds returns the axis-aligned extents of the vertices.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = float32(math.Min(float64(min[i]), float64(v[i])))
			max[i] = float32(math.Max(float64(max[i]), float64(v[i])))
		}
	}
	return min, max
}

// Radius returns the distance from the origin to the furthest vertex.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, v := range m.Vertices {
		if l := v.Len(); l > r {
			r = l
		}
	}
	return r
}

// Model groups meshes loaded together.
type Model struct {
	Name   string
	Meshes []*Mesh
}

func (m *Model) Bounds() (min, max mgl32.Vec3) {
	for i, mesh := range m.Meshes {
		lo, hi := mesh.Bounds()
		if i == 0 {
			min, max = lo, hi
			continue
		}
		for j := 0; j < 3; j++ {
			min[j] = float32(math.Min(float64(min[j]), float64(lo[j])))
			max[j] = float32(math.Max(float64(max[j]), float64(hi[j])))
		}
	}
	return min, max
}

// NewQuadMesh returns a unit quad in the XY plane facing +Z.
func NewQuadMesh() *Mesh {
	return &Mesh{
		Name: "quad",
		Vertices: []mgl32.Vec3{
			{-0.5, 0.5, 0}, {0.5, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0},
		},
		Normals: []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:     []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		Indices: []uint16{0, 1, 2, 2, 1, 3},
	}
}

// NewCubeMesh returns a unit cube centred on the origin, four vertices per face.
func NewCubeMesh() *Mesh {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	m := &Mesh{Name: "cube"}
	for _, f := range faces {
		base := uint16(len(m.Vertices))
		c := f.normal.Mul(0.5)
		u := f.u.Mul(0.5)
		v := f.v.Mul(0.5)
		m.Vertices = append(m.Vertices,
			c.Sub(u).Add(v), c.Add(u).Add(v), c.Sub(u).Sub(v), c.Add(u).Sub(v))
		for i := 0; i < 4; i++ {
			m.Normals = append(m.Normals, f.normal)
		}
		m.UVs = append(m.UVs, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}, mgl32.Vec2{1, 1})
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+1, base+3)
	}
	return m
}

// NewSphereMesh returns a UV sphere of radius 0.5.
func NewSphereMesh(slices, stacks int) *Mesh {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	m := &Mesh{Name: "sphere"}
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, n.Mul(0.5))
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)})
		}
	}
	row := uint16(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint16(i)*row + uint16(j)
			b := a + row
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}
