// Package physics is a small rigid-body engine: bodies, collision skins
// built from primitives, and a world that integrates forces and resolves
// AABB contacts. Rotational dynamics are not simulated; orientation is
// whatever the owner sets with MoveTo.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PrimitiveKind identifies a primitive's shape.
type PrimitiveKind int

const (
	KindBox PrimitiveKind = iota
	KindSphere
	KindCapsule
	KindTriangleMesh
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCapsule:
		return "capsule"
	case KindTriangleMesh:
		return "triangle_mesh"
	}
	return "unknown"
}

// Primitive is a collision shape placed in its skin's local frame.
type Primitive interface {
	Kind() PrimitiveKind
	Volume() float32
	// Centre is the shape's centroid in skin-local coordinates.
	Centre() mgl32.Vec3
	Orientation() mgl32.Mat4
	// Bounds returns the world-space box of the shape given the frame its
	// local coordinates are expressed in.
	Bounds(origin mgl32.Vec3, rot mgl32.Mat4) AABB
	Clone() Primitive
}

// MaterialProperties are the surface response parameters of a primitive.
type MaterialProperties struct {
	Elasticity       float32
	StaticRoughness  float32
	DynamicRoughness float32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

func emptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func (a AABB) extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] {
			a.Min[i] = p[i]
		}
		if p[i] > a.Max[i] {
			a.Max[i] = p[i]
		}
	}
	return a
}

// Union returns the smallest box containing both.
func (a AABB) Union(b AABB) AABB {
	return a.extend(b.Min).extend(b.Max)
}

func (a AABB) Centre() mgl32.Vec3 { return a.Min.Add(a.Max).Mul(0.5) }
func (a AABB) Size() mgl32.Vec3   { return a.Max.Sub(a.Min) }

// Overlaps reports whether the boxes intersect, growing b by tolerance.
func (a AABB) Overlaps(b AABB, tolerance float32) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i]+tolerance < b.Min[i] || b.Max[i]+tolerance < a.Min[i] {
			return false
		}
	}
	return true
}

func (a AABB) valid() bool { return a.Min.X() <= a.Max.X() }

func toWorld(origin mgl32.Vec3, rot mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return origin.Add(rot.Mul4x1(p.Vec4(0)).Vec3())
}

// Box is an oriented box.
type Box struct {
	Position    mgl32.Vec3
	Orient      mgl32.Mat4
	SideLengths mgl32.Vec3
}

func NewBox(position mgl32.Vec3, orient mgl32.Mat4, sideLengths mgl32.Vec3) *Box {
	return &Box{Position: position, Orient: orient, SideLengths: sideLengths}
}

func (b *Box) Kind() PrimitiveKind     { return KindBox }
func (b *Box) Centre() mgl32.Vec3      { return b.Position }
func (b *Box) Orientation() mgl32.Mat4 { return b.Orient }
func (b *Box) Volume() float32         { return b.SideLengths.X() * b.SideLengths.Y() * b.SideLengths.Z() }
func (b *Box) Clone() Primitive        { c := *b; return &c }

func (b *Box) Bounds(origin mgl32.Vec3, rot mgl32.Mat4) AABB {
	h := b.SideLengths.Mul(0.5)
	out := emptyAABB()
	full := rot.Mul4(b.Orient)
	centre := toWorld(origin, rot, b.Position)
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{h.X(), h.Y(), h.Z()}
		if i&1 != 0 {
			corner[0] = -corner[0]
		}
		if i&2 != 0 {
			corner[1] = -corner[1]
		}
		if i&4 != 0 {
			corner[2] = -corner[2]
		}
		out = out.extend(toWorld(centre, full, corner))
	}
	return out
}

// Sphere is a ball.
type Sphere struct {
	Position mgl32.Vec3
	Radius   float32
}

func NewSphere(position mgl32.Vec3, radius float32) *Sphere {
	return &Sphere{Position: position, Radius: radius}
}

func (s *Sphere) Kind() PrimitiveKind     { return KindSphere }
func (s *Sphere) Centre() mgl32.Vec3      { return s.Position }
func (s *Sphere) Orientation() mgl32.Mat4 { return mgl32.Ident4() }
func (s *Sphere) Clone() Primitive        { c := *s; return &c }

func (s *Sphere) Volume() float32 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

func (s *Sphere) Bounds(origin mgl32.Vec3, rot mgl32.Mat4) AABB {
	c := toWorld(origin, rot, s.Position)
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: c.Sub(r), Max: c.Add(r)}
}

// Capsule is a cylinder of the given length along its local Y axis capped
// by hemispheres.
type Capsule struct {
	Position mgl32.Vec3
	Orient   mgl32.Mat4
	Radius   float32
	Length   float32
}

func NewCapsule(position mgl32.Vec3, orient mgl32.Mat4, radius, length float32) *Capsule {
	return &Capsule{Position: position, Orient: orient, Radius: radius, Length: length}
}

func (c *Capsule) Kind() PrimitiveKind     { return KindCapsule }
func (c *Capsule) Centre() mgl32.Vec3      { return c.Position }
func (c *Capsule) Orientation() mgl32.Mat4 { return c.Orient }
func (c *Capsule) Clone() Primitive        { d := *c; return &d }

func (c *Capsule) Volume() float32 {
	r := c.Radius
	return math.Pi*r*r*c.Length + 4.0/3.0*math.Pi*r*r*r
}

func (c *Capsule) Bounds(origin mgl32.Vec3, rot mgl32.Mat4) AABB {
	full := rot.Mul4(c.Orient)
	centre := toWorld(origin, rot, c.Position)
	half := mgl32.Vec3{0, c.Length / 2, 0}
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	out := emptyAABB()
	for _, end := range []mgl32.Vec3{half, half.Mul(-1)} {
		p := toWorld(centre, full, end)
		out = out.extend(p.Sub(r)).extend(p.Add(r))
	}
	return out
}

// TriangleMesh is static triangle geometry, typically terrain or
// architecture attached to an immovable body.
type TriangleMesh struct {
	Vertices []mgl32.Vec3
	Indices  []int
}

func NewTriangleMesh(vertices []mgl32.Vec3, indices []int) *TriangleMesh {
	return &TriangleMesh{Vertices: vertices, Indices: indices}
}

func (m *TriangleMesh) Kind() PrimitiveKind     { return KindTriangleMesh }
func (m *TriangleMesh) Orientation() mgl32.Mat4 { return mgl32.Ident4() }

func (m *TriangleMesh) localBounds() AABB {
	out := emptyAABB()
	for _, v := range m.Vertices {
		out = out.extend(v)
	}
	if !out.valid() {
		return AABB{}
	}
	return out
}

func (m *TriangleMesh) Centre() mgl32.Vec3 { return m.localBounds().Centre() }

// Volume is the volume of the mesh's bounding box.
func (m *TriangleMesh) Volume() float32 {
	s := m.localBounds().Size()
	return s.X() * s.Y() * s.Z()
}

func (m *TriangleMesh) Bounds(origin mgl32.Vec3, rot mgl32.Mat4) AABB {
	out := emptyAABB()
	for _, v := range m.Vertices {
		out = out.extend(toWorld(origin, rot, v))
	}
	if !out.valid() {
		return AABB{Min: origin, Max: origin}
	}
	return out
}

func (m *TriangleMesh) Clone() Primitive {
	return &TriangleMesh{
		Vertices: append([]mgl32.Vec3(nil), m.Vertices...),
		Indices:  append([]int(nil), m.Indices...),
	}
}

// RotationFromEuler builds a rotation matrix from Euler angles in degrees,
// applied X then Y then Z.
func RotationFromEuler(degrees mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees.Z())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(degrees.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(degrees.X())))
}
