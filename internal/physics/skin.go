package physics

import "github.com/go-gl/mathgl/mgl32"

// CollisionCallback is invoked when self overlaps other. The return value
// decides whether the contact blocks motion.
type CollisionCallback func(self, other *CollisionSkin) bool

// CollisionInfo describes one contact. DirToBody0 is the contact normal
// pointing from Skin1's body towards Skin0's body.
type CollisionInfo struct {
	Skin0      *CollisionSkin
	Skin1      *CollisionSkin
	DirToBody0 mgl32.Vec3
	Depth      float32
}

type skinPrimitive struct {
	prim Primitive
	mat  MaterialProperties
}

// CollisionSkin is the collision envelope of a body.
type CollisionSkin struct {
	Callback CollisionCallback

	owner      *Body
	trigger    bool
	prims      []skinPrimitive
	offset     mgl32.Vec3
	collisions []CollisionInfo
}

// NewCollisionSkin creates a skin and attaches it to owner.
func NewCollisionSkin(owner *Body, trigger bool) *CollisionSkin {
	s := &CollisionSkin{owner: owner, trigger: trigger}
	if owner != nil {
		owner.skin = s
	}
	return s
}

func (s *CollisionSkin) Owner() *Body       { return s.owner }
func (s *CollisionSkin) IsTrigger() bool    { return s.trigger }
func (s *CollisionSkin) SetTrigger(v bool)  { s.trigger = v }
func (s *CollisionSkin) NumPrimitives() int { return len(s.prims) }
func (s *CollisionSkin) Offset() mgl32.Vec3 { return s.offset }

// AddPrimitive appends a primitive and returns its index.
func (s *CollisionSkin) AddPrimitive(p Primitive, mat MaterialProperties) int {
	s.prims = append(s.prims, skinPrimitive{prim: p, mat: mat})
	return len(s.prims) - 1
}

func (s *CollisionSkin) Primitive(i int) Primitive {
	if i < 0 || i >= len(s.prims) {
		return nil
	}
	return s.prims[i].prim
}

func (s *CollisionSkin) Material(i int) MaterialProperties {
	if i < 0 || i >= len(s.prims) {
		return MaterialProperties{}
	}
	return s.prims[i].mat
}

// ApplyLocalTransform shifts every primitive by delta in skin-local space.
func (s *CollisionSkin) ApplyLocalTransform(delta mgl32.Vec3) {
	s.offset = s.offset.Add(delta)
}

// WorldBounds returns the world box enclosing every primitive.
func (s *CollisionSkin) WorldBounds() AABB {
	if len(s.prims) == 0 {
		p := mgl32.Vec3{}
		if s.owner != nil {
			p = s.owner.position
		}
		return AABB{Min: p, Max: p}
	}
	origin, rot := mgl32.Vec3{}, mgl32.Ident4()
	if s.owner != nil {
		rot = s.owner.orientation
		origin = toWorld(s.owner.position, rot, s.offset)
	}
	out := emptyAABB()
	for _, sp := range s.prims {
		out = out.Union(sp.prim.Bounds(origin, rot))
	}
	return out
}

func (s *CollisionSkin) Collisions() []CollisionInfo { return s.collisions }

// AddCollision records a contact involving this skin.
func (s *CollisionSkin) AddCollision(info CollisionInfo) {
	s.collisions = append(s.collisions, info)
}

func (s *CollisionSkin) ClearCollisions() {
	s.collisions = s.collisions[:0]
}

// elasticity averages the primitives' elasticity.
func (s *CollisionSkin) elasticity() float32 {
	if len(s.prims) == 0 {
		return 0
	}
	var e float32
	for _, sp := range s.prims {
		e += sp.mat.Elasticity
	}
	return e / float32(len(s.prims))
}
