package physics

import "github.com/go-gl/mathgl/mgl32"

// ExternalForcer replaces a body's per-step force accumulation. Without one,
// a body clears its forces and adds gravity.
type ExternalForcer interface {
	AddExternalForces(b *Body, dt float32)
}

// Body is a rigid body. Owner is opaque user data resolved by collision
// callbacks (the engine stores the owning entity there).
type Body struct {
	Owner any

	position    mgl32.Vec3
	orientation mgl32.Mat4
	velocity    mgl32.Vec3
	force       mgl32.Vec3
	gravity     mgl32.Vec3

	mass       float32
	inertia    mgl32.Mat3
	invInertia mgl32.Vec3

	immovable     bool
	enabled       bool
	allowFreezing bool
	frozen        bool
	stillSteps    int

	skin   *CollisionSkin
	forcer ExternalForcer
}

func NewBody() *Body {
	return &Body{
		orientation:   mgl32.Ident4(),
		mass:          1,
		inertia:       mgl32.Ident3(),
		invInertia:    mgl32.Vec3{1, 1, 1},
		allowFreezing: true,
		gravity:       mgl32.Vec3{0, -9.81, 0},
	}
}

func (b *Body) Position() mgl32.Vec3           { return b.position }
func (b *Body) Orientation() mgl32.Mat4        { return b.orientation }
func (b *Body) Velocity() mgl32.Vec3           { return b.velocity }
func (b *Body) Force() mgl32.Vec3              { return b.force }
func (b *Body) Mass() float32                  { return b.mass }
func (b *Body) Inertia() mgl32.Mat3            { return b.inertia }
func (b *Body) InvInertia() mgl32.Vec3         { return b.invInertia }
func (b *Body) Immovable() bool                { return b.immovable }
func (b *Body) IsEnabled() bool                { return b.enabled }
func (b *Body) AllowFreezing() bool            { return b.allowFreezing }
func (b *Body) IsFrozen() bool                 { return b.frozen }
func (b *Body) Skin() *CollisionSkin           { return b.skin }
func (b *Body) ExternalForcer() ExternalForcer { return b.forcer }

// Up is the body's local +Y axis in world space.
func (b *Body) Up() mgl32.Vec3 { return b.orientation.Col(1).Vec3() }

func (b *Body) SetVelocity(v mgl32.Vec3) {
	b.velocity = v
	b.wake()
}

// MoveTo teleports the body.
func (b *Body) MoveTo(position mgl32.Vec3, orientation mgl32.Mat4) {
	b.position = position
	b.orientation = orientation
	b.wake()
}

// SetMass stores mass; non-positive values are stored as 1.
func (b *Body) SetMass(m float32) {
	if m <= 0 {
		m = 1
	}
	b.mass = m
}

// InvMass is zero for immovable bodies.
func (b *Body) InvMass() float32 {
	if b.immovable || b.mass <= 0 {
		return 0
	}
	return 1 / b.mass
}

func (b *Body) SetBodyInertia(i mgl32.Mat3) {
	b.inertia = i
	b.invInertia = mgl32.Vec3{inv(i.At(0, 0)), inv(i.At(1, 1)), inv(i.At(2, 2))}
}

// SetBodyInvInertia overrides the inverse inertia diagonal. Zero disables
// rotation response on that axis.
func (b *Body) SetBodyInvInertia(x, y, z float32) {
	b.invInertia = mgl32.Vec3{x, y, z}
}

func inv(v float32) float32 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

func (b *Body) SetImmovable(v bool)                { b.immovable = v }
func (b *Body) SetAllowFreezing(v bool)            { b.allowFreezing = v; b.wake() }
func (b *Body) SetExternalForcer(f ExternalForcer) { b.forcer = f }

func (b *Body) Enable()  { b.enabled = true; b.wake() }
func (b *Body) Disable() { b.enabled = false }

// AddBodyForce adds a force given in the body's local frame.
func (b *Body) AddBodyForce(f mgl32.Vec3) {
	b.force = b.force.Add(b.orientation.Mul4x1(f.Vec4(0)).Vec3())
}

func (b *Body) AddWorldForce(f mgl32.Vec3) {
	b.force = b.force.Add(f)
}

func (b *Body) ClearForces() {
	b.force = mgl32.Vec3{}
}

func (b *Body) AddGravityToExternalForce() {
	b.force = b.force.Add(b.gravity.Mul(b.mass))
}

// AddExternalForces runs the body's force step.
func (b *Body) AddExternalForces(dt float32) {
	if b.forcer != nil {
		b.forcer.AddExternalForces(b, dt)
		return
	}
	b.ClearForces()
	b.AddGravityToExternalForce()
}

func (b *Body) wake() {
	b.frozen = false
	b.stillSteps = 0
}
