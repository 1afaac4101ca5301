package scene

import (
	"math"

	"github.com/gd3/engine/internal/core/frame"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the scale, rotation (Euler degrees) and translation of a
// GameObject. The world and rotation matrices are cached and rebuilt only
// after a mutation marks them dirty.
type Transform struct {
	BaseComponent

	scale       mgl32.Vec3
	rotation    mgl32.Vec3
	translation mgl32.Vec3

	world         mgl32.Mat4
	rotationM     mgl32.Mat4
	worldDirty    bool
	rotationDirty bool

	listeners []func()
}

// NewTransform returns a unit-scale transform at the origin.
func NewTransform() *Transform {
	return NewTransformSRT(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, mgl32.Vec3{})
}

func NewTransformSRT(scale, rotation, translation mgl32.Vec3) *Transform {
	return &Transform{
		BaseComponent: NewBaseComponent(),
		scale:         scale,
		rotation:      rotation,
		translation:   translation,
		world:         mgl32.Ident4(),
		rotationM:     mgl32.Ident4(),
		worldDirty:    true,
		rotationDirty: true,
	}
}

func (t *Transform) Kind() Kind { return KindTransform }

func (t *Transform) LocalScale() mgl32.Vec3       { return t.scale }
func (t *Transform) LocalRotation() mgl32.Vec3    { return t.rotation }
func (t *Transform) LocalTranslation() mgl32.Vec3 { return t.translation }

// OnChanged registers fn to run after every mutation.
func (t *Transform) OnChanged(fn func()) {
	t.listeners = append(t.listeners, fn)
}

func (t *Transform) changed(rotation bool) {
	t.worldDirty = true
	if rotation {
		t.rotationDirty = true
	}
	for _, fn := range t.listeners {
		fn()
	}
}

// Scale adds delta to the local scale.
func (t *Transform) Scale(delta mgl32.Vec3) {
	t.scale = t.scale.Add(delta)
	t.changed(false)
}

// Rotate adds delta degrees to the local rotation.
func (t *Transform) Rotate(delta mgl32.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.changed(true)
}

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.translation = t.translation.Add(delta)
	t.changed(false)
}

func (t *Transform) SetScale(v mgl32.Vec3) {
	t.scale = v
	t.changed(false)
}

func (t *Transform) SetRotation(degrees mgl32.Vec3) {
	t.rotation = degrees
	t.changed(true)
}

func (t *Transform) SetTranslation(v mgl32.Vec3) {
	t.translation = v
	t.changed(false)
}

// SetRotationMatrix sets the rotation from a pure rotation matrix.
func (t *Transform) SetRotationMatrix(m mgl32.Mat4) {
	t.SetRotation(eulerFromMatrix(m))
}

// Update rebuilds whichever cached matrices are dirty.
func (t *Transform) Update(*frame.Context) {
	if t.rotationDirty {
		t.updateRotation()
	}
	if t.worldDirty {
		t.updateWorld()
	}
}

func (t *Transform) RotationMatrix() mgl32.Mat4 {
	if t.rotationDirty {
		t.updateRotation()
	}
	return t.rotationM
}

func (t *Transform) WorldMatrix() mgl32.Mat4 {
	if t.worldDirty || t.rotationDirty {
		t.updateWorld()
	}
	return t.world
}

// SetWorldMatrix overwrites the cached world matrix. The local SRT is left
// alone, so the next mutation rebuilds the matrix from it.
func (t *Transform) SetWorldMatrix(m mgl32.Mat4) {
	if t.rotationDirty {
		t.updateRotation()
	}
	t.world = m
	t.worldDirty = false
}

func (t *Transform) Forward() mgl32.Vec3  { return t.WorldMatrix().Col(2).Vec3().Mul(-1) }
func (t *Transform) Backward() mgl32.Vec3 { return t.WorldMatrix().Col(2).Vec3() }
func (t *Transform) Right() mgl32.Vec3    { return t.WorldMatrix().Col(0).Vec3() }
func (t *Transform) Left() mgl32.Vec3     { return t.WorldMatrix().Col(0).Vec3().Mul(-1) }
func (t *Transform) Up() mgl32.Vec3       { return t.WorldMatrix().Col(1).Vec3() }
func (t *Transform) Down() mgl32.Vec3     { return t.WorldMatrix().Col(1).Vec3().Mul(-1) }

func (t *Transform) updateRotation() {
	t.rotationM = rotationFromEuler(t.rotation)
	t.rotationDirty = false
}

// updateWorld applies scale, then X, Y and Z rotation, then translation.
func (t *Transform) updateWorld() {
	if t.rotationDirty {
		t.updateRotation()
	}
	t.world = mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z()).
		Mul4(t.rotationM).
		Mul4(mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
	t.worldDirty = false
}

// Clone returns an unattached copy with both caches marked dirty. Change
// listeners are not copied.
func (t *Transform) Clone() Component {
	return t.CloneTransform()
}

func (t *Transform) CloneTransform() *Transform {
	c := NewTransformSRT(t.scale, t.rotation, t.translation)
	c.BaseComponent = t.CloneBase()
	return c
}

// copySRT overwrites t's local SRT with src's and notifies listeners.
func (t *Transform) copySRT(src *Transform) {
	t.SetTranslation(src.translation)
	t.SetRotation(src.rotation)
	t.SetScale(src.scale)
}

func rotationFromEuler(deg mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(deg.Z())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(deg.Y()))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(deg.X())))
}

// eulerFromMatrix inverts rotationFromEuler, returning degrees.
func eulerFromMatrix(m mgl32.Mat4) mgl32.Vec3 {
	sy := -m.At(2, 0)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	y := math.Asin(float64(sy))
	var x, z float64
	if math.Abs(float64(sy)) < 0.99999 {
		x = math.Atan2(float64(m.At(2, 1)), float64(m.At(2, 2)))
		z = math.Atan2(float64(m.At(1, 0)), float64(m.At(0, 0)))
	} else {
		// gimbal lock: fold Z into X
		x = math.Atan2(-float64(m.At(1, 2)), float64(m.At(1, 1)))
	}
	return mgl32.Vec3{
		mgl32.RadToDeg(float32(x)),
		mgl32.RadToDeg(float32(y)),
		mgl32.RadToDeg(float32(z)),
	}
}
