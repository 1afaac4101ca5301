package component

import (
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/input"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// MouseSensitivity scales mouse deltas before the rotation speed applies.
const MouseSensitivity = 100

// FirstPerson moves the owner with W/A/S/D and Space and turns it with
// the mouse.
type FirstPerson struct {
	scene.BaseComponent
	moveSpeed     float32
	strafeSpeed   float32
	rotationSpeed mgl32.Vec2
}

func NewFirstPerson(moveSpeed, strafeSpeed float32, rotationSpeed mgl32.Vec2) *FirstPerson {
	return &FirstPerson{
		BaseComponent: scene.NewBaseComponent(),
		moveSpeed:     moveSpeed,
		strafeSpeed:   strafeSpeed,
		rotationSpeed: rotationSpeed,
	}
}

func (c *FirstPerson) Kind() scene.Kind { return scene.KindController }

func (c *FirstPerson) Update(ctx *frame.Context) {
	if ctx == nil || ctx.Input == nil {
		return
	}
	c.handleKeyboard(ctx)
	c.handleMouse(ctx)
}

func (c *FirstPerson) handleKeyboard(ctx *frame.Context) {
	in, t, dt := ctx.Input, c.Transform(), ctx.Time.DeltaMs()
	if in.IsPressed(input.KeyW) {
		t.Translate(t.Forward().Mul(c.moveSpeed * dt))
	} else if in.IsPressed(input.KeyS) {
		t.Translate(t.Forward().Mul(-c.moveSpeed * dt))
	}
	if in.IsPressed(input.KeyA) {
		t.Translate(t.Left().Mul(c.strafeSpeed * dt))
	} else if in.IsPressed(input.KeyD) {
		t.Translate(t.Right().Mul(c.strafeSpeed * dt))
	}
	if in.IsPressed(input.KeySpace) {
		t.Translate(t.Up().Mul(c.moveSpeed / 2 * dt))
	}
}

// handleMouse maps horizontal motion onto yaw and vertical onto pitch.
func (c *FirstPerson) handleMouse(ctx *frame.Context) {
	delta := ctx.Input.Delta()
	if delta.X() == 0 && delta.Y() == 0 {
		return
	}
	dt := ctx.Time.DeltaMs()
	c.Transform().Rotate(mgl32.Vec3{
		-delta.Y() * c.rotationSpeed.Y() * MouseSensitivity * dt,
		-delta.X() * c.rotationSpeed.X() * MouseSensitivity * dt,
		0,
	})
}

func (c *FirstPerson) Clone() scene.Component {
	d := NewFirstPerson(c.moveSpeed, c.strafeSpeed, c.rotationSpeed)
	d.BaseComponent = c.CloneBase()
	return d
}

// FOVOnScroll narrows the owner camera's field of view when scrolling up,
// widens it when scrolling down and restores it on R.
type FOVOnScroll struct {
	scene.BaseComponent
	deltaRad float32
	camera   *Camera
	original float32
}

func NewFOVOnScroll(deltaRad float32) *FOVOnScroll {
	return &FOVOnScroll{BaseComponent: scene.NewBaseComponent(), deltaRad: deltaRad}
}

func (c *FOVOnScroll) Kind() scene.Kind { return scene.KindController }

func (c *FOVOnScroll) Awake(owner *scene.GameObject) error {
	if err := c.BaseComponent.Awake(owner); err != nil {
		return err
	}
	cam, ok := scene.GetComponent[*Camera](owner)
	if !ok {
		return scene.ErrMissingCamera
	}
	c.camera, c.original = cam, cam.FieldOfView()
	return nil
}

func (c *FOVOnScroll) Update(ctx *frame.Context) {
	if ctx == nil || ctx.Input == nil {
		return
	}
	switch d := ctx.Input.ScrollDelta(); {
	case d > 0:
		c.camera.SetFieldOfView(c.camera.FieldOfView() - c.deltaRad)
	case d < 0:
		c.camera.SetFieldOfView(c.camera.FieldOfView() + c.deltaRad)
	}
	if ctx.Input.WasJustPressed(input.KeyR) {
		c.camera.SetFieldOfView(c.original)
	}
}

func (c *FOVOnScroll) Clone() scene.Component {
	d := NewFOVOnScroll(c.deltaRad)
	d.BaseComponent = c.CloneBase()
	return d
}

// CollidableFirstPerson steers a CharacterCollider on the owner instead of
// moving the transform directly, so walls and floors stop it.
type CollidableFirstPerson struct {
	FirstPerson
	jumpHeight float32
	collider   *CharacterCollider
}

// NewCollidableFirstPerson replaces a non-positive jump height with
// DefaultJumpHeight.
func NewCollidableFirstPerson(jumpHeight, moveSpeed, strafeSpeed float32, rotationSpeed mgl32.Vec2) *CollidableFirstPerson {
	if jumpHeight <= 0 {
		jumpHeight = DefaultJumpHeight
	}
	return &CollidableFirstPerson{
		FirstPerson: *NewFirstPerson(moveSpeed, strafeSpeed, rotationSpeed),
		jumpHeight:  jumpHeight,
	}
}

func (c *CollidableFirstPerson) Awake(owner *scene.GameObject) error {
	if err := c.BaseComponent.Awake(owner); err != nil {
		return err
	}
	col, ok := scene.GetComponent[*CharacterCollider](owner)
	if !ok {
		return scene.ErrMissingCollider
	}
	c.collider = col
	return nil
}

func (c *CollidableFirstPerson) Update(ctx *frame.Context) {
	if ctx == nil || ctx.Input == nil {
		return
	}
	c.handleMovement(ctx)
	c.handleMouse(ctx)
}

func (c *CollidableFirstPerson) handleMovement(ctx *frame.Context) {
	in, t, dt := ctx.Input, c.Transform(), ctx.Time.DeltaMs()
	ch := c.collider.Character()

	forward := flatten(t.Forward())
	switch {
	case in.IsPressed(input.KeyW):
		ch.DesiredVelocity = ch.DesiredVelocity.Add(forward.Mul(c.moveSpeed * dt))
	case in.IsPressed(input.KeyS):
		ch.DesiredVelocity = ch.DesiredVelocity.Sub(forward.Mul(c.moveSpeed * dt))
	default:
		ch.DesiredVelocity = mgl32.Vec3{}
	}

	right := flatten(t.Right())
	if in.IsPressed(input.KeyA) {
		ch.DesiredVelocity = ch.DesiredVelocity.Sub(right.Mul(c.strafeSpeed * dt))
	} else if in.IsPressed(input.KeyD) {
		ch.DesiredVelocity = ch.DesiredVelocity.Add(right.Mul(c.strafeSpeed * dt))
	}

	if in.IsPressed(input.KeySpace) {
		ch.DoJump(c.jumpHeight)
	}
}

func flatten(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

func (c *CollidableFirstPerson) Clone() scene.Component {
	d := NewCollidableFirstPerson(c.jumpHeight, c.moveSpeed, c.strafeSpeed, c.rotationSpeed)
	d.BaseComponent = c.CloneBase()
	return d
}
