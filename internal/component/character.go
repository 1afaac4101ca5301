package component

import (
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultJumpHeight is the vertical speed a jump sets.
	DefaultJumpHeight = 5

	groundedDot   = 0.7
	steerScale    = 500
	steerFallRate = -2
	epsilon       = 1e-6
)

// Character is the external forcer of a player-driven body. It steers the
// body towards DesiredVelocity and applies jumps only while the body
// rests on a surface whose normal is within ~45° of the body's up axis.
type Character struct {
	AccelerationRate float32
	DecelerationRate float32
	DesiredVelocity  mgl32.Vec3

	jumping    bool
	jumpHeight float32
}

func NewCharacter(accelerationRate, decelerationRate float32) *Character {
	return &Character{
		AccelerationRate: accelerationRate,
		DecelerationRate: decelerationRate,
		jumpHeight:       DefaultJumpHeight,
	}
}

// DoJump requests a jump for the next force step.
func (ch *Character) DoJump(height float32) {
	ch.jumpHeight = height
	ch.jumping = true
}

func (ch *Character) IsJumping() bool     { return ch.jumping }
func (ch *Character) JumpHeight() float32 { return ch.jumpHeight }

// AddExternalForces implements physics.ExternalForcer.
func (ch *Character) AddExternalForces(b *physics.Body, dt float32) {
	b.ClearForces()

	if ch.jumping {
		if skin := b.Skin(); skin != nil {
			up := b.Up()
			for _, info := range skin.Collisions() {
				n := info.DirToBody0
				if info.Skin1 != nil && info.Skin1.Owner() == b {
					n = n.Mul(-1)
				}
				if n.Dot(up) > groundedDot {
					v := b.Velocity()
					b.SetVelocity(mgl32.Vec3{v.X(), ch.jumpHeight, v.Z()})
					break
				}
			}
		}
	}

	deltaVel := ch.DesiredVelocity.Sub(b.Velocity())
	running := ch.DesiredVelocity.Dot(ch.DesiredVelocity) >= epsilon
	if running {
		deltaVel = safeNormalize(deltaVel)
	}
	deltaVel[1] = steerFallRate

	rate := ch.DecelerationRate
	if running {
		rate = ch.AccelerationRate
	}
	deltaVel = deltaVel.Mul(rate)

	b.AddBodyForce(deltaVel.Mul(b.Mass() * dt * steerScale))
	ch.jumping = false
	b.AddGravityToExternalForce()
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < epsilon {
		return v
	}
	return v.Normalize()
}

// CharacterCollider is a Collider whose body is driven by a Character:
// upright, non-rotating and never frozen.
type CharacterCollider struct {
	Collider
	character *Character
}

// NewCharacterCollider creates a character collider with the given
// acceleration and deceleration rates.
func NewCharacterCollider(accelerationRate, decelerationRate float32, handlingCollision, trigger bool) *CharacterCollider {
	return &CharacterCollider{
		Collider:  *NewCollider(handlingCollision, trigger),
		character: NewCharacter(accelerationRate, decelerationRate),
	}
}

func (c *CharacterCollider) Character() *Character { return c.character }

func (c *CharacterCollider) Awake(owner *scene.GameObject) error {
	if err := c.Collider.Awake(owner); err != nil {
		return err
	}
	c.body.SetExternalForcer(c.character)
	return nil
}

func (c *CharacterCollider) Enable(immovable bool, mass float32) error {
	if err := c.configure(immovable, mass); err != nil {
		return err
	}
	c.body.MoveTo(c.Transform().LocalTranslation(), mgl32.Ident4())
	c.body.SetBodyInvInertia(0, 0, 0)
	c.body.SetAllowFreezing(false)
	c.body.Enable()
	return nil
}

func (c *CharacterCollider) Start() {
	c.BaseComponent.Start()
	c.enableOnStartup(c.Enable)
}

// Update mirrors the body position into the owner's translation.
func (c *CharacterCollider) Update(*frame.Context) {
	if !c.bodyOn {
		return
	}
	c.syncWorld()
	c.Transform().SetTranslation(c.body.Position())
}

// DoJump, SetDesiredVelocity and Velocity forward to the character.
func (c *CharacterCollider) DoJump(height float32) { c.character.DoJump(height) }

func (c *CharacterCollider) SetDesiredVelocity(v mgl32.Vec3) { c.character.DesiredVelocity = v }

func (c *CharacterCollider) DesiredVelocity() mgl32.Vec3 { return c.character.DesiredVelocity }

func (c *CharacterCollider) Clone() scene.Component {
	d := NewCharacterCollider(c.character.AccelerationRate, c.character.DecelerationRate, c.handling, c.trigger)
	c.cloneInto(&d.Collider)
	return d
}
