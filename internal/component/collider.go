package component

import (
	"fmt"

	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Responder reacts to a collision between self's owner and other.
type Responder interface {
	HandleResponse(self *Collider, other *scene.GameObject)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(self *Collider, other *scene.GameObject)

func (f ResponderFunc) HandleResponse(self *Collider, other *scene.GameObject) { f(self, other) }

type primitiveSpec struct {
	prim physics.Primitive
	mat  physics.MaterialProperties
}

// Collider owns a rigid body and its collision skin.
//
// The body is created on Awake. Primitives must be added before Enable,
// which computes mass properties, moves the body onto the owner's
// transform and hands it to the physics manager.
type Collider struct {
	scene.BaseComponent

	body          *physics.Body
	skin          *physics.CollisionSkin
	responder     Responder
	handling      bool
	trigger       bool
	prims         []primitiveSpec
	bodyOn        bool
	immovable     bool
	mass          float32
	enableOnStart bool
	startErr      error
	log           *zap.Logger
}

// NewCollider creates a collider. handlingCollision installs the skin
// callback that calls the responder; trigger colliders never block.
func NewCollider(handlingCollision, trigger bool) *Collider {
	return &Collider{
		BaseComponent: scene.NewBaseComponent(),
		handling:      handlingCollision,
		trigger:       trigger,
		log:           zap.NewNop(),
	}
}

func (c *Collider) Kind() scene.Kind             { return scene.KindCollider }
func (c *Collider) Body() *physics.Body          { return c.body }
func (c *Collider) Skin() *physics.CollisionSkin { return c.skin }
func (c *Collider) IsTrigger() bool              { return c.trigger }
func (c *Collider) IsHandlingCollision() bool    { return c.handling }
func (c *Collider) IsBodyEnabled() bool          { return c.bodyOn }
func (c *Collider) Responder() Responder         { return c.responder }

// StartErr reports why a cloned collider failed to enable on Start.
func (c *Collider) StartErr() error { return c.startErr }

// SetLogger sets the logger used for failures outside a caller's reach,
// such as enabling a clone on Start. Clones share it.
func (c *Collider) SetLogger(log *zap.Logger) *Collider {
	if log != nil {
		c.log = log
	}
	return c
}

// SetResponder installs the collision response hook and returns c.
func (c *Collider) SetResponder(r Responder) *Collider {
	c.responder = r
	return c
}

func (c *Collider) Awake(owner *scene.GameObject) error {
	if err := c.BaseComponent.Awake(owner); err != nil {
		return err
	}
	c.body = physics.NewBody()
	c.body.Owner = owner
	c.skin = physics.NewCollisionSkin(c.body, c.trigger)
	if c.handling {
		c.skin.Callback = c.handleCollision
	}
	for _, p := range c.prims {
		c.skin.AddPrimitive(p.prim, p.mat)
	}
	return nil
}

func (c *Collider) handleCollision(_, other *physics.CollisionSkin) bool {
	if other == nil {
		return true
	}
	if body := other.Owner(); body != nil && c.responder != nil {
		if obj, ok := body.Owner.(*scene.GameObject); ok {
			c.responder.HandleResponse(c, obj)
		}
	}
	return !other.IsTrigger()
}

// AddPrimitive adds a collision primitive. The collider must be awake.
func (c *Collider) AddPrimitive(p physics.Primitive, mat physics.MaterialProperties) error {
	if c.skin == nil {
		return scene.ErrNoCollisionSkin
	}
	c.skin.AddPrimitive(p, mat)
	c.prims = append(c.prims, primitiveSpec{prim: p, mat: mat})
	return nil
}

// Enable computes mass properties from the primitives and switches the
// body on at the owner's current translation and rotation.
func (c *Collider) Enable(immovable bool, mass float32) error {
	if err := c.configure(immovable, mass); err != nil {
		return err
	}
	c.body.MoveTo(c.Transform().LocalTranslation(), c.Transform().RotationMatrix())
	c.body.Enable()
	return nil
}

// configure runs the checks and mass setup shared with CharacterCollider.
func (c *Collider) configure(immovable bool, mass float32) error {
	if c.skin == nil {
		return scene.ErrNoCollisionSkin
	}
	if c.skin.NumPrimitives() == 0 {
		return scene.ErrNoPrimitives
	}
	if c.bodyOn {
		return scene.ErrColliderEnabled
	}
	if !(mass > 0) {
		return fmt.Errorf("%w: %v", scene.ErrInvalidMass, mass)
	}
	c.immovable, c.mass = immovable, mass
	c.body.SetImmovable(immovable)

	m, com, _, inertiaCoM := c.skin.MassProperties(physics.PrimitiveProperties{
		Distribution: physics.DistributionSolid,
		Type:         physics.MassTypeDensity,
		Value:        mass,
	})
	c.body.SetMass(m)
	c.body.SetBodyInertia(inertiaCoM)
	c.skin.ApplyLocalTransform(com.Mul(-1))
	c.bodyOn = true
	return nil
}

// Start enables clones of enabled colliders once their owner starts.
func (c *Collider) Start() {
	c.BaseComponent.Start()
	c.enableOnStartup(c.Enable)
}

// enableOnStartup runs enable for a pending clone. Start cannot return an
// error, so a failure is logged and kept for StartErr.
func (c *Collider) enableOnStartup(enable func(immovable bool, mass float32) error) {
	if !c.enableOnStart {
		return
	}
	c.enableOnStart = false
	if err := enable(c.immovable, c.mass); err != nil {
		name := ""
		if owner := c.Owner(); owner != nil {
			name = owner.Name()
		}
		c.startErr = fmt.Errorf("enable collider of %q on start: %w", name, err)
		c.log.Error("collider not enabled", zap.String("object", name), zap.Error(err))
	}
}

// Update copies the body pose into the owner's world matrix.
func (c *Collider) Update(*frame.Context) {
	if !c.bodyOn {
		return
	}
	c.syncWorld()
}

func (c *Collider) syncWorld() {
	t := c.Transform()
	s := t.LocalScale()
	prim := mgl32.Ident4()
	if p := c.skin.Primitive(0); p != nil {
		prim = p.Orientation()
	}
	pos := c.body.Position()
	world := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(c.body.Orientation()).
		Mul4(prim).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
	t.SetWorldMatrix(world)
}

func (c *Collider) Dispose() {
	if c.body != nil {
		c.body.Disable()
	}
}

// Clone copies the collider configuration and primitives. A clone of an
// enabled collider enables itself when its owner starts.
func (c *Collider) Clone() scene.Component {
	d := NewCollider(c.handling, c.trigger)
	c.cloneInto(d)
	return d
}

func (c *Collider) cloneInto(d *Collider) {
	d.BaseComponent = c.CloneBase()
	d.responder = c.responder
	d.log = c.log
	d.immovable, d.mass = c.immovable, c.mass
	d.enableOnStart = c.bodyOn || c.enableOnStart
	for _, p := range c.prims {
		d.prims = append(d.prims, primitiveSpec{prim: p.prim.Clone(), mat: p.mat})
	}
}
