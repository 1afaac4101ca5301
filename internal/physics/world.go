package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Config holds the world and collision system settings.
type Config struct {
	Gravity                           mgl32.Vec3
	NumCollisionIterations            int
	NumContactIterations              int
	NumPenetrationRelaxationTimesteps int
	AllowedPenetration                float32
	CollisionTolerance                float32
	UseSweepTests                     bool
	EnableFreezing                    bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:                           mgl32.Vec3{0, -9.81, 0},
		NumCollisionIterations:            4,
		NumContactIterations:              8,
		NumPenetrationRelaxationTimesteps: 15,
		AllowedPenetration:                0.00025,
		CollisionTolerance:                0.0005,
		UseSweepTests:                     true,
		EnableFreezing:                    true,
	}
}

const (
	freezeSpeedSq = 0.0025
	freezeSteps   = 30
	maxSweepSteps = 8
)

// World owns the bodies and advances them.
type World struct {
	cfg      Config
	bodies   []*Body
	contacts int
}

func NewWorld(cfg Config) *World {
	if cfg.NumCollisionIterations < 1 {
		cfg.NumCollisionIterations = 1
	}
	if cfg.NumPenetrationRelaxationTimesteps < 1 {
		cfg.NumPenetrationRelaxationTimesteps = 1
	}
	return &World{cfg: cfg}
}

func (w *World) Config() Config      { return w.cfg }
func (w *World) Gravity() mgl32.Vec3 { return w.cfg.Gravity }

func (w *World) SetGravity(g mgl32.Vec3) {
	w.cfg.Gravity = g
	for _, b := range w.bodies {
		b.gravity = g
	}
}

// AddBody registers b. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) bool {
	if w.HasBody(b) {
		return false
	}
	b.gravity = w.cfg.Gravity
	w.bodies = append(w.bodies, b)
	return true
}

func (w *World) RemoveBody(b *Body) bool {
	for i, x := range w.bodies {
		if x == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			if b.skin != nil {
				b.skin.ClearCollisions()
			}
			return true
		}
	}
	return false
}

func (w *World) HasBody(b *Body) bool {
	for _, x := range w.bodies {
		if x == b {
			return true
		}
	}
	return false
}

func (w *World) Bodies() []*Body { return w.bodies }
func (w *World) NumBodies() int  { return len(w.bodies) }

// Contacts returns the number of contacts found by the last Integrate.
func (w *World) Contacts() int { return w.contacts }

// Integrate advances the world by dt seconds: force step, velocity and
// position integration, contact detection with callbacks, then resolution
// of blocking contacts. Contacts recorded here are visible to the next
// force step.
func (w *World) Integrate(dt float32) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		if !b.enabled || b.immovable {
			continue
		}
		b.AddExternalForces(dt)
	}

	steps := w.sweepSteps(dt)
	sub := dt / float32(steps)
	for i := 0; i < steps; i++ {
		w.integrateVelocities(sub)
		w.detectAndResolve()
	}
	if w.cfg.EnableFreezing {
		w.updateFreezing()
	}
}

func (w *World) integrateVelocities(dt float32) {
	for _, b := range w.bodies {
		if !b.enabled || b.immovable || b.frozen {
			continue
		}
		accel := b.force.Mul(b.InvMass())
		b.velocity = b.velocity.Add(accel.Mul(dt))
		b.position = b.position.Add(b.velocity.Mul(dt))
	}
}

// sweepSteps splits the step so no moving body travels further than its
// smallest half extent per sub-step.
func (w *World) sweepSteps(dt float32) int {
	if !w.cfg.UseSweepTests {
		return 1
	}
	steps := 1
	for _, b := range w.bodies {
		if !b.enabled || b.immovable || b.skin == nil || b.skin.NumPrimitives() == 0 {
			continue
		}
		accel := b.force.Mul(b.InvMass())
		travel := b.velocity.Len()*dt + 0.5*accel.Len()*dt*dt
		size := b.skin.WorldBounds().Size()
		ext := float32(math.Min(float64(size.X()), math.Min(float64(size.Y()), float64(size.Z())))) / 2
		if ext <= 0 || travel <= ext {
			continue
		}
		n := int(math.Ceil(float64(travel / ext)))
		if n > steps {
			steps = n
		}
	}
	if steps > maxSweepSteps {
		steps = maxSweepSteps
	}
	return steps
}

func (w *World) detectAndResolve() {
	for _, b := range w.bodies {
		if b.skin != nil {
			b.skin.ClearCollisions()
		}
	}
	w.contacts = 0

	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if !collidable(a) {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !collidable(b) || (a.immovable && b.immovable) {
				continue
			}
			info, ok := w.detect(a.skin, b.skin)
			if !ok {
				continue
			}
			w.contacts++
			a.skin.AddCollision(info)
			b.skin.AddCollision(info)
			if blocks(a.skin, b.skin) {
				w.resolve(info)
			}
		}
	}
}

func collidable(b *Body) bool {
	return b.enabled && b.skin != nil && b.skin.NumPrimitives() > 0
}

// blocks runs both callbacks. If either skin has one, their conjunction is
// authoritative; otherwise only non-trigger pairs block.
func blocks(s0, s1 *CollisionSkin) bool {
	if s0.Callback == nil && s1.Callback == nil {
		return !s0.trigger && !s1.trigger
	}
	block := true
	if s0.Callback != nil {
		block = s0.Callback(s0, s1) && block
	}
	if s1.Callback != nil {
		block = s1.Callback(s1, s0) && block
	}
	return block
}

func (w *World) detect(s0, s1 *CollisionSkin) (CollisionInfo, bool) {
	a := s0.WorldBounds()
	b := s1.WorldBounds()
	if !a.Overlaps(b, w.cfg.CollisionTolerance) {
		return CollisionInfo{}, false
	}
	ca, cb := a.Centre(), b.Centre()
	axis := -1
	depth := float32(math.MaxFloat32)
	for i := 0; i < 3; i++ {
		overlap := float32(math.Min(float64(a.Max[i]), float64(b.Max[i])) - math.Max(float64(a.Min[i]), float64(b.Min[i])))
		if overlap < depth {
			depth = overlap
			axis = i
		}
	}
	var n mgl32.Vec3
	if ca[axis] >= cb[axis] {
		n[axis] = 1
	} else {
		n[axis] = -1
	}
	return CollisionInfo{Skin0: s0, Skin1: s1, DirToBody0: n, Depth: depth}, true
}

func (w *World) resolve(info CollisionInfo) {
	a, b := info.Skin0.owner, info.Skin1.owner
	invA, invB := a.InvMass(), b.InvMass()
	total := invA + invB
	if total == 0 {
		return
	}
	n := info.DirToBody0

	if excess := info.Depth - w.cfg.AllowedPenetration; excess > 0 {
		corr := excess / float32(w.cfg.NumPenetrationRelaxationTimesteps) * float32(w.cfg.NumCollisionIterations)
		if corr > excess {
			corr = excess
		}
		a.position = a.position.Add(n.Mul(corr * invA / total))
		b.position = b.position.Sub(n.Mul(corr * invB / total))
	}

	rel := a.velocity.Sub(b.velocity).Dot(n)
	if rel >= 0 {
		return
	}
	e := (info.Skin0.elasticity() + info.Skin1.elasticity()) / 2
	j := -(1 + e) * rel / total
	if invA > 0 {
		a.velocity = a.velocity.Add(n.Mul(j * invA))
		a.wake()
	}
	if invB > 0 {
		b.velocity = b.velocity.Sub(n.Mul(j * invB))
		b.wake()
	}
}

func (w *World) updateFreezing() {
	for _, b := range w.bodies {
		if !b.enabled || b.immovable || !b.allowFreezing {
			continue
		}
		if b.velocity.Dot(b.velocity) < freezeSpeedSq {
			b.stillSteps++
			if b.stillSteps >= freezeSteps {
				b.frozen = true
				b.velocity = mgl32.Vec3{}
			}
		} else {
			b.stillSteps = 0
		}
	}
}
