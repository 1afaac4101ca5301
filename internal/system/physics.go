package system

import (
	"time"

	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// DefaultMaxStep caps a single integration step.
const DefaultMaxStep = time.Second / 60

// PhysicsManager owns the physics world. Each tick it adopts the enabled
// bodies of the active scene's colliders, drops bodies that left, and
// integrates by the frame delta capped at the max step.
type PhysicsManager struct {
	*coresys.Pausable

	world   *physics.World
	scenes  *scene.Manager
	maxStep time.Duration
	log     *zap.Logger

	wanted map[*physics.Body]struct{}
	steps  int64
}

func NewPhysicsManager(bus *event.Bus, scenes *scene.Manager, cfg physics.Config, maxStep time.Duration, log *zap.Logger) *PhysicsManager {
	if maxStep <= 0 {
		maxStep = DefaultMaxStep
	}
	return &PhysicsManager{
		Pausable: coresys.NewPausable(bus, coresys.StatusUpdated),
		world:    physics.NewWorld(cfg),
		scenes:   scenes,
		maxStep:  maxStep,
		log:      log,
		wanted:   make(map[*physics.Body]struct{}, 64),
	}
}

func (m *PhysicsManager) Phase() coresys.Phase { return coresys.PhasePhysics }

func (m *PhysicsManager) World() *physics.World { return m.world }

// Steps returns how many integration steps have run.
func (m *PhysicsManager) Steps() int64 { return m.steps }

func (m *PhysicsManager) Update(ctx *frame.Context) {
	if !m.IsUpdated() {
		return
	}
	m.sync()

	dt := ctx.Time.Delta()
	if dt <= 0 {
		return
	}
	if dt > m.maxStep {
		dt = m.maxStep
	}
	m.world.Integrate(float32(dt.Seconds()))
	m.steps++
}

// sync makes the world's body set match the active scene.
func (m *PhysicsManager) sync() {
	clear(m.wanted)
	var ordered []*physics.Body
	if s := m.scenes.ActiveScene(); s != nil {
		for _, c := range s.Colliders() {
			if b := c.Body(); b != nil && b.IsEnabled() {
				m.wanted[b] = struct{}{}
				ordered = append(ordered, b)
			}
		}
	}

	var stale []*physics.Body
	for _, b := range m.world.Bodies() {
		if _, ok := m.wanted[b]; !ok {
			stale = append(stale, b)
		}
	}
	for _, b := range stale {
		m.world.RemoveBody(b)
	}
	added := 0
	for _, b := range ordered {
		if m.world.AddBody(b) {
			added++
		}
	}
	if added > 0 || len(stale) > 0 {
		m.log.Debug("physics bodies synced",
			zap.Int("added", added),
			zap.Int("removed", len(stale)),
			zap.Int("total", m.world.NumBodies()))
	}
}
