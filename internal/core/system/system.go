package system

import "github.com/gd3/engine/internal/core/frame"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: sample input devices
	PhaseEvents               // 1: deliver events posted last tick
	PhasePhysics              // 2: integrate the physics world
	PhaseUpdate               // 3: scenes, ui, game state
	PhaseRender               // 4: draw
	PhaseCleanup              // 5: apply deferred removals
)

var phaseNames = [...]string{"input", "events", "physics", "update", "render", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every per-tick manager implements.
type System interface {
	Phase() Phase
	Update(ctx *frame.Context)
}
