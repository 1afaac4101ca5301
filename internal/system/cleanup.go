package system

import (
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// CleanupSystem applies the scene manager's deferred removals at tick end,
// after render and before the next physics step.
type CleanupSystem struct {
	scenes *scene.Manager
	log    *zap.Logger
}

func NewCleanupSystem(scenes *scene.Manager, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{scenes: scenes, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(*frame.Context) {
	if n := s.scenes.FlushRemovals(); n > 0 {
		s.log.Debug("removed game objects", zap.Int("count", n))
	}
}
