package system

import (
	"context"
	"time"

	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// SnapshotStore saves the transforms of a named scene.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, sceneName string, states []scene.TransformState) error
}

// PersistenceSystem periodically saves the active scene's transforms.
// Runs in the cleanup phase so removed objects are not saved.
type PersistenceSystem struct {
	scenes    *scene.Manager
	store     SnapshotStore
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
	saves     int
}

func NewPersistenceSystem(scenes *scene.Manager, store SnapshotStore, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		scenes:   scenes,
		store:    store,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Saves returns the number of successful saves.
func (s *PersistenceSystem) Saves() int { return s.saves }

func (s *PersistenceSystem) Update(*frame.Context) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveActiveScene()
}

// SaveActiveScene persists the active scene immediately. Called on
// shutdown as well as on the autosave interval.
func (s *PersistenceSystem) SaveActiveScene() {
	sc := s.scenes.ActiveScene()
	if sc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	states := sc.CaptureTransforms()
	if err := s.store.SaveSnapshot(ctx, sc.Name(), states); err != nil {
		s.log.Error("scene autosave failed", zap.String("scene", sc.Name()), zap.Error(err))
		return
	}
	s.saves++
	s.log.Debug("scene saved", zap.String("scene", sc.Name()), zap.Int("objects", len(states)))
}
