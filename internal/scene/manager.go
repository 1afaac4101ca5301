package scene

import (
	"fmt"

	"github.com/gd3/engine/internal/core/ecs"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"go.uber.org/zap"
)

type removal struct {
	obj    *GameObject
	handle ecs.EntityID
}

// Manager owns the game's scenes. Scene switches and object removals are
// deferred: LoadScene takes effect at the start of the next Update.
// Removals are applied by FlushRemovals in the cleanup phase at tick end.
// Without a cleanup phase, Update applies only the removals that were
// already queued when the previous Update returned, so a removal is never
// applied in the tick that requested it.
type Manager struct {
	*coresys.Pausable

	bus *event.Bus
	log *zap.Logger
	sub event.Subscription

	scenes   []*Scene
	active   int
	toLoad   int
	removals []removal
	due      int
	started  bool
}

func NewManager(bus *event.Bus, log *zap.Logger) *Manager {
	m := &Manager{
		Pausable: coresys.NewPausable(bus, coresys.StatusUpdated),
		bus:      bus,
		log:      log,
		scenes:   make([]*Scene, 0, 4),
		active:   -1,
		toLoad:   -1,
		removals: make([]removal, 0, 20),
	}
	m.sub = bus.Subscribe(event.CategoryGameObject, m.handleGameObjectEvent)
	return m
}

func (m *Manager) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (m *Manager) handleGameObjectEvent(d event.Data) {
	v, _ := d.Param(0)
	obj, ok := v.(*GameObject)
	if !ok {
		if d.Action == event.OnAddObject || d.Action == event.OnRemoveObject {
			m.log.Warn("game object event without object",
				zap.Stringer("action", d.Action))
		}
		return
	}
	switch d.Action {
	case event.OnAddObject:
		if err := m.Add(obj); err != nil {
			m.log.Warn("add object", zap.String("object", obj.Name()), zap.Error(err))
		}
	case event.OnRemoveObject:
		m.Remove(obj)
	}
}

// Update applies removals left over from the previous tick and any pending
// scene switch, then updates the active scene. While paused it does
// nothing, except on the very first call so the initial scene always loads.
func (m *Manager) Update(ctx *frame.Context) {
	if !m.IsUpdated() && m.started {
		return
	}
	m.started = true
	m.flush(m.due)

	if m.toLoad >= 0 {
		if prev := m.ActiveScene(); prev != nil {
			prev.Unload()
		}
		m.active = m.toLoad
		m.toLoad = -1
		next := m.scenes[m.active]
		next.Initialize()
		m.log.Info("scene loaded", zap.String("scene", next.Name()), zap.Int("index", m.active))
	}
	if s := m.ActiveScene(); s != nil {
		s.Update(ctx)
	}
	m.due = len(m.removals)
}

func (m *Manager) ActiveScene() *Scene {
	if m.active < 0 || m.active >= len(m.scenes) {
		return nil
	}
	return m.scenes[m.active]
}

func (m *Manager) Len() int { return len(m.scenes) }

// Scene returns the scene at index i, or nil.
func (m *Manager) Scene(i int) *Scene {
	if i < 0 || i >= len(m.scenes) {
		return nil
	}
	return m.scenes[i]
}

func (m *Manager) indexOf(s *Scene) int {
	for i, x := range m.scenes {
		if x == s {
			return i
		}
	}
	return -1
}

// AddScene registers s. If active is set, s loads on the next Update.
// Adding a registered scene does nothing.
func (m *Manager) AddScene(s *Scene, active bool) bool {
	if s == nil || m.indexOf(s) >= 0 {
		return false
	}
	m.scenes = append(m.scenes, s)
	if active {
		m.toLoad = len(m.scenes) - 1
	}
	return true
}

// RemoveScene unloads and drops s. If s was active, the last remaining
// scene is queued to load.
func (m *Manager) RemoveScene(s *Scene) bool {
	i := m.indexOf(s)
	if i < 0 {
		return false
	}
	s.Unload()
	m.scenes = append(m.scenes[:i], m.scenes[i+1:]...)

	switch {
	case m.toLoad == i:
		m.toLoad = -1
	case m.toLoad > i:
		m.toLoad--
	}
	switch {
	case m.active == i:
		m.active = -1
		if m.toLoad < 0 && len(m.scenes) > 0 {
			m.toLoad = len(m.scenes) - 1
		}
	case m.active > i:
		m.active--
	}
	return true
}

// LoadScene queues s to load, registering it first if needed.
func (m *Manager) LoadScene(s *Scene) {
	if s == nil {
		return
	}
	i := m.indexOf(s)
	if i < 0 {
		m.scenes = append(m.scenes, s)
		i = len(m.scenes) - 1
	}
	m.toLoad = i
}

func (m *Manager) LoadSceneAt(i int) error {
	if i < 0 || i >= len(m.scenes) {
		return fmt.Errorf("load scene %d of %d: %w", i, len(m.scenes), ErrSceneIndex)
	}
	m.toLoad = i
	return nil
}

func (m *Manager) LoadSceneByName(name string) error {
	for i, s := range m.scenes {
		if s.Name() == name {
			m.toLoad = i
			return nil
		}
	}
	return fmt.Errorf("load scene %q: %w", name, ErrSceneNotFound)
}

// Add puts obj in the active scene immediately.
func (m *Manager) Add(obj *GameObject) error {
	s := m.ActiveScene()
	if s == nil {
		return ErrNoActiveScene
	}
	s.Add(obj)
	return nil
}

// Remove queues obj for removal. The request is bound to the object's
// current handle, so it is dropped if the object leaves the scene (or is
// removed and re-added) before the queue is flushed.
func (m *Manager) Remove(obj *GameObject) {
	if obj == nil {
		return
	}
	m.removals = append(m.removals, removal{obj: obj, handle: obj.handle})
}

// Pending returns the number of queued removals.
func (m *Manager) Pending() int { return len(m.removals) }

// FlushRemovals applies every queued removal against the active scene and
// returns how many objects were removed.
func (m *Manager) FlushRemovals() int { return m.flush(len(m.removals)) }

// flush applies the oldest count removals and keeps the rest queued.
func (m *Manager) flush(count int) int {
	if count <= 0 {
		return 0
	}
	n := 0
	s := m.ActiveScene()
	for _, r := range m.removals[:count] {
		if s == nil || r.obj.scene != s || r.handle.IsZero() || r.obj.handle != r.handle {
			continue
		}
		if s.Remove(r.obj) {
			n++
		}
	}
	rest := copy(m.removals, m.removals[count:])
	clear(m.removals[rest:])
	m.removals = m.removals[:rest]
	m.due = max(m.due-count, 0)
	if n > 0 {
		m.log.Debug("removed objects", zap.Int("count", n))
	}
	return n
}

func (m *Manager) Find(pred func(*GameObject) bool) *GameObject {
	if s := m.ActiveScene(); s != nil {
		return s.Find(pred)
	}
	return nil
}

func (m *Manager) FindAll(pred func(*GameObject) bool) []*GameObject {
	if s := m.ActiveScene(); s != nil {
		return s.FindAll(pred)
	}
	return nil
}

// Close unsubscribes from the bus.
func (m *Manager) Close() {
	m.bus.Unsubscribe(m.sub)
	m.Pausable.Close()
}
