// Package game holds the demo game played on top of the engine: the hero's
// pickup rules, the win/lose state machine, hotkeys and the HUD.
package game

import (
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	coresys "github.com/gd3/engine/internal/core/system"
	"github.com/gd3/engine/internal/scripting"
	"go.uber.org/zap"
)

// HealthTarget is the OnHealthDelta target name for the hero.
const HealthTarget = "health"

// Checker decides the outcome of the game from its current state.
type Checker interface {
	CheckGameState(ctx scripting.GameStateContext) scripting.GameState
}

// StateManager tracks the hero's inventory and health from the event
// stream and asks the checker for a verdict each tick. The first
// non-playing verdict is raised once as GameState/OnWin or OnLose and the
// game is paused.
type StateManager struct {
	*coresys.Pausable

	bus     *event.Bus
	checker Checker
	log     *zap.Logger
	subs    []event.Subscription

	inventory []string
	health    int
	outcome   scripting.GameState
}

func NewStateManager(bus *event.Bus, checker Checker, startHealth int, log *zap.Logger) *StateManager {
	m := &StateManager{
		Pausable: coresys.NewPausable(bus, coresys.StatusUpdated),
		bus:      bus,
		checker:  checker,
		log:      log,
		health:   startHealth,
		outcome:  scripting.StatePlaying,
	}
	m.subs = append(m.subs,
		bus.Subscribe(event.CategoryInventory, m.handleInventory),
		bus.Subscribe(event.CategoryUI, m.handleHealth),
	)
	return m
}

func (m *StateManager) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (m *StateManager) Inventory() []string          { return m.inventory }
func (m *StateManager) Health() int                  { return m.health }
func (m *StateManager) Outcome() scripting.GameState { return m.outcome }

func (m *StateManager) handleInventory(d event.Data) {
	item, ok := d.StringParam(0)
	if !ok {
		return
	}
	switch d.Action {
	case event.OnAddInventory:
		m.inventory = append(m.inventory, item)
	case event.OnRemoveInventory:
		for i, it := range m.inventory {
			if it == item {
				m.inventory = append(m.inventory[:i], m.inventory[i+1:]...)
				break
			}
		}
	}
}

func (m *StateManager) handleHealth(d event.Data) {
	if d.Action != event.OnHealthDelta {
		return
	}
	if name, _ := d.StringParam(0); name != HealthTarget {
		return
	}
	if delta, ok := d.IntParam(1); ok {
		m.health += delta
	}
}

func (m *StateManager) Update(ctx *frame.Context) {
	if !m.IsUpdated() || m.outcome != scripting.StatePlaying {
		return
	}
	verdict := m.checker.CheckGameState(scripting.GameStateContext{
		Inventory: m.inventory,
		Health:    m.health,
		ElapsedMs: ctx.Time.TotalMs(),
	})
	if verdict == scripting.StatePlaying {
		return
	}
	m.outcome = verdict
	action := event.OnWin
	if verdict == scripting.StateLost {
		action = event.OnLose
	}
	m.log.Info("game over",
		zap.String("outcome", string(verdict)),
		zap.Int("items", len(m.inventory)),
		zap.Int("health", m.health),
	)
	m.bus.Raise(event.New(event.CategoryGameState, action))
	m.bus.Raise(event.New(event.CategoryMenu, event.OnPause))
}

func (m *StateManager) Close() {
	for _, s := range m.subs {
		m.bus.Unsubscribe(s)
	}
	m.subs = nil
	m.Pausable.Close()
}
