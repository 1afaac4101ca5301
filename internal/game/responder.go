package game

import (
	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/scene"
	"go.uber.org/zap"
)

// PickupItem is the inventory item granted per consumable.
const PickupItem = "sword"

// HeroResponder turns hero contacts with consumables into pickups: the
// consumable is removed, the hero heals by one and gains a PickupItem.
// A consumable is picked up once even if it reports several contacts
// before its removal is flushed.
type HeroResponder struct {
	bus    *event.Bus
	log    *zap.Logger
	picked map[string]struct{}
}

func NewHeroResponder(bus *event.Bus, log *zap.Logger) *HeroResponder {
	return &HeroResponder{bus: bus, log: log, picked: make(map[string]struct{})}
}

// Pickups returns the number of consumables collected.
func (r *HeroResponder) Pickups() int { return len(r.picked) }

func (r *HeroResponder) HandleResponse(_ *component.Collider, other *scene.GameObject) {
	if other == nil || other.Type() != scene.TypeConsumable {
		return
	}
	if _, ok := r.picked[other.ID()]; ok {
		return
	}
	r.picked[other.ID()] = struct{}{}
	r.log.Debug("pickup", zap.String("object", other.Name()))

	r.bus.Raise(event.New(event.CategoryGameObject, event.OnRemoveObject, other))
	r.bus.Raise(event.New(event.CategoryUI, event.OnHealthDelta, HealthTarget, 1))
	r.bus.Raise(event.New(event.CategoryInventory, event.OnAddInventory, PickupItem))
}

// PlayerResponder ignores collisions; the physics response alone applies.
var PlayerResponder = component.ResponderFunc(func(*component.Collider, *scene.GameObject) {})
