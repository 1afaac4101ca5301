package system

import "github.com/gd3/engine/internal/core/event"

// StatusType is a bit set saying whether a manager updates and/or draws.
type StatusType uint8

const (
	StatusOff     StatusType = 0
	StatusDrawn   StatusType = 1
	StatusUpdated StatusType = 2
)

// Pausable tracks a manager's run status and flips it on Menu play/pause
// events. Managers embed it and check IsUpdated/IsDrawn in Update.
type Pausable struct {
	status  StatusType
	onPlay  StatusType
	onPause StatusType
	bus     *event.Bus
	sub     event.Subscription
}

// NewPausable pauses to Off and resumes to Updated.
func NewPausable(bus *event.Bus, initial StatusType) *Pausable {
	return newPausable(bus, initial, StatusUpdated, StatusOff)
}

// NewDrawablePausable pauses to Off and resumes to Drawn|Updated.
func NewDrawablePausable(bus *event.Bus, initial StatusType) *Pausable {
	return newPausable(bus, initial, StatusDrawn|StatusUpdated, StatusOff)
}

// NewMenuPausable is the inverse used by menus: visible while the game is
// paused, hidden while it plays.
func NewMenuPausable(bus *event.Bus, initial StatusType) *Pausable {
	return newPausable(bus, initial, StatusOff, StatusDrawn|StatusUpdated)
}

func newPausable(bus *event.Bus, initial, onPlay, onPause StatusType) *Pausable {
	p := &Pausable{
		status:  initial,
		onPlay:  onPlay,
		onPause: onPause,
		bus:     bus,
	}
	p.sub = bus.Subscribe(event.CategoryMenu, p.HandleMenuEvent)
	return p
}

// HandleMenuEvent applies OnPlay/OnPause. Other actions are ignored.
func (p *Pausable) HandleMenuEvent(d event.Data) {
	switch d.Action {
	case event.OnPause:
		p.status = p.onPause
	case event.OnPlay:
		p.status = p.onPlay
	}
}

func (p *Pausable) Status() StatusType     { return p.status }
func (p *Pausable) SetStatus(s StatusType) { p.status = s }
func (p *Pausable) IsUpdated() bool        { return p.status&StatusUpdated != 0 }
func (p *Pausable) IsDrawn() bool          { return p.status&StatusDrawn != 0 }

// Close stops listening for menu events.
func (p *Pausable) Close() {
	p.bus.Unsubscribe(p.sub)
}
