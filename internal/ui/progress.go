package ui

import (
	"strconv"

	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/scene"
)

// ProgressBar tracks an integer value for a named target and mirrors it
// into its owner's fill and label. It listens for UI/OnHealthDelta with
// [0] target name and [1] delta.
type ProgressBar struct {
	bus    *event.Bus
	sub    event.Subscription
	owner  *Object
	target string
	value  int
	max    int
}

func NewProgressBar(bus *event.Bus, target string, start, limit int) *ProgressBar {
	if limit <= 0 {
		limit = 1
	}
	return &ProgressBar{bus: bus, target: target, value: clampInt(start, 0, limit), max: limit}
}

func (p *ProgressBar) Value() int { return p.value }
func (p *ProgressBar) Max() int   { return p.max }

func (p *ProgressBar) Awake(owner *Object) error {
	if owner == nil {
		return scene.ErrNoOwner
	}
	p.owner = owner
	p.sub = p.bus.Subscribe(event.CategoryUI, p.handle)
	p.refresh()
	return nil
}

func (p *ProgressBar) handle(d event.Data) {
	if d.Action != event.OnHealthDelta {
		return
	}
	if name, _ := d.StringParam(0); name != p.target {
		return
	}
	delta, ok := d.IntParam(1)
	if !ok {
		return
	}
	p.value = clampInt(p.value+delta, 0, p.max)
	p.refresh()
}

func (p *ProgressBar) refresh() {
	p.owner.Fill = float32(p.value) / float32(p.max)
	p.owner.Text = strconv.Itoa(p.value) + "/" + strconv.Itoa(p.max)
}

func (p *ProgressBar) Update(*frame.Context) {}

func (p *ProgressBar) Dispose() {
	p.bus.Unsubscribe(p.sub)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
