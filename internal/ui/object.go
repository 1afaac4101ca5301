package ui

import (
	"fmt"
	"strings"

	"github.com/gd3/engine/internal/core/frame"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ObjectKind selects how an Object is drawn.
type ObjectKind int

const (
	KindText ObjectKind = iota
	KindButton
	KindBar
)

// Canvas is a character-cell surface UI objects draw on.
type Canvas interface {
	Size() (width, height int)
	DrawText(x, y int, text string, colour mgl32.Vec3)
	FillRect(x, y, w, h int, glyph rune, colour mgl32.Vec3)
}

// Controller is attached to an Object and updated with it.
type Controller interface {
	Awake(owner *Object) error
	Update(ctx *frame.Context)
	Dispose()
}

// Object is a 2D UI element positioned in screen cells.
type Object struct {
	id   string
	name string
	kind ObjectKind

	Position mgl32.Vec2
	Size     mgl32.Vec2
	Colour   mgl32.Vec3
	Layer    float32
	Text     string
	Fill     float32 // bars only, in [0,1]

	enabled     bool
	controllers []Controller
}

func NewObject(name string, kind ObjectKind, position mgl32.Vec2, text string) *Object {
	o := &Object{
		id:       "UI-" + uuid.NewString(),
		kind:     kind,
		Position: position,
		Colour:   mgl32.Vec3{1, 1, 1},
		Text:     text,
		Fill:     1,
		enabled:  true,
	}
	o.SetName(name)
	switch kind {
	case KindButton:
		o.Size = mgl32.Vec2{float32(len(text) + 2), 1}
	default:
		o.Size = mgl32.Vec2{float32(len(text)), 1}
	}
	return o
}

func (o *Object) ID() string                { return o.id }
func (o *Object) Name() string              { return o.name }
func (o *Object) Kind() ObjectKind          { return o.kind }
func (o *Object) IsEnabled() bool           { return o.enabled }
func (o *Object) SetEnabled(v bool)         { o.enabled = v }
func (o *Object) Controllers() []Controller { return o.controllers }

func (o *Object) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = o.id
	}
	o.name = name
}

// AddController wakes c against o and appends it.
func (o *Object) AddController(c Controller) error {
	if c == nil {
		return fmt.Errorf("ui object %q: nil controller", o.name)
	}
	if err := c.Awake(o); err != nil {
		return fmt.Errorf("ui object %q: awake controller: %w", o.name, err)
	}
	o.controllers = append(o.controllers, c)
	return nil
}

// Contains reports whether the cell p lies inside the object's rectangle.
func (o *Object) Contains(p mgl32.Vec2) bool {
	return p.X() >= o.Position.X() && p.X() < o.Position.X()+o.Size.X() &&
		p.Y() >= o.Position.Y() && p.Y() < o.Position.Y()+o.Size.Y()
}

func (o *Object) Update(ctx *frame.Context) {
	for _, c := range o.controllers {
		c.Update(ctx)
	}
}

// Draw renders the object onto canvas. Disabled objects draw nothing.
func (o *Object) Draw(canvas Canvas) {
	if !o.enabled {
		return
	}
	x, y := int(o.Position.X()), int(o.Position.Y())
	switch o.kind {
	case KindText:
		canvas.DrawText(x, y, o.Text, o.Colour)
	case KindButton:
		canvas.DrawText(x, y, "["+o.Text+"]", o.Colour)
	case KindBar:
		w := int(o.Size.X())
		filled := int(mgl32.Clamp(o.Fill, 0, 1)*float32(w) + 0.5)
		canvas.FillRect(x, y, filled, 1, '#', o.Colour)
		canvas.FillRect(x+filled, y, w-filled, 1, '.', o.Colour)
		if o.Text != "" {
			canvas.DrawText(x+w+1, y, o.Text, o.Colour)
		}
	}
}

func (o *Object) Dispose() {
	for _, c := range o.controllers {
		c.Dispose()
	}
}
