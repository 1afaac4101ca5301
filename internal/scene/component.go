package scene

import (
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Kind classifies a component for indexing.
type Kind int

const (
	KindTransform Kind = iota
	KindRenderer
	KindCamera
	KindCollider
	KindController
	KindBehaviour
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindRenderer:
		return "renderer"
	case KindCamera:
		return "camera"
	case KindCollider:
		return "collider"
	case KindController:
		return "controller"
	case KindBehaviour:
		return "behaviour"
	}
	return "unknown"
}

// Component is a unit of behaviour attached to a GameObject.
//
// Awake binds the component to its owner and runs exactly once, when the
// component is added. Start runs when the owner is initialized (or at add
// time if the owner is already running). Clone returns an unattached copy.
type Component interface {
	ID() string
	Kind() Kind
	Base() *BaseComponent
	Awake(owner *GameObject) error
	Start()
	Update(ctx *frame.Context)
	Dispose()
	Clone() Component
}

// Renderer is a component the render manager draws.
type Renderer interface {
	Component
	Material() *graphics.Material
	WorldMatrix() mgl32.Mat4
	Draw(device graphics.Device)
}

// Collider is a component owning a physics body.
type Collider interface {
	Component
	Body() *physics.Body
}

// Camera is a component that provides view and projection for rendering.
type Camera interface {
	Component
	DrawDepth() int
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}

// BaseComponent carries the state shared by every component. Concrete
// components embed it and override what they need.
type BaseComponent struct {
	id        string
	enabled   bool
	running   bool
	sortOrder int
	owner     *GameObject
	transform *Transform

	onEnabled  func()
	onDisabled func()
}

func NewBaseComponent() BaseComponent {
	return BaseComponent{
		id:        "CMP-" + uuid.NewString(),
		enabled:   true,
		sortOrder: 1,
	}
}

func (c *BaseComponent) ID() string            { return c.id }
func (c *BaseComponent) Base() *BaseComponent  { return c }
func (c *BaseComponent) Owner() *GameObject    { return c.owner }
func (c *BaseComponent) Transform() *Transform { return c.transform }
func (c *BaseComponent) IsEnabled() bool       { return c.enabled }
func (c *BaseComponent) IsRunning() bool       { return c.running }
func (c *BaseComponent) SortOrder() int        { return c.sortOrder }
func (c *BaseComponent) SetSortOrder(v int)    { c.sortOrder = v }

// SetEnabled toggles the flag and runs the matching hook on change.
func (c *BaseComponent) SetEnabled(v bool) {
	if v == c.enabled {
		return
	}
	c.enabled = v
	if v && c.onEnabled != nil {
		c.onEnabled()
	} else if !v && c.onDisabled != nil {
		c.onDisabled()
	}
}

// OnToggle installs the hooks run by SetEnabled.
func (c *BaseComponent) OnToggle(enabled, disabled func()) {
	c.onEnabled, c.onDisabled = enabled, disabled
}

// Awake binds the component to owner and caches the owner's Transform.
func (c *BaseComponent) Awake(owner *GameObject) error {
	if owner == nil {
		return ErrNoOwner
	}
	c.owner = owner
	if c.transform == nil {
		c.transform = owner.Transform()
	}
	return nil
}

func (c *BaseComponent) Start()                { c.running = true }
func (c *BaseComponent) Update(*frame.Context) {}
func (c *BaseComponent) Dispose()              {}

// CloneBase returns an unattached copy with a fresh id. The enabled flag
// and sort order carry over; hooks do not.
func (c *BaseComponent) CloneBase() BaseComponent {
	b := NewBaseComponent()
	b.enabled = c.enabled
	b.sortOrder = c.sortOrder
	return b
}
