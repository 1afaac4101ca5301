package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gd3/engine/internal/core/ecs"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/google/uuid"
)

// GameObjectType tags an object with its role in the game.
type GameObjectType int

const (
	TypeScene GameObjectType = iota
	TypeCamera
	TypePlayer
	TypeNPC
	TypeInteractable
	TypeConsumable
	TypeArchitecture
	TypeEnvironment
	TypeSkybox
	TypeEditor
	TypeProp
	TypeGround
)

var typeNames = [...]string{
	"scene", "camera", "player", "npc", "interactable", "consumable",
	"architecture", "environment", "skybox", "editor", "prop", "ground",
}

func (t GameObjectType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// ParseGameObjectType maps a lower-case type name back to its value.
func ParseGameObjectType(s string) (GameObjectType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == s {
			return GameObjectType(i), true
		}
	}
	return 0, false
}

// GameObject is an entity: a Transform plus an ordered list of components.
// The Transform is always component 0.
type GameObject struct {
	id         string
	name       string
	typ        GameObjectType
	persistent bool
	enabled    bool
	running    bool

	scene  *Scene
	handle ecs.EntityID

	transform  *Transform
	components []Component
}

// NewGameObject returns an enabled, persistent object. An empty name
// defaults to the object's id.
func NewGameObject(name string, typ GameObjectType) *GameObject {
	g := &GameObject{}
	g.init(name, typ)
	return g
}

func (g *GameObject) init(name string, typ GameObjectType) {
	g.id = "GO-" + uuid.NewString()
	g.typ = typ
	g.persistent = true
	g.enabled = true
	g.components = make([]Component, 0, 4)
	g.SetName(name)
	g.transform = NewTransform()
	g.transform.sortOrder = 0
	_ = g.transform.Awake(g)
	g.components = append(g.components, g.transform)
}

func (g *GameObject) ID() string              { return g.id }
func (g *GameObject) Name() string            { return g.name }
func (g *GameObject) Type() GameObjectType    { return g.typ }
func (g *GameObject) IsPersistent() bool      { return g.persistent }
func (g *GameObject) SetPersistent(v bool)    { g.persistent = v }
func (g *GameObject) IsEnabled() bool         { return g.enabled }
func (g *GameObject) IsRunning() bool         { return g.running }
func (g *GameObject) Scene() *Scene           { return g.scene }
func (g *GameObject) Handle() ecs.EntityID    { return g.handle }
func (g *GameObject) Transform() *Transform   { return g.transform }
func (g *GameObject) Components() []Component { return g.components }

func (g *GameObject) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = g.id
	}
	g.name = name
}

// SetEnabled toggles the object. While in a scene, enabling indexes its
// components and disabling unindexes them.
func (g *GameObject) SetEnabled(v bool) {
	if v == g.enabled {
		return
	}
	g.enabled = v
	if g.scene == nil {
		return
	}
	if v {
		g.scene.list.indexAll(g)
	} else {
		g.scene.list.unindexAll(g)
	}
}

// AddComponent attaches c and returns it. A Transform argument is not
// attached; its scale, rotation and translation are copied into the
// object's own Transform, which is returned instead.
func (g *GameObject) AddComponent(c Component) (Component, error) {
	if c == nil {
		return nil, ErrNilComponent
	}
	if t, ok := c.(*Transform); ok {
		if t != g.transform {
			g.transform.copySRT(t)
		}
		return g.transform, nil
	}

	base := c.Base()
	if base.owner == g {
		return c, nil
	}
	if base.owner != nil {
		return nil, fmt.Errorf("add %s %s to %s: %w", c.Kind(), c.ID(), g.name, ErrAttached)
	}
	base.transform = g.transform
	if err := c.Awake(g); err != nil {
		base.owner = nil
		base.transform = nil
		return nil, fmt.Errorf("awake %s on %s: %w", c.Kind(), g.name, err)
	}
	g.components = append(g.components, c)

	if g.running && !base.running {
		c.Start()
		base.running = true
		g.sortComponents()
	}
	if g.scene != nil && g.enabled {
		g.scene.list.index(c)
	}
	return c, nil
}

// RemoveComponent detaches c, unindexes it and disposes it. The Transform
// cannot be removed.
func (g *GameObject) RemoveComponent(c Component) bool {
	if c == nil || c == Component(g.transform) {
		return false
	}
	for i, x := range g.components {
		if x != c {
			continue
		}
		g.components = append(g.components[:i], g.components[i+1:]...)
		if g.scene != nil {
			g.scene.list.unindex(c)
		}
		c.Dispose()
		base := c.Base()
		base.owner = nil
		base.transform = nil
		base.running = false
		return true
	}
	return false
}

// GetComponent returns the first component of type T.
func GetComponent[T any](g *GameObject) (T, bool) {
	for _, c := range g.components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// GetComponents returns every component of type T in order.
func GetComponents[T any](g *GameObject) []T {
	var out []T
	for _, c := range g.components {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func (g *GameObject) FindComponent(pred func(Component) bool) Component {
	for _, c := range g.components {
		if pred(c) {
			return c
		}
	}
	return nil
}

func (g *GameObject) FindComponents(pred func(Component) bool) []Component {
	var out []Component
	for _, c := range g.components {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

// Initialize sorts the components and starts them. Later calls do nothing.
func (g *GameObject) Initialize() {
	if g.running {
		return
	}
	g.running = true
	g.sortComponents()
	for _, c := range g.components {
		c.Start()
		c.Base().running = true
	}
}

// sortComponents orders everything after the Transform by sort order,
// keeping insertion order among equals.
func (g *GameObject) sortComponents() {
	rest := g.components[1:]
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Base().sortOrder < rest[j].Base().sortOrder
	})
}

// Update runs every component, enabled or not.
func (g *GameObject) Update(ctx *frame.Context) {
	for i := 0; i < len(g.components); i++ {
		g.components[i].Update(ctx)
	}
}

func (g *GameObject) Dispose() {
	for _, c := range g.components {
		c.Dispose()
	}
}

// Clone returns an unattached, not yet running copy named "Clone - <name>"
// with a fresh id. Every component is cloned through its own Clone.
func (g *GameObject) Clone() (*GameObject, error) {
	clone := NewGameObject("Clone - "+g.name, g.typ)
	clone.persistent = g.persistent
	for _, c := range g.components {
		if _, err := clone.AddComponent(c.Clone()); err != nil {
			return nil, fmt.Errorf("clone %s: %w", g.name, err)
		}
	}
	return clone, nil
}

func (g *GameObject) String() string {
	return fmt.Sprintf("%s(%s)", g.name, g.typ)
}
