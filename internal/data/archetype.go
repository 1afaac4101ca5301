package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RendererDef describes the mesh and material of an archetype.
type RendererDef struct {
	Mesh   string     `yaml:"mesh"`   // cube, quad or sphere
	Shader string     `yaml:"shader"` // defaults to "basic"
	Colour [3]float32 `yaml:"colour"`
	Alpha  float32    `yaml:"alpha"`
}

// PrimitiveDef is one collision primitive, positioned relative to the
// object's translation.
type PrimitiveDef struct {
	Kind             string     `yaml:"kind"` // box, sphere or capsule
	Offset           [3]float32 `yaml:"offset"`
	Size             [3]float32 `yaml:"size"`
	Radius           float32    `yaml:"radius"`
	Length           float32    `yaml:"length"`
	Elasticity       float32    `yaml:"elasticity"`
	StaticRoughness  float32    `yaml:"static_roughness"`
	DynamicRoughness float32    `yaml:"dynamic_roughness"`
}

type ColliderDef struct {
	Character  bool           `yaml:"character"`
	Handling   bool           `yaml:"handling"`
	Trigger    bool           `yaml:"trigger"`
	Immovable  bool           `yaml:"immovable"`
	Mass       float32        `yaml:"mass"`
	Accel      float32        `yaml:"acceleration"`
	Decel      float32        `yaml:"deceleration"`
	Primitives []PrimitiveDef `yaml:"primitives"`
}

type KeyframeDef struct {
	TimeMs float32    `yaml:"time_ms"`
	Value  [3]float32 `yaml:"value"`
}

// BehaviourDef configures one behaviour component. Which fields apply
// depends on Type.
type BehaviourDef struct {
	Type      string             `yaml:"type"` // alpha_lerp, color_lerp, color_change, curve, script
	Speed     float32            `yaml:"speed"`
	From      [3]float32         `yaml:"from"`
	To        [3]float32         `yaml:"to"`
	Loop      string             `yaml:"loop"` // constant, cycle, oscillate
	Keyframes []KeyframeDef      `yaml:"keyframes"`
	Script    string             `yaml:"script"`
	Params    map[string]float64 `yaml:"params"`
}

// Archetype is a reusable object template. Spawns clone the object built
// from it.
type Archetype struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Persistent *bool          `yaml:"persistent"`
	Scale      [3]float32     `yaml:"scale"`
	Renderer   *RendererDef   `yaml:"renderer"`
	Collider   *ColliderDef   `yaml:"collider"`
	Behaviours []BehaviourDef `yaml:"behaviours"`
}

type archetypeFile struct {
	Archetypes []Archetype `yaml:"archetypes"`
}

var (
	meshKinds      = map[string]bool{"cube": true, "quad": true, "sphere": true}
	primitiveKinds = map[string]bool{"box": true, "sphere": true, "capsule": true}
	behaviourTypes = map[string]bool{
		"alpha_lerp": true, "color_lerp": true, "color_change": true, "curve": true, "script": true,
	}
)

// ArchetypeTable provides lookup of archetypes by name.
type ArchetypeTable struct {
	byName map[string]*Archetype
	order  []string
}

// LoadArchetypeTable loads archetypes.yaml.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	return ParseArchetypes(raw)
}

func ParseArchetypes(raw []byte) (*ArchetypeTable, error) {
	var f archetypeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	t := &ArchetypeTable{byName: make(map[string]*Archetype, len(f.Archetypes))}
	for i := range f.Archetypes {
		a := &f.Archetypes[i]
		a.Name = strings.TrimSpace(a.Name)
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("archetype %d: %w", i, err)
		}
		if _, dup := t.byName[a.Name]; dup {
			return nil, fmt.Errorf("archetype %q defined twice", a.Name)
		}
		a.applyDefaults()
		t.byName[a.Name] = a
		t.order = append(t.order, a.Name)
	}
	return t, nil
}

func (a *Archetype) validate() error {
	if a.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r := a.Renderer; r != nil && !meshKinds[r.Mesh] {
		return fmt.Errorf("%s: unknown mesh %q", a.Name, r.Mesh)
	}
	if c := a.Collider; c != nil {
		if len(c.Primitives) == 0 {
			return fmt.Errorf("%s: collider without primitives", a.Name)
		}
		for _, p := range c.Primitives {
			if !primitiveKinds[p.Kind] {
				return fmt.Errorf("%s: unknown primitive %q", a.Name, p.Kind)
			}
		}
	}
	for _, b := range a.Behaviours {
		if !behaviourTypes[b.Type] {
			return fmt.Errorf("%s: unknown behaviour %q", a.Name, b.Type)
		}
		if b.Type == "script" && b.Script == "" {
			return fmt.Errorf("%s: script behaviour without a script name", a.Name)
		}
	}
	return nil
}

func (a *Archetype) applyDefaults() {
	if a.Type == "" {
		a.Type = "prop"
	}
	if a.Scale == [3]float32{} {
		a.Scale = [3]float32{1, 1, 1}
	}
	if r := a.Renderer; r != nil {
		if r.Shader == "" {
			r.Shader = "basic"
		}
		if r.Alpha == 0 {
			r.Alpha = 1
		}
	}
	if c := a.Collider; c != nil && c.Mass == 0 {
		c.Mass = 1
	}
}

// Get returns the named archetype, or nil if none.
func (t *ArchetypeTable) Get(name string) *Archetype {
	return t.byName[name]
}

// Names returns archetype names in file order.
func (t *ArchetypeTable) Names() []string { return t.order }

func (t *ArchetypeTable) Count() int { return len(t.byName) }
