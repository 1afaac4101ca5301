// Package prefab turns archetype data into game objects. Each archetype is
// built once into a template; spawns are clones of the template.
package prefab

import (
	"fmt"

	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/data"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/physics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrUnknownArchetype = fmt.Errorf("archetype %w", scene.ErrNotFound)
	ErrUnknownShader    = fmt.Errorf("shader %w", scene.ErrNotFound)
)

type Builder struct {
	table     *data.ArchetypeTable
	bus       *event.Bus
	runner    component.BehaviourRunner
	shaders   map[string]graphics.Shader
	meshes    map[string]*graphics.Mesh
	templates map[string]*scene.GameObject
	log       *zap.Logger
}

// NewBuilder returns a builder over table. runner may be nil, in which
// case script behaviours are skipped.
func NewBuilder(table *data.ArchetypeTable, bus *event.Bus, runner component.BehaviourRunner, shaders map[string]graphics.Shader, log *zap.Logger) *Builder {
	return &Builder{
		table:   table,
		bus:     bus,
		runner:  runner,
		shaders: shaders,
		meshes: map[string]*graphics.Mesh{
			"cube":   graphics.NewCubeMesh(),
			"quad":   graphics.NewQuadMesh(),
			"sphere": graphics.NewSphereMesh(16, 12),
		},
		templates: make(map[string]*scene.GameObject),
		log:       log,
	}
}

// Template returns the object built for the named archetype. It is built
// on first use and never added to a scene.
func (b *Builder) Template(name string) (*scene.GameObject, error) {
	if t, ok := b.templates[name]; ok {
		return t, nil
	}
	a := b.table.Get(name)
	if a == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	t, err := b.build(a)
	if err != nil {
		return nil, fmt.Errorf("build archetype %s: %w", name, err)
	}
	b.templates[name] = t
	return t, nil
}

// Instantiate clones the named template and places the clone. The clone is
// not started until it is added to a scene.
func (b *Builder) Instantiate(archetype, name string, position, rotation mgl32.Vec3) (*scene.GameObject, error) {
	t, err := b.Template(archetype)
	if err != nil {
		return nil, err
	}
	obj, err := t.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", archetype, err)
	}
	if name == "" {
		name = archetype
	}
	obj.SetName(name)
	obj.Transform().SetRotation(rotation)
	obj.Transform().SetTranslation(position)
	return obj, nil
}

// Spawn instantiates every entry of level into s and returns the number of
// objects added.
func (b *Builder) Spawn(level *data.Level, s *scene.Scene) (int, error) {
	n := 0
	for _, e := range level.Spawns {
		base := e.Name
		if base == "" {
			base = e.Archetype
		}
		pos := mgl32.Vec3(e.Position)
		for i := 0; i < e.Count; i++ {
			name := base
			if e.Count > 1 {
				name = fmt.Sprintf("%s %d", base, i+1)
			}
			obj, err := b.Instantiate(e.Archetype, name, pos, mgl32.Vec3(e.Rotation))
			if err != nil {
				return n, err
			}
			s.Add(obj)
			n++
			pos = pos.Add(mgl32.Vec3(e.Spacing))
		}
	}
	b.log.Info("level spawned", zap.String("level", level.Name), zap.Int("objects", n))
	return n, nil
}

// Close disposes the templates.
func (b *Builder) Close() {
	for name, t := range b.templates {
		t.Dispose()
		delete(b.templates, name)
	}
}

func (b *Builder) build(a *data.Archetype) (*scene.GameObject, error) {
	typ, ok := scene.ParseGameObjectType(a.Type)
	if !ok {
		return nil, fmt.Errorf("unknown object type %q", a.Type)
	}
	obj := scene.NewGameObject(a.Name, typ)
	if a.Persistent != nil {
		obj.SetPersistent(*a.Persistent)
	}
	obj.Transform().SetScale(mgl32.Vec3(a.Scale))

	if r := a.Renderer; r != nil {
		sh, ok := b.shaders[r.Shader]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownShader, r.Shader)
		}
		mat := graphics.NewMaterial(a.Name, sh, mgl32.Vec3(r.Colour), r.Alpha, nil)
		if _, err := obj.AddComponent(component.NewMeshRenderer(b.meshes[r.Mesh], mat)); err != nil {
			return nil, err
		}
	}
	if c := a.Collider; c != nil {
		if err := b.addCollider(obj, c); err != nil {
			return nil, err
		}
	}
	for _, def := range a.Behaviours {
		beh := b.behaviour(def)
		if beh == nil {
			continue
		}
		if _, err := obj.AddComponent(beh); err != nil {
			return nil, fmt.Errorf("behaviour %s: %w", def.Type, err)
		}
	}
	return obj, nil
}

func (b *Builder) addCollider(obj *scene.GameObject, def *data.ColliderDef) error {
	var (
		col    scene.Component
		add    func(physics.Primitive, physics.MaterialProperties) error
		enable func(bool, float32) error
	)
	if def.Character {
		cc := component.NewCharacterCollider(def.Accel, def.Decel, def.Handling, def.Trigger)
		cc.SetLogger(b.log)
		col, add, enable = cc, cc.AddPrimitive, cc.Enable
	} else {
		c := component.NewCollider(def.Handling, def.Trigger).SetLogger(b.log)
		col, add, enable = c, c.AddPrimitive, c.Enable
	}
	if _, err := obj.AddComponent(col); err != nil {
		return err
	}
	origin := obj.Transform().LocalTranslation()
	for _, p := range def.Primitives {
		mat := physics.MaterialProperties{
			Elasticity:       p.Elasticity,
			StaticRoughness:  p.StaticRoughness,
			DynamicRoughness: p.DynamicRoughness,
		}
		if err := add(primitive(origin, p), mat); err != nil {
			return err
		}
	}
	if err := enable(def.Immovable, def.Mass); err != nil {
		return fmt.Errorf("enable collider: %w", err)
	}
	return nil
}

func primitive(origin mgl32.Vec3, p data.PrimitiveDef) physics.Primitive {
	pos := origin.Add(mgl32.Vec3(p.Offset))
	switch p.Kind {
	case "sphere":
		return physics.NewSphere(pos, p.Radius)
	case "capsule":
		return physics.NewCapsule(pos, mgl32.Ident4(), p.Radius, p.Length)
	default:
		return physics.NewBox(pos, mgl32.Ident4(), mgl32.Vec3(p.Size))
	}
}

func (b *Builder) behaviour(def data.BehaviourDef) scene.Component {
	switch def.Type {
	case "alpha_lerp":
		return component.NewAlphaLerp(def.From[0], def.To[0], def.Speed)
	case "color_lerp":
		return component.NewColorLerp(mgl32.Vec3(def.From), mgl32.Vec3(def.To), def.Speed)
	case "color_change":
		return component.NewColorChange(b.bus, component.HighlightRed)
	case "curve":
		c := component.NewCurve3D(loopType(def.Loop))
		for _, k := range def.Keyframes {
			c.Add(mgl32.Vec3(k.Value), k.TimeMs)
		}
		return component.NewCurve(c)
	case "script":
		if b.runner == nil {
			b.log.Warn("script behaviour without a script engine", zap.String("script", def.Script))
			return nil
		}
		return component.NewScript(b.runner, def.Script, def.Params)
	}
	return nil
}

func loopType(s string) component.CurveLoopType {
	switch s {
	case "cycle":
		return component.LoopCycle
	case "oscillate":
		return component.LoopOscillate
	}
	return component.LoopConstant
}
