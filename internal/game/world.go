package game

import (
	"errors"
	"fmt"

	"github.com/gd3/engine/internal/component"
	"github.com/gd3/engine/internal/data"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/prefab"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// HeroArchetype is the archetype a first-person camera is built on.
const HeroArchetype = "hero"

// Controller tuning for the hero, in units per millisecond.
const (
	heroJumpHeight  = 1.5
	heroMoveSpeed   = 0.01
	heroStrafeSpeed = 0.008
	heroFOVStep     = 0.05
)

var heroTurnSpeed = mgl32.Vec2{0.0001, 0.0001}

var ErrNoCameras = errors.New("level has no cameras")

// World is the 3D scene of a level plus the objects the game steers.
type World struct {
	Scene     *scene.Scene
	Hero      *scene.GameObject
	Responder *HeroResponder
}

// BuildWorld spawns level into a new scene and adds its cameras. The first
// camera in the level becomes the main camera.
func BuildWorld(level *data.Level, b *prefab.Builder, responder *HeroResponder, viewport graphics.Viewport, log *zap.Logger) (*World, error) {
	if len(level.Cameras) == 0 {
		return nil, fmt.Errorf("build %s: %w", level.Name, ErrNoCameras)
	}
	w := &World{Scene: scene.NewScene(level.Name), Responder: responder}
	if _, err := b.Spawn(level, w.Scene); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", level.Name, err)
	}
	for _, def := range level.Cameras {
		var (
			obj *scene.GameObject
			err error
		)
		switch def.Kind {
		case "first_person":
			obj, err = w.firstPerson(b, def, viewport)
		default:
			obj, err = curveCamera(def, viewport)
		}
		if err != nil {
			return nil, fmt.Errorf("camera %q: %w", def.Name, err)
		}
		w.Scene.Add(obj)
	}
	if err := w.Scene.SetMainCameraByName(level.Cameras[0].Name); err != nil {
		return nil, err
	}
	log.Info("world built",
		zap.String("level", level.Name),
		zap.Int("objects", w.Scene.List().Len()),
		zap.Int("cameras", len(w.Scene.Cameras())),
	)
	return w, nil
}

func (w *World) firstPerson(b *prefab.Builder, def data.CameraDef, viewport graphics.Viewport) (*scene.GameObject, error) {
	obj, err := b.Instantiate(HeroArchetype, def.Name, mgl32.Vec3(def.Position), mgl32.Vec3(def.Rotation))
	if err != nil {
		return nil, err
	}
	col, ok := scene.GetComponent[*component.CharacterCollider](obj)
	if !ok {
		return nil, scene.ErrMissingCollider
	}
	if w.Responder != nil {
		col.SetResponder(w.Responder)
	} else {
		col.SetResponder(PlayerResponder)
	}
	for _, c := range []scene.Component{
		component.NewCamera(viewport),
		component.NewCollidableFirstPerson(heroJumpHeight, heroMoveSpeed, heroStrafeSpeed, heroTurnSpeed),
		component.NewFOVOnScroll(heroFOVStep),
	} {
		if _, err := obj.AddComponent(c); err != nil {
			return nil, err
		}
	}
	if w.Hero == nil {
		w.Hero = obj
	}
	return obj, nil
}

func curveCamera(def data.CameraDef, viewport graphics.Viewport) (*scene.GameObject, error) {
	obj := scene.NewGameObject(def.Name, scene.TypeCamera)
	obj.Transform().SetRotation(mgl32.Vec3(def.Rotation))
	obj.Transform().SetTranslation(mgl32.Vec3(def.Position))
	if _, err := obj.AddComponent(component.NewCamera(viewport)); err != nil {
		return nil, err
	}
	if len(def.Keyframes) == 0 {
		return obj, nil
	}
	path := component.NewCurve3D(component.LoopCycle)
	for _, k := range def.Keyframes {
		path.Add(mgl32.Vec3(k.Value), k.TimeMs)
	}
	if _, err := obj.AddComponent(component.NewCurve(path)); err != nil {
		return nil, err
	}
	return obj, nil
}
