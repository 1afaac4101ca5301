package scene

import (
	"fmt"

	"github.com/gd3/engine/internal/core/ecs"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
)

// Scene is a GameObject that owns a GameObjectList. Components attached to
// the scene itself update before the objects it contains.
type Scene struct {
	GameObject

	list       *GameObjectList
	cycleIndex int
}

func NewScene(name string) *Scene {
	s := &Scene{list: NewGameObjectList()}
	s.init(name, TypeScene)
	return s
}

func (s *Scene) List() *GameObjectList { return s.list }

func (s *Scene) Renderers() []Renderer           { return s.list.Renderers() }
func (s *Scene) Colliders() []Collider           { return s.list.Colliders() }
func (s *Scene) Cameras() []Camera               { return s.list.Cameras() }
func (s *Scene) Materials() []*graphics.Material { return s.list.Materials() }
func (s *Scene) Controllers() []Component        { return s.list.Controllers() }
func (s *Scene) Behaviours() []Component         { return s.list.Behaviours() }
func (s *Scene) MainCamera() Camera              { return s.list.MainCamera() }

// Update runs the scene's own components, then every enabled object.
func (s *Scene) Update(ctx *frame.Context) {
	s.GameObject.Update(ctx)
	s.list.Update(ctx)
}

// Unload disposes every object in the scene.
func (s *Scene) Unload() {
	s.list.Unload()
	s.cycleIndex = 0
}

func (s *Scene) Add(obj *GameObject)         { s.list.Add(s, obj) }
func (s *Scene) Remove(obj *GameObject) bool { return s.list.Remove(obj) }

func (s *Scene) Find(pred func(*GameObject) bool) *GameObject {
	return s.list.Find(pred)
}

func (s *Scene) FindAll(pred func(*GameObject) bool) []*GameObject {
	return s.list.FindAll(pred)
}

func (s *Scene) FindByName(name string) *GameObject {
	return s.list.Find(func(o *GameObject) bool { return o.Name() == name })
}

func (s *Scene) Lookup(h ecs.EntityID) (*GameObject, bool) {
	return s.list.Lookup(h)
}

// SetMainCamera makes the camera on the first object matching pred the
// scene's main camera.
func (s *Scene) SetMainCamera(pred func(*GameObject) bool) error {
	obj := s.list.Find(pred)
	if obj == nil {
		return fmt.Errorf("set main camera in %s: %w", s.Name(), ErrCameraNotFound)
	}
	cam, ok := GetComponent[Camera](obj)
	if !ok {
		return fmt.Errorf("set main camera to %s: %w", obj.Name(), ErrCameraNotFound)
	}
	s.list.SetMainCamera(cam)
	for i, c := range s.list.cameras {
		if c == cam {
			s.cycleIndex = i
		}
	}
	return nil
}

func (s *Scene) SetMainCameraByName(name string) error {
	return s.SetMainCamera(func(o *GameObject) bool { return o.Name() == name })
}

// CycleCameras makes the next indexed camera main, wrapping to the first.
// It returns nil when the scene has no cameras.
func (s *Scene) CycleCameras() Camera {
	cams := s.list.Cameras()
	if len(cams) == 0 {
		return nil
	}
	if s.cycleIndex < len(cams)-1 {
		s.cycleIndex++
	} else {
		s.cycleIndex = 0
	}
	s.list.SetMainCamera(cams[s.cycleIndex])
	return cams[s.cycleIndex]
}
