package scene

import (
	"sort"

	"github.com/gd3/engine/internal/core/ecs"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
)

// GameObjectList holds a scene's objects in a persistent and a dynamic
// partition, and keeps typed indices of the components of its enabled
// objects. Each object in the list has a handle from the list's arena.
type GameObjectList struct {
	arena      *ecs.Arena[GameObject]
	persistent []*GameObject
	dynamic    []*GameObject

	renderers   []Renderer
	colliders   []Collider
	cameras     []Camera
	materials   []*graphics.Material
	controllers []Component
	behaviours  []Component
	main        Camera

	alphaSeen uint64
	sorts     int
}

func NewGameObjectList() *GameObjectList {
	return &GameObjectList{
		arena:       ecs.NewArena[GameObject](),
		persistent:  make([]*GameObject, 0, 20),
		dynamic:     make([]*GameObject, 0, 10),
		renderers:   make([]Renderer, 0, 20),
		colliders:   make([]Collider, 0, 20),
		cameras:     make([]Camera, 0, 5),
		materials:   make([]*graphics.Material, 0, 5),
		controllers: make([]Component, 0, 20),
		behaviours:  make([]Component, 0, 20),
		alphaSeen:   graphics.AlphaVersion(),
	}
}

func (l *GameObjectList) Renderers() []Renderer           { return l.renderers }
func (l *GameObjectList) Colliders() []Collider           { return l.colliders }
func (l *GameObjectList) Cameras() []Camera               { return l.cameras }
func (l *GameObjectList) Materials() []*graphics.Material { return l.materials }
func (l *GameObjectList) Controllers() []Component        { return l.controllers }
func (l *GameObjectList) Behaviours() []Component         { return l.behaviours }
func (l *GameObjectList) MainCamera() Camera              { return l.main }
func (l *GameObjectList) SetMainCamera(c Camera)          { l.main = c }

// SortCount is the number of alpha re-sorts Update has performed.
func (l *GameObjectList) SortCount() int { return l.sorts }

// Len returns the number of objects in both partitions.
func (l *GameObjectList) Len() int { return len(l.persistent) + len(l.dynamic) }

// Add puts obj in the partition matching its persistence flag, assigns it
// a handle, indexes its components if it is enabled and initializes it if
// it is not yet running. Adding an object already in the list does nothing.
func (l *GameObjectList) Add(s *Scene, obj *GameObject) {
	if obj == nil || (obj.scene == s && l.arena.Alive(obj.handle)) {
		return
	}
	if obj.scene != nil && obj.scene != s {
		obj.scene.Remove(obj)
	}
	if obj.persistent {
		l.persistent = append(l.persistent, obj)
	} else {
		l.dynamic = append(l.dynamic, obj)
	}
	obj.scene = s
	obj.handle = l.arena.Insert(obj)
	if obj.enabled {
		l.indexAll(obj)
	}
	if !obj.running {
		obj.Initialize()
	}
}

// Remove takes obj out of its partition and the indices and invalidates
// its handle. Removing an absent object does nothing.
func (l *GameObjectList) Remove(obj *GameObject) bool {
	if obj == nil || !l.arena.Alive(obj.handle) {
		return false
	}
	if got, _ := l.arena.Get(obj.handle); got != obj {
		return false
	}
	if !removeObject(&l.persistent, obj) && !removeObject(&l.dynamic, obj) {
		return false
	}
	l.unindexAll(obj)
	l.arena.Remove(obj.handle)
	obj.scene = nil
	obj.handle = 0
	return true
}

func removeObject(list *[]*GameObject, obj *GameObject) bool {
	for i, o := range *list {
		if o == obj {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup resolves a handle. Handles of removed objects resolve to nil.
func (l *GameObjectList) Lookup(h ecs.EntityID) (*GameObject, bool) {
	return l.arena.Get(h)
}

// Find returns the first match, searching the persistent partition first.
func (l *GameObjectList) Find(pred func(*GameObject) bool) *GameObject {
	for _, o := range l.persistent {
		if pred(o) {
			return o
		}
	}
	for _, o := range l.dynamic {
		if pred(o) {
			return o
		}
	}
	return nil
}

// FindAll returns every match from both partitions, persistent first.
func (l *GameObjectList) FindAll(pred func(*GameObject) bool) []*GameObject {
	var out []*GameObject
	for _, o := range l.persistent {
		if pred(o) {
			out = append(out, o)
		}
	}
	for _, o := range l.dynamic {
		if pred(o) {
			out = append(out, o)
		}
	}
	return out
}

// Each calls fn for every object, persistent first.
func (l *GameObjectList) Each(fn func(*GameObject)) {
	for _, o := range l.persistent {
		fn(o)
	}
	for _, o := range l.dynamic {
		fn(o)
	}
}

// Update re-sorts renderers if any material alpha changed since the last
// call, then updates enabled objects, persistent first. Objects removed
// during the pass are skipped; objects added during it wait a tick.
func (l *GameObjectList) Update(ctx *frame.Context) {
	if v := graphics.AlphaVersion(); v != l.alphaSeen {
		l.alphaSeen = v
		l.sortRenderers()
		l.sorts++
	}
	l.updatePartition(l.persistent, ctx)
	l.updatePartition(l.dynamic, ctx)
}

func (l *GameObjectList) updatePartition(objs []*GameObject, ctx *frame.Context) {
	snapshot := make([]*GameObject, len(objs))
	copy(snapshot, objs)
	for _, o := range snapshot {
		if o.enabled && l.arena.Alive(o.handle) {
			o.Update(ctx)
		}
	}
}

// Unload disposes every object and empties the list.
func (l *GameObjectList) Unload() {
	l.Each(func(o *GameObject) {
		o.Dispose()
		o.scene = nil
		o.handle = 0
	})
	l.Clear()
}

// Clear empties the partitions and indices and invalidates every handle.
func (l *GameObjectList) Clear() {
	l.arena.Reset()
	l.persistent = l.persistent[:0]
	l.dynamic = l.dynamic[:0]
	l.renderers = l.renderers[:0]
	l.colliders = l.colliders[:0]
	l.cameras = l.cameras[:0]
	l.materials = l.materials[:0]
	l.controllers = l.controllers[:0]
	l.behaviours = l.behaviours[:0]
	l.main = nil
}

func (l *GameObjectList) indexAll(obj *GameObject) {
	for _, c := range obj.components {
		l.index(c)
	}
}

func (l *GameObjectList) unindexAll(obj *GameObject) {
	for _, c := range obj.components {
		l.unindex(c)
	}
}

func (l *GameObjectList) index(c Component) {
	switch v := c.(type) {
	case Renderer:
		l.addRenderer(v)
	case Collider:
		l.colliders = addUnique(l.colliders, v)
	case Camera:
		l.addCamera(v)
	default:
		switch c.Kind() {
		case KindController:
			l.controllers = addUnique(l.controllers, c)
		case KindBehaviour:
			l.behaviours = addUnique(l.behaviours, c)
		}
	}
}

func (l *GameObjectList) unindex(c Component) {
	switch v := c.(type) {
	case Renderer:
		l.removeRenderer(v)
	case Collider:
		l.colliders, _ = removeItem(l.colliders, v)
	case Camera:
		l.removeCamera(v)
	default:
		switch c.Kind() {
		case KindController:
			l.controllers, _ = removeItem(l.controllers, c)
		case KindBehaviour:
			l.behaviours, _ = removeItem(l.behaviours, c)
		}
	}
}

func (l *GameObjectList) addRenderer(r Renderer) {
	before := len(l.renderers)
	l.renderers = addUnique(l.renderers, r)
	if len(l.renderers) == before {
		return
	}
	l.sortRenderers()
	if m := r.Material(); m != nil {
		l.materials = addUnique(l.materials, m)
	}
}

func (l *GameObjectList) removeRenderer(r Renderer) {
	var ok bool
	if l.renderers, ok = removeItem(l.renderers, r); !ok {
		return
	}
	m := r.Material()
	if m == nil {
		return
	}
	for _, other := range l.renderers {
		if other.Material() == m {
			return
		}
	}
	l.materials, _ = removeItem(l.materials, m)
}

// sortRenderers orders renderers by descending material alpha so opaque
// geometry draws before translucent geometry.
func (l *GameObjectList) sortRenderers() {
	sort.SliceStable(l.renderers, func(i, j int) bool {
		return alphaOf(l.renderers[i]) > alphaOf(l.renderers[j])
	})
}

func alphaOf(r Renderer) float32 {
	if m := r.Material(); m != nil {
		return m.Alpha()
	}
	return 1
}

func (l *GameObjectList) addCamera(c Camera) {
	before := len(l.cameras)
	l.cameras = addUnique(l.cameras, c)
	if len(l.cameras) == before {
		return
	}
	sort.SliceStable(l.cameras, func(i, j int) bool {
		return l.cameras[i].DrawDepth() < l.cameras[j].DrawDepth()
	})
	if l.main == nil {
		l.main = c
	}
}

// removeCamera drops c. If c was the main camera, the first remaining
// camera becomes main.
func (l *GameObjectList) removeCamera(c Camera) {
	var ok bool
	if l.cameras, ok = removeItem(l.cameras, c); !ok || l.main != c {
		return
	}
	l.main = nil
	if len(l.cameras) > 0 {
		l.main = l.cameras[0]
	}
}

func addUnique[T comparable](list []T, v T) []T {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func removeItem[T comparable](list []T, v T) ([]T, bool) {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
