package ui

import (
	"slices"
	"strings"

	"github.com/gd3/engine/internal/core/frame"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is a named, layered set of UI objects.
type Scene struct {
	name    string
	objects []*Object
}

func NewScene(name string) *Scene {
	return &Scene{name: strings.TrimSpace(name)}
}

func (s *Scene) Name() string       { return s.name }
func (s *Scene) Objects() []*Object { return s.objects }
func (s *Scene) Len() int           { return len(s.objects) }

// Add appends obj. Adding the same object twice does nothing.
func (s *Scene) Add(obj *Object) bool {
	if obj == nil || slices.Contains(s.objects, obj) {
		return false
	}
	s.objects = append(s.objects, obj)
	return true
}

func (s *Scene) Remove(obj *Object) bool {
	i := slices.Index(s.objects, obj)
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	return true
}

func (s *Scene) Find(name string) *Object {
	for _, o := range s.objects {
		if o.name == name {
			return o
		}
	}
	return nil
}

// ObjectAt returns the top-most enabled object of the given kind covering p.
func (s *Scene) ObjectAt(p mgl32.Vec2, kind ObjectKind) *Object {
	s.sort()
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if o.enabled && o.kind == kind && o.Contains(p) {
			return o
		}
	}
	return nil
}

func (s *Scene) Update(ctx *frame.Context) {
	for _, o := range s.objects {
		if o.enabled {
			o.Update(ctx)
		}
	}
}

// Draw paints objects back to front by layer.
func (s *Scene) Draw(canvas Canvas) {
	s.sort()
	for _, o := range s.objects {
		o.Draw(canvas)
	}
}

// sort orders objects back to front by layer.
func (s *Scene) sort() {
	slices.SortStableFunc(s.objects, func(a, b *Object) int {
		switch {
		case a.Layer < b.Layer:
			return -1
		case a.Layer > b.Layer:
			return 1
		}
		return 0
	})
}

// Unload disposes every object and empties the scene.
func (s *Scene) Unload() {
	for _, o := range s.objects {
		o.Dispose()
	}
	s.objects = nil
}
