package scene

import "github.com/go-gl/mathgl/mgl32"

// TransformState is the saved local SRT of one named object.
type TransformState struct {
	Object      string
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
}

// CaptureTransforms records the local SRT of every object in the scene,
// persistent objects first.
func (s *Scene) CaptureTransforms() []TransformState {
	out := make([]TransformState, 0, s.list.Len())
	s.list.Each(func(o *GameObject) {
		t := o.Transform()
		out = append(out, TransformState{
			Object:      o.Name(),
			Translation: t.LocalTranslation(),
			Rotation:    t.LocalRotation(),
			Scale:       t.LocalScale(),
		})
	})
	return out
}

// ApplyTransforms writes each state to the first object with the same
// name, and teleports its collider body if it has one. It returns the
// number of states applied; states naming absent objects are skipped.
func (s *Scene) ApplyTransforms(states []TransformState) int {
	n := 0
	for _, st := range states {
		o := s.FindByName(st.Object)
		if o == nil {
			continue
		}
		t := o.Transform()
		t.SetScale(st.Scale)
		t.SetRotation(st.Rotation)
		t.SetTranslation(st.Translation)
		if c, ok := GetComponent[Collider](o); ok && c.Body() != nil {
			c.Body().MoveTo(st.Translation, t.RotationMatrix())
		}
		n++
	}
	return n
}
