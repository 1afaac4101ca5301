package component

import (
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingSphere is a world-space sphere used for picking and culling.
type BoundingSphere struct {
	Centre mgl32.Vec3
	Radius float32
}

// renderer is the state shared by MeshRenderer and ModelRenderer.
type renderer struct {
	scene.BaseComponent
	material *graphics.Material
	sphere   BoundingSphere
	boxMin   mgl32.Vec3
	boxMax   mgl32.Vec3
}

func (r *renderer) Kind() scene.Kind               { return scene.KindRenderer }
func (r *renderer) Material() *graphics.Material   { return r.material }
func (r *renderer) BoundingSphere() BoundingSphere { return r.sphere }

// BoundingBox returns the local extents recorded by SetBoundingVolume.
func (r *renderer) BoundingBox() (min, max mgl32.Vec3) { return r.boxMin, r.boxMax }

// SetMaterial ignores nil.
func (r *renderer) SetMaterial(m *graphics.Material) {
	if m != nil {
		r.material = m
	}
}

func (r *renderer) WorldMatrix() mgl32.Mat4 {
	if t := r.Transform(); t != nil {
		return t.WorldMatrix()
	}
	return mgl32.Ident4()
}

func (r *renderer) setBounds(min, max mgl32.Vec3) {
	r.boxMin, r.boxMax = min, max
	d := max.Sub(min)
	r.sphere.Radius = maxComponent(d) / 2
	if t := r.Transform(); t != nil {
		r.sphere.Centre = t.LocalTranslation()
	}
}

func (r *renderer) Update(*frame.Context) {
	if t := r.Transform(); t != nil {
		r.sphere.Centre = t.LocalTranslation()
	}
}

func maxComponent(v mgl32.Vec3) float32 {
	m := v.X()
	if v.Y() > m {
		m = v.Y()
	}
	if v.Z() > m {
		m = v.Z()
	}
	return m
}

// MeshRenderer draws one shared mesh with its own material.
type MeshRenderer struct {
	renderer
	mesh *graphics.Mesh
}

func NewMeshRenderer(mesh *graphics.Mesh, material *graphics.Material) *MeshRenderer {
	return &MeshRenderer{
		renderer: renderer{BaseComponent: scene.NewBaseComponent(), material: material},
		mesh:     mesh,
	}
}

func (r *MeshRenderer) Mesh() *graphics.Mesh { return r.mesh }

func (r *MeshRenderer) SetMesh(m *graphics.Mesh) {
	if m != nil {
		r.mesh = m
	}
}

// Awake binds the renderer and sizes its bounding volume when a mesh is set.
func (r *MeshRenderer) Awake(owner *scene.GameObject) error {
	if err := r.BaseComponent.Awake(owner); err != nil {
		return err
	}
	if r.mesh != nil {
		return r.SetBoundingVolume()
	}
	return nil
}

// SetBoundingVolume recomputes the bounding box and sphere from the mesh.
func (r *MeshRenderer) SetBoundingVolume() error {
	if r.mesh == nil {
		return scene.ErrMissingMesh
	}
	r.setBounds(r.mesh.Bounds())
	return nil
}

func (r *MeshRenderer) Draw(device graphics.Device) {
	if r.mesh == nil || device == nil {
		return
	}
	device.DrawMesh(r.mesh)
}

// Clone shares the mesh and copies the material.
func (r *MeshRenderer) Clone() scene.Component {
	d := &MeshRenderer{mesh: r.mesh}
	d.BaseComponent = r.CloneBase()
	if r.material != nil {
		d.material = r.material.Clone()
	}
	d.sphere, d.boxMin, d.boxMax = r.sphere, r.boxMin, r.boxMax
	return d
}

// ModelRenderer draws every mesh of a shared model with one material.
type ModelRenderer struct {
	renderer
	model *graphics.Model
}

func NewModelRenderer(model *graphics.Model, material *graphics.Material) *ModelRenderer {
	return &ModelRenderer{
		renderer: renderer{BaseComponent: scene.NewBaseComponent(), material: material},
		model:    model,
	}
}

func (r *ModelRenderer) Model() *graphics.Model { return r.model }

func (r *ModelRenderer) SetModel(m *graphics.Model) {
	if m != nil {
		r.model = m
	}
}

func (r *ModelRenderer) Awake(owner *scene.GameObject) error {
	if err := r.BaseComponent.Awake(owner); err != nil {
		return err
	}
	if r.model != nil && len(r.model.Meshes) > 0 {
		return r.SetBoundingVolume()
	}
	return nil
}

func (r *ModelRenderer) SetBoundingVolume() error {
	if r.model == nil || len(r.model.Meshes) == 0 {
		return scene.ErrMissingMesh
	}
	r.setBounds(r.model.Bounds())
	return nil
}

func (r *ModelRenderer) Draw(device graphics.Device) {
	if r.model == nil || device == nil {
		return
	}
	for _, m := range r.model.Meshes {
		device.DrawMesh(m)
	}
}

func (r *ModelRenderer) Clone() scene.Component {
	d := &ModelRenderer{model: r.model}
	d.BaseComponent = r.CloneBase()
	if r.material != nil {
		d.material = r.material.Clone()
	}
	d.sphere, d.boxMin, d.boxMax = r.sphere, r.boxMin, r.boxMax
	return d
}
