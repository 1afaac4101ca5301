package graphics

import "github.com/go-gl/mathgl/mgl32"

// View is what a shader needs from a camera.
type View interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
}

// Drawable is what a shader needs from a renderer.
type Drawable interface {
	WorldMatrix() mgl32.Mat4
	Material() *Material
}

// Shader runs a two-phase protocol: PrePass once per camera, then Pass per
// drawable before the drawable's draw call.
type Shader interface {
	Name() string
	PrePass(v View)
	Pass(d Drawable)
}

// Device is the draw-call sink. Shaders Apply their parameter block and
// renderers then issue DrawMesh against whatever state is bound.
type Device interface {
	Apply(state ShaderState)
	DrawMesh(mesh *Mesh)
}

// ShaderState is the parameter block a shader has prepared for the next draw.
type ShaderState struct {
	World      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Diffuse    mgl32.Vec3
	Alpha      float32
	Texture    *Texture
}

// BasicShader is an unlit colour/texture shader.
type BasicShader struct {
	name   string
	device Device
	state  ShaderState
}

func NewBasicShader(name string, device Device) *BasicShader {
	return &BasicShader{name: name, device: device, state: ShaderState{
		World:      mgl32.Ident4(),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		Alpha:      1,
	}}
}

func (s *BasicShader) Name() string { return s.name }

func (s *BasicShader) PrePass(v View) {
	s.state.View = v.View()
	s.state.Projection = v.Projection()
}

func (s *BasicShader) Pass(d Drawable) {
	s.state.World = d.WorldMatrix()
	if m := d.Material(); m != nil {
		s.state.Diffuse = m.DiffuseColor()
		s.state.Alpha = m.Alpha()
		s.state.Texture = m.Texture()
	}
	if s.device != nil {
		s.device.Apply(s.state)
	}
}

// State returns the parameters set by the last PrePass/Pass.
func (s *BasicShader) State() ShaderState { return s.state }

// Viewport is a screen rectangle in pixels.
type Viewport struct {
	X, Y          int
	Width, Height int
}

func (v Viewport) AspectRatio() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
