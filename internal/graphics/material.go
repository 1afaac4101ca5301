package graphics

import (
	"strings"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// alphaVersion bumps whenever any material's alpha changes. Scene lists
// compare it once per tick to decide whether their renderers need re-sorting.
var alphaVersion atomic.Uint64

// AlphaVersion returns the current alpha change counter.
func AlphaVersion() uint64 { return alphaVersion.Load() }

// Texture is an opaque shared image resource.
type Texture struct {
	Name   string
	Width  int
	Height int
}

// Material pairs a shader with the surface parameters it consumes.
type Material struct {
	name    string
	alpha   float32
	shader  Shader
	diffuse mgl32.Vec3
	texture *Texture
}

// NewMaterial builds a material. Alpha outside [0,1] is stored as 1.
func NewMaterial(name string, shader Shader, diffuse mgl32.Vec3, alpha float32, texture *Texture) *Material {
	m := &Material{
		name:    strings.TrimSpace(name),
		shader:  shader,
		diffuse: diffuse,
		texture: texture,
	}
	m.alpha = clampAlpha(alpha)
	return m
}

func clampAlpha(a float32) float32 {
	if a < 0 || a > 1 {
		return 1
	}
	return a
}

func (m *Material) Name() string { return m.name }

func (m *Material) SetName(name string) { m.name = strings.TrimSpace(name) }

func (m *Material) Alpha() float32 { return m.alpha }

// SetAlpha stores the clamped value and bumps the alpha version if it changed.
func (m *Material) SetAlpha(a float32) {
	a = clampAlpha(a)
	if a == m.alpha {
		return
	}
	m.alpha = a
	alphaVersion.Add(1)
}

func (m *Material) Shader() Shader           { return m.shader }
func (m *Material) SetShader(s Shader)       { m.shader = s }
func (m *Material) DiffuseColor() mgl32.Vec3 { return m.diffuse }

func (m *Material) SetDiffuseColor(c mgl32.Vec3) { m.diffuse = c }

func (m *Material) Texture() *Texture     { return m.texture }
func (m *Material) SetTexture(t *Texture) { m.texture = t }

// Clone copies the surface parameters. Shader and texture are shared.
func (m *Material) Clone() *Material {
	return &Material{
		name:    "Clone - " + m.name,
		alpha:   m.alpha,
		shader:  m.shader,
		diffuse: m.diffuse,
		texture: m.texture,
	}
}
