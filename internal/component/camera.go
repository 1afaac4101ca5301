package component

import (
	"math"

	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects the camera's projection.
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

const (
	DefaultFieldOfView = math.Pi / 4
	DefaultAspectRatio = 1.6
	DefaultNearClip    = 1
	DefaultFarClip     = 1000

	fallbackFieldOfView = math.Pi / 8
	minNearClip         = 1
	minFarClip          = 10
)

// Camera provides view and projection matrices. Both are cached and
// rebuilt lazily: the view when the owner's transform changes, the
// projection when a lens setting changes.
type Camera struct {
	scene.BaseComponent

	viewport   graphics.Viewport
	projType   ProjectionType
	fov        float32
	aspect     float32
	near       float32
	far        float32
	drawDepth  int
	up         mgl32.Vec3
	view       mgl32.Mat4
	projection mgl32.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a perspective camera with default lens settings and
// the aspect ratio of viewport.
func NewCamera(viewport graphics.Viewport) *Camera {
	c := &Camera{
		BaseComponent: scene.NewBaseComponent(),
		viewport:      viewport,
		up:            mgl32.Vec3{0, 1, 0},
		viewDirty:     true,
		projDirty:     true,
	}
	c.SetFieldOfView(DefaultFieldOfView)
	c.SetAspectRatio(viewport.AspectRatio())
	c.SetNearClip(DefaultNearClip)
	c.SetFarClip(DefaultFarClip)
	return c
}

func (c *Camera) Kind() scene.Kind { return scene.KindCamera }

func (c *Camera) Awake(owner *scene.GameObject) error {
	if err := c.BaseComponent.Awake(owner); err != nil {
		return err
	}
	t := c.Transform()
	t.OnChanged(func() {
		if c.Transform() == t {
			c.viewDirty = true
		}
	})
	c.viewDirty = true
	return nil
}

func (c *Camera) Viewport() graphics.Viewport    { return c.viewport }
func (c *Camera) ProjectionType() ProjectionType { return c.projType }
func (c *Camera) FieldOfView() float32           { return c.fov }
func (c *Camera) AspectRatio() float32           { return c.aspect }
func (c *Camera) NearClip() float32              { return c.near }
func (c *Camera) FarClip() float32               { return c.far }
func (c *Camera) DrawDepth() int                 { return c.drawDepth }
func (c *Camera) SetDrawDepth(d int)             { c.drawDepth = d }

func (c *Camera) SetViewport(v graphics.Viewport) {
	c.viewport = v
	c.projDirty = true
}

func (c *Camera) SetProjectionType(p ProjectionType) {
	c.projType = p
	c.projDirty = true
}

// SetFieldOfView takes radians; values outside (0, π) fall back to π/8.
func (c *Camera) SetFieldOfView(rad float32) {
	if rad <= 0 || rad >= math.Pi {
		rad = fallbackFieldOfView
	}
	c.fov = rad
	c.projDirty = true
}

// SetAspectRatio replaces non-positive ratios with the default.
func (c *Camera) SetAspectRatio(r float32) {
	if r <= 0 {
		r = DefaultAspectRatio
	}
	c.aspect = r
	c.projDirty = true
}

func (c *Camera) SetNearClip(d float32) {
	if d < minNearClip {
		d = minNearClip
	}
	c.near = d
	c.projDirty = true
}

func (c *Camera) SetFarClip(d float32) {
	if d < minFarClip {
		d = minFarClip
	}
	c.far = d
	c.projDirty = true
}

// View looks from the owner's translation along its rotated -Z axis.
func (c *Camera) View() mgl32.Mat4 {
	if !c.viewDirty {
		return c.view
	}
	t := c.Transform()
	if t == nil {
		return mgl32.Ident4()
	}
	eye := t.LocalTranslation()
	look := t.RotationMatrix().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	c.view = mgl32.LookAtV(eye, eye.Add(look), c.up)
	c.viewDirty = false
	return c.view
}

func (c *Camera) Projection() mgl32.Mat4 {
	if !c.projDirty {
		return c.projection
	}
	switch c.projType {
	case Orthographic:
		w, h := float32(c.viewport.Width)/2, float32(c.viewport.Height)/2
		c.projection = mgl32.Ortho(-w, w, -h, h, c.near, c.far)
	default:
		c.projection = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	}
	c.projDirty = false
	return c.projection
}

func (c *Camera) Clone() scene.Component {
	d := NewCamera(c.viewport)
	d.BaseComponent = c.CloneBase()
	d.projType = c.projType
	d.fov, d.aspect, d.near, d.far = c.fov, c.aspect, c.near, c.far
	d.drawDepth = c.drawDepth
	d.up = c.up
	return d
}
