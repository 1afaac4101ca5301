package component

import (
	"math"

	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ownerMaterial returns the material of the first renderer on owner.
func ownerMaterial(owner *scene.GameObject) (*graphics.Material, error) {
	r, ok := scene.GetComponent[scene.Renderer](owner)
	if !ok || r.Material() == nil {
		return nil, scene.ErrMissingRenderer
	}
	return r.Material(), nil
}

// oscillation maps total time onto [0, 1] with a sine wave of the given
// speed in degrees per millisecond.
func oscillation(ctx *frame.Context, speed float32) float32 {
	rad := float64(mgl32.DegToRad(speed * ctx.Time.TotalMs()))
	return float32(math.Sin(rad))*0.5 + 0.5
}

func unitOrOne(v float32) float32 {
	if v < 0 || v > 1 {
		return 1
	}
	return v
}

func positiveOrOne(v float32) float32 {
	if v <= 0 {
		return 1
	}
	return v
}

// AlphaLerp oscillates the owner's material alpha between two values.
type AlphaLerp struct {
	scene.BaseComponent
	start, end, speed float32
	material          *graphics.Material
}

// NewAlphaLerp takes start and end alpha in [0, 1] (others become 1) and a
// positive speed (others become 1).
func NewAlphaLerp(start, end, speed float32) *AlphaLerp {
	return &AlphaLerp{
		BaseComponent: scene.NewBaseComponent(),
		start:         unitOrOne(start),
		end:           unitOrOne(end),
		speed:         positiveOrOne(speed),
	}
}

func (b *AlphaLerp) Kind() scene.Kind { return scene.KindBehaviour }

func (b *AlphaLerp) Awake(owner *scene.GameObject) error {
	if err := b.BaseComponent.Awake(owner); err != nil {
		return err
	}
	m, err := ownerMaterial(owner)
	if err != nil {
		return err
	}
	b.material = m
	return nil
}

func (b *AlphaLerp) Update(ctx *frame.Context) {
	f := oscillation(ctx, b.speed)
	b.material.SetAlpha(mgl32.Clamp(b.start+(b.end-b.start)*f, 0, 1))
}

func (b *AlphaLerp) Clone() scene.Component {
	d := NewAlphaLerp(b.start, b.end, b.speed)
	d.BaseComponent = b.CloneBase()
	return d
}

// ColorLerp oscillates the owner's diffuse colour between two colours.
type ColorLerp struct {
	scene.BaseComponent
	start, end mgl32.Vec3
	speed      float32
	material   *graphics.Material
}

func NewColorLerp(start, end mgl32.Vec3, speed float32) *ColorLerp {
	return &ColorLerp{
		BaseComponent: scene.NewBaseComponent(),
		start:         start,
		end:           end,
		speed:         positiveOrOne(speed),
	}
}

func (b *ColorLerp) Kind() scene.Kind { return scene.KindBehaviour }

func (b *ColorLerp) Awake(owner *scene.GameObject) error {
	if err := b.BaseComponent.Awake(owner); err != nil {
		return err
	}
	m, err := ownerMaterial(owner)
	if err != nil {
		return err
	}
	b.material = m
	return nil
}

func (b *ColorLerp) Update(ctx *frame.Context) {
	f := oscillation(ctx, b.speed)
	b.material.SetDiffuseColor(b.start.Add(b.end.Sub(b.start).Mul(f)))
}

func (b *ColorLerp) Clone() scene.Component {
	d := NewColorLerp(b.start, b.end, b.speed)
	d.BaseComponent = b.CloneBase()
	return d
}

// ColorChange highlights the owner when a MaterialChange/OnMouseClick
// event names it, and restores its colour when another object is named.
type ColorChange struct {
	scene.BaseComponent
	bus       *event.Bus
	highlight mgl32.Vec3
	original  mgl32.Vec3
	alpha     float32
	material  *graphics.Material
	sub       event.Subscription
	subbed    bool
}

// HighlightRed is the default highlight colour.
var HighlightRed = mgl32.Vec3{1, 0, 0}

func NewColorChange(bus *event.Bus, highlight mgl32.Vec3) *ColorChange {
	return &ColorChange{BaseComponent: scene.NewBaseComponent(), bus: bus, highlight: highlight}
}

func (b *ColorChange) Kind() scene.Kind { return scene.KindBehaviour }

func (b *ColorChange) Awake(owner *scene.GameObject) error {
	if err := b.BaseComponent.Awake(owner); err != nil {
		return err
	}
	m, err := ownerMaterial(owner)
	if err != nil {
		return err
	}
	b.material = m
	b.original, b.alpha = m.DiffuseColor(), m.Alpha()
	if b.bus != nil {
		b.sub = b.bus.Subscribe(event.CategoryMaterialChange, b.handle)
		b.subbed = true
	}
	return nil
}

func (b *ColorChange) handle(d event.Data) {
	if d.Action != event.OnMouseClick || b.Owner() == nil {
		return
	}
	name, ok := d.StringParam(0)
	if !ok {
		return
	}
	if name == b.Owner().Name() {
		b.material.SetDiffuseColor(b.highlight)
		return
	}
	b.material.SetDiffuseColor(b.original)
	b.material.SetAlpha(b.alpha)
}

func (b *ColorChange) Dispose() {
	if b.subbed {
		b.bus.Unsubscribe(b.sub)
		b.subbed = false
	}
}

func (b *ColorChange) Clone() scene.Component {
	d := NewColorChange(b.bus, b.highlight)
	d.BaseComponent = b.CloneBase()
	return d
}

// Curve moves the owner along a keyframed path.
type Curve struct {
	scene.BaseComponent
	curve     *Curve3D
	precision int
}

// CurvePrecision is the number of decimals positions are rounded to.
const CurvePrecision = 2

func NewCurve(curve *Curve3D) *Curve {
	return &Curve{BaseComponent: scene.NewBaseComponent(), curve: curve, precision: CurvePrecision}
}

func (b *Curve) Kind() scene.Kind  { return scene.KindBehaviour }
func (b *Curve) Curve3D() *Curve3D { return b.curve }

func (b *Curve) Update(ctx *frame.Context) {
	if b.curve == nil || b.curve.Len() == 0 {
		return
	}
	b.Transform().SetTranslation(b.curve.Evaluate(ctx.Time.TotalMs(), b.precision))
}

func (b *Curve) Clone() scene.Component {
	var c *Curve3D
	if b.curve != nil {
		c = b.curve.Clone()
	}
	d := NewCurve(c)
	d.BaseComponent = b.CloneBase()
	d.precision = b.precision
	return d
}
