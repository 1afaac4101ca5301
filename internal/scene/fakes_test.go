package scene

import (
	"time"

	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/graphics"
	"github.com/gd3/engine/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type tracker struct {
	BaseComponent
	kind    Kind
	awakes  int
	starts  int
	updates int
	trace   *[]string
	label   string
	onTick  func(ctx *frame.Context)
}

func newTracker(kind Kind, label string, trace *[]string) *tracker {
	return &tracker{BaseComponent: NewBaseComponent(), kind: kind, label: label, trace: trace}
}

func (p *tracker) Kind() Kind { return p.kind }

func (p *tracker) Awake(owner *GameObject) error {
	p.awakes++
	return p.BaseComponent.Awake(owner)
}

func (p *tracker) Start() {
	p.starts++
	if p.trace != nil {
		*p.trace = append(*p.trace, p.label)
	}
	p.BaseComponent.Start()
}

func (p *tracker) Update(ctx *frame.Context) {
	p.updates++
	if p.onTick != nil {
		p.onTick(ctx)
	}
}

func (p *tracker) Clone() Component {
	c := newTracker(p.kind, p.label, p.trace)
	c.BaseComponent = p.CloneBase()
	return c
}

type fakeRenderer struct {
	BaseComponent
	material *graphics.Material
}

func newFakeRenderer(alpha float32) *fakeRenderer {
	return &fakeRenderer{
		BaseComponent: NewBaseComponent(),
		material:      graphics.NewMaterial("m", nil, mgl32.Vec3{1, 1, 1}, alpha, nil),
	}
}

func (r *fakeRenderer) Kind() Kind                   { return KindRenderer }
func (r *fakeRenderer) Material() *graphics.Material { return r.material }
func (r *fakeRenderer) WorldMatrix() mgl32.Mat4      { return r.Transform().WorldMatrix() }
func (r *fakeRenderer) Draw(graphics.Device)         {}

func (r *fakeRenderer) Clone() Component {
	return &fakeRenderer{BaseComponent: r.CloneBase(), material: r.material.Clone()}
}

type fakeCamera struct {
	BaseComponent
	depth int
}

func newFakeCamera(depth int) *fakeCamera {
	return &fakeCamera{BaseComponent: NewBaseComponent(), depth: depth}
}

func (c *fakeCamera) Kind() Kind             { return KindCamera }
func (c *fakeCamera) DrawDepth() int         { return c.depth }
func (c *fakeCamera) View() mgl32.Mat4       { return mgl32.Ident4() }
func (c *fakeCamera) Projection() mgl32.Mat4 { return mgl32.Ident4() }
func (c *fakeCamera) Clone() Component       { return newFakeCamera(c.depth) }

type fakeCollider struct {
	BaseComponent
	body *physics.Body
}

func newFakeCollider() *fakeCollider {
	return &fakeCollider{BaseComponent: NewBaseComponent(), body: physics.NewBody()}
}

func (c *fakeCollider) Kind() Kind          { return KindCollider }
func (c *fakeCollider) Body() *physics.Body { return c.body }
func (c *fakeCollider) Clone() Component    { return newFakeCollider() }

func testContext() *frame.Context {
	return frame.NewContext(frame.Screen{Width: 80, Height: 24}).Step(16 * time.Millisecond)
}
