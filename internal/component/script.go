package component

import (
	"github.com/gd3/engine/internal/core/frame"
	"github.com/gd3/engine/internal/scene"
	"github.com/gd3/engine/internal/scripting"
)

// BehaviourRunner runs a named behaviour script.
type BehaviourRunner interface {
	RunBehaviour(name string, in scripting.BehaviourInput) scripting.BehaviourOutput
}

// Script hands the owner's transform to a Lua behaviour each tick and
// applies whatever the script returns.
type Script struct {
	scene.BaseComponent
	runner BehaviourRunner
	name   string
	params map[string]float64
}

func NewScript(runner BehaviourRunner, name string, params map[string]float64) *Script {
	cp := make(map[string]float64, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return &Script{BaseComponent: scene.NewBaseComponent(), runner: runner, name: name, params: cp}
}

func (s *Script) Kind() scene.Kind { return scene.KindBehaviour }
func (s *Script) Name() string     { return s.name }

func (s *Script) Update(ctx *frame.Context) {
	if s.runner == nil || ctx == nil {
		return
	}
	t := s.Transform()
	out := s.runner.RunBehaviour(s.name, scripting.BehaviourInput{
		Object:      s.Owner().Name(),
		TotalMs:     ctx.Time.TotalMs(),
		DeltaMs:     ctx.Time.DeltaMs(),
		Translation: t.LocalTranslation(),
		Rotation:    t.LocalRotation(),
		Scale:       t.LocalScale(),
		Params:      s.params,
	})
	if out.HasScale {
		t.SetScale(out.Scale)
	}
	if out.HasRotation {
		t.SetRotation(out.Rotation)
	}
	if out.HasTranslation {
		t.SetTranslation(out.Translation)
	}
}

func (s *Script) Clone() scene.Component {
	d := NewScript(s.runner, s.name, s.params)
	d.BaseComponent = s.CloneBase()
	return d
}
