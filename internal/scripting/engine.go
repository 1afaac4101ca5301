package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scripted game logic.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	// behaviour scripts register themselves here by name
	vm.SetGlobal("behaviours", vm.NewTable())

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "behaviour"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine's VM.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// BehaviourInput is the per-tick state handed to a behaviour script.
type BehaviourInput struct {
	Object      string
	TotalMs     float32
	DeltaMs     float32
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
	Params      map[string]float64
}

// BehaviourOutput holds whichever transform fields the script returned.
type BehaviourOutput struct {
	Translation    mgl32.Vec3
	Rotation       mgl32.Vec3
	Scale          mgl32.Vec3
	HasTranslation bool
	HasRotation    bool
	HasScale       bool
}

// HasBehaviour reports whether a script registered behaviours[name].
func (e *Engine) HasBehaviour(name string) bool {
	return e.behaviour(name) != lua.LNil
}

func (e *Engine) behaviour(name string) lua.LValue {
	reg, ok := e.vm.GetGlobal("behaviours").(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	return reg.RawGetString(name)
}

// RunBehaviour calls behaviours[name](ctx). Errors are logged and yield
// an empty output, leaving the object unchanged.
func (e *Engine) RunBehaviour(name string, in BehaviourInput) BehaviourOutput {
	fn := e.behaviour(name)
	if fn == lua.LNil {
		e.log.Error("lua behaviour not found", zap.String("name", name))
		return BehaviourOutput{}
	}

	t := e.vm.NewTable()
	t.RawSetString("object", lua.LString(in.Object))
	t.RawSetString("total_ms", lua.LNumber(in.TotalMs))
	t.RawSetString("delta_ms", lua.LNumber(in.DeltaMs))
	t.RawSetString("translation", e.vec3(in.Translation))
	t.RawSetString("rotation", e.vec3(in.Rotation))
	t.RawSetString("scale", e.vec3(in.Scale))

	params := e.vm.NewTable()
	for k, v := range in.Params {
		params.RawSetString(k, lua.LNumber(v))
	}
	t.RawSetString("params", params)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behaviour error", zap.String("name", name), zap.Error(err))
		return BehaviourOutput{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return BehaviourOutput{}
	}

	var out BehaviourOutput
	out.Translation, out.HasTranslation = lVec3(rt, "translation")
	out.Rotation, out.HasRotation = lVec3(rt, "rotation")
	out.Scale, out.HasScale = lVec3(rt, "scale")
	return out
}

// GameState is the verdict of the game state script.
type GameState string

const (
	StatePlaying GameState = "playing"
	StateWon     GameState = "win"
	StateLost    GameState = "lose"
)

// GameStateContext holds what the game state script judges on.
type GameStateContext struct {
	Inventory []string
	Health    int
	ElapsedMs float32
}

// CheckGameState calls Lua check_game_state(ctx). A missing function or a
// script error keeps the game playing.
func (e *Engine) CheckGameState(ctx GameStateContext) GameState {
	fn := e.vm.GetGlobal("check_game_state")
	if fn == lua.LNil {
		return StatePlaying
	}

	t := e.vm.NewTable()
	inv := e.vm.NewTable()
	for i, item := range ctx.Inventory {
		inv.RawSetInt(i+1, lua.LString(item))
	}
	t.RawSetString("inventory", inv)
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("elapsed_ms", lua.LNumber(ctx.ElapsedMs))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua check_game_state error", zap.Error(err))
		return StatePlaying
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch s := GameState(lua.LVAsString(result)); s {
	case StateWon, StateLost:
		return s
	}
	return StatePlaying
}

// --- Lua helpers ---

func (e *Engine) vec3(v mgl32.Vec3) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(v.X()))
	t.RawSetString("y", lua.LNumber(v.Y()))
	t.RawSetString("z", lua.LNumber(v.Z()))
	return t
}

// lVec3 reads an {x, y, z} table field. Missing axes read as zero.
func lVec3(t *lua.LTable, key string) (mgl32.Vec3, bool) {
	v, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{lFloat(v, "x"), lFloat(v, "y"), lFloat(v, "z")}, true
}

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float32 {
	return float32(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
