package input

import "github.com/go-gl/mathgl/mgl32"

// Key is a device-independent key code.
type Key int

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyC
	KeyP
	KeyO
	KeyQ
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
	KeyF1
	KeyF2
	keyCount
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	mouseButtonCount
)

// Snapshot is the raw device state sampled for one tick.
type Snapshot struct {
	Keys     []Key
	Buttons  []MouseButton
	Position mgl32.Vec2
	Scroll   int
}

// State holds the current and previous tick's input so callers can detect
// edges (just pressed / just released). One State lives in the frame context.
type State struct {
	keys, prevKeys       [keyCount]bool
	buttons, prevButtons [mouseButtonCount]bool
	position, prevPos    mgl32.Vec2
	scroll, prevScroll   int
	positionValid        bool
}

func NewState() *State {
	return &State{}
}

// Apply rotates current→previous and loads s as the current state.
func (st *State) Apply(s Snapshot) {
	st.prevKeys = st.keys
	st.prevButtons = st.buttons
	st.prevPos = st.position
	st.prevScroll = st.scroll

	st.keys = [keyCount]bool{}
	for _, k := range s.Keys {
		if k > KeyNone && k < keyCount {
			st.keys[k] = true
		}
	}
	st.buttons = [mouseButtonCount]bool{}
	for _, b := range s.Buttons {
		if b >= 0 && b < mouseButtonCount {
			st.buttons[b] = true
		}
	}
	if !st.positionValid {
		st.prevPos = s.Position
		st.positionValid = true
	}
	st.position = s.Position
	st.scroll += s.Scroll
}

func (st *State) IsPressed(k Key) bool {
	return k > KeyNone && k < keyCount && st.keys[k]
}

func (st *State) WasJustPressed(k Key) bool {
	return st.IsPressed(k) && !st.prevKeys[k]
}

func (st *State) WasJustReleased(k Key) bool {
	return k > KeyNone && k < keyCount && !st.keys[k] && st.prevKeys[k]
}

// IsAnyPressed reports whether any key is held.
func (st *State) IsAnyPressed() bool {
	for _, down := range st.keys {
		if down {
			return true
		}
	}
	return false
}

func (st *State) IsButtonPressed(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && st.buttons[b]
}

func (st *State) WasJustClicked(b MouseButton) bool {
	return st.IsButtonPressed(b) && !st.prevButtons[b]
}

func (st *State) Position() mgl32.Vec2 { return st.position }

// Delta is the mouse movement since the previous tick.
func (st *State) Delta() mgl32.Vec2 { return st.position.Sub(st.prevPos) }

// ScrollWheel is the accumulated wheel value; ScrollDelta is this tick's change.
func (st *State) ScrollWheel() int { return st.scroll }
func (st *State) ScrollDelta() int { return st.scroll - st.prevScroll }
