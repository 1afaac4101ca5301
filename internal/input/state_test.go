package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestStateEdges(t *testing.T) {
	st := NewState()

	st.Apply(Snapshot{Keys: []Key{KeyW}})
	assert.True(t, st.IsPressed(KeyW))
	assert.True(t, st.WasJustPressed(KeyW))
	assert.False(t, st.WasJustReleased(KeyW))

	st.Apply(Snapshot{Keys: []Key{KeyW, KeySpace}})
	assert.True(t, st.IsPressed(KeyW))
	assert.False(t, st.WasJustPressed(KeyW), "held, not just pressed")
	assert.True(t, st.WasJustPressed(KeySpace))

	st.Apply(Snapshot{})
	assert.False(t, st.IsPressed(KeyW))
	assert.True(t, st.WasJustReleased(KeyW))
	assert.False(t, st.IsAnyPressed())

	assert.False(t, st.IsPressed(KeyNone))
	assert.False(t, st.IsPressed(Key(999)))
}

func TestStateMouse(t *testing.T) {
	st := NewState()

	st.Apply(Snapshot{Position: mgl32.Vec2{10, 10}})
	assert.Equal(t, mgl32.Vec2{0, 0}, st.Delta(), "first sample has no delta")

	st.Apply(Snapshot{Position: mgl32.Vec2{13, 8}, Buttons: []MouseButton{MouseLeft}, Scroll: 2})
	assert.Equal(t, mgl32.Vec2{3, -2}, st.Delta())
	assert.True(t, st.WasJustClicked(MouseLeft))
	assert.Equal(t, 2, st.ScrollDelta())
	assert.Equal(t, 2, st.ScrollWheel())

	st.Apply(Snapshot{Position: mgl32.Vec2{13, 8}, Buttons: []MouseButton{MouseLeft}, Scroll: -1})
	assert.False(t, st.WasJustClicked(MouseLeft))
	assert.True(t, st.IsButtonPressed(MouseLeft))
	assert.Equal(t, -1, st.ScrollDelta())
	assert.Equal(t, 1, st.ScrollWheel())
}

func TestScriptedSource(t *testing.T) {
	src := NewScriptedSource(
		Snapshot{Keys: []Key{KeyP}, Position: mgl32.Vec2{4, 4}},
	)
	assert.Equal(t, []Key{KeyP}, src.Poll().Keys)

	idle := src.Poll()
	assert.Empty(t, idle.Keys)
	assert.Equal(t, mgl32.Vec2{4, 4}, idle.Position)

	src.Push(Snapshot{Keys: []Key{KeyO}})
	assert.Equal(t, []Key{KeyO}, src.Poll().Keys)
}
