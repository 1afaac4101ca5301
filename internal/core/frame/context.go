// Package frame carries the per-tick state handed to every Update call:
// clock, input snapshot and screen metrics.
package frame

import (
	"time"

	"github.com/gd3/engine/internal/input"
	"github.com/go-gl/mathgl/mgl32"
)

// Time tracks elapsed game time. Scaled values honour TimeScale; unscaled
// values are wall-clock deltas as fed to Advance.
type Time struct {
	scale         float32
	delta         time.Duration
	unscaledDelta time.Duration
	total         time.Duration
	unscaledTotal time.Duration
	frames        int64
}

func NewTime() Time {
	return Time{scale: 1}
}

// Advance moves the clock forward by one frame of the given wall duration.
func (t *Time) Advance(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	t.unscaledDelta = elapsed
	t.unscaledTotal += elapsed
	t.delta = time.Duration(float64(elapsed) * float64(t.scale))
	t.total += t.delta
	t.frames++
}

func (t *Time) SetTimeScale(s float32) {
	if s < 0 {
		s = 0
	}
	t.scale = s
}

func (t Time) TimeScale() float32       { return t.scale }
func (t Time) Delta() time.Duration     { return t.delta }
func (t Time) Total() time.Duration     { return t.total }
func (t Time) Frames() int64            { return t.frames }
func (t Time) DeltaMs() float32         { return float32(t.delta.Seconds() * 1000) }
func (t Time) TotalMs() float32         { return float32(t.total.Seconds() * 1000) }
func (t Time) DeltaSeconds() float32    { return float32(t.delta.Seconds()) }
func (t Time) UnscaledDeltaMs() float32 { return float32(t.unscaledDelta.Seconds() * 1000) }
func (t Time) UnscaledTotalMs() float32 { return float32(t.unscaledTotal.Seconds() * 1000) }

func (t Time) UnscaledDelta() time.Duration { return t.unscaledDelta }

// Screen describes the output surface.
type Screen struct {
	Width  int
	Height int
}

func (s Screen) AspectRatio() float32 {
	if s.Height == 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

func (s Screen) Centre() mgl32.Vec2 {
	return mgl32.Vec2{float32(s.Width) / 2, float32(s.Height) / 2}
}

// Context is threaded through every system and component Update.
type Context struct {
	Time   Time
	Input  *input.State
	Screen Screen
}

func NewContext(screen Screen) *Context {
	return &Context{
		Time:   NewTime(),
		Input:  input.NewState(),
		Screen: screen,
	}
}

// Step advances the clock by elapsed and returns the context for chaining.
func (c *Context) Step(elapsed time.Duration) *Context {
	c.Time.Advance(elapsed)
	return c
}
