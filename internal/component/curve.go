package component

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// CurveLoopType decides how a curve is evaluated outside its key range.
type CurveLoopType int

const (
	// LoopConstant holds the first or last key value.
	LoopConstant CurveLoopType = iota
	// LoopCycle wraps time around the key range.
	LoopCycle
	// LoopOscillate plays the key range forwards then backwards.
	LoopOscillate
)

// Keyframe is a value at a time in milliseconds.
type Keyframe struct {
	Value  mgl32.Vec3
	TimeMs float32
}

// Curve3D interpolates a vector between keyframes. Between two keys the
// value is Catmull-Rom smoothed using the neighbouring keys as tangents.
type Curve3D struct {
	loop CurveLoopType
	keys []Keyframe
}

func NewCurve3D(loop CurveLoopType) *Curve3D {
	return &Curve3D{loop: loop}
}

func (c *Curve3D) LoopType() CurveLoopType { return c.loop }
func (c *Curve3D) Len() int                { return len(c.keys) }

// Add inserts a key keeping the keys ordered by time. A key at an existing
// time replaces it.
func (c *Curve3D) Add(value mgl32.Vec3, timeMs float32) {
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].TimeMs >= timeMs })
	if i < len(c.keys) && c.keys[i].TimeMs == timeMs {
		c.keys[i].Value = value
		return
	}
	c.keys = append(c.keys, Keyframe{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = Keyframe{Value: value, TimeMs: timeMs}
}

func (c *Curve3D) Clear() { c.keys = nil }

// Evaluate returns the curve value at timeMs with each component rounded
// to precision decimal places. A curve without keys evaluates to zero.
func (c *Curve3D) Evaluate(timeMs float32, precision int) mgl32.Vec3 {
	switch len(c.keys) {
	case 0:
		return mgl32.Vec3{}
	case 1:
		return round(c.keys[0].Value, precision)
	}

	first, last := c.keys[0].TimeMs, c.keys[len(c.keys)-1].TimeMs
	span := last - first
	t := timeMs
	switch c.loop {
	case LoopCycle:
		if span > 0 {
			t = first + float32(math.Mod(float64(t-first), float64(span)))
			if t < first {
				t += span
			}
		}
	case LoopOscillate:
		if span > 0 {
			p := float32(math.Mod(float64(t-first), float64(2*span)))
			if p < 0 {
				p += 2 * span
			}
			if p > span {
				p = 2*span - p
			}
			t = first + p
		}
	}
	if t <= first {
		return round(c.keys[0].Value, precision)
	}
	if t >= last {
		return round(c.keys[len(c.keys)-1].Value, precision)
	}

	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].TimeMs > t }) - 1
	k1, k2 := c.keys[i], c.keys[i+1]
	k0, k3 := k1, k2
	if i > 0 {
		k0 = c.keys[i-1]
	}
	if i+2 < len(c.keys) {
		k3 = c.keys[i+2]
	}
	u := (t - k1.TimeMs) / (k2.TimeMs - k1.TimeMs)
	return round(mgl32.Vec3{
		catmullRom(k0.Value.X(), k1.Value.X(), k2.Value.X(), k3.Value.X(), u),
		catmullRom(k0.Value.Y(), k1.Value.Y(), k2.Value.Y(), k3.Value.Y(), u),
		catmullRom(k0.Value.Z(), k1.Value.Z(), k2.Value.Z(), k3.Value.Z(), u),
	}, precision)
}

// Clone returns an independent copy.
func (c *Curve3D) Clone() *Curve3D {
	return &Curve3D{loop: c.loop, keys: append([]Keyframe(nil), c.keys...)}
}

func catmullRom(p0, p1, p2, p3, u float32) float32 {
	u2 := u * u
	u3 := u2 * u
	return 0.5 * (2*p1 + (p2-p0)*u + (2*p0-5*p1+4*p2-p3)*u2 + (3*p1-p0-3*p2+p3)*u3)
}

func round(v mgl32.Vec3, precision int) mgl32.Vec3 {
	if precision < 0 {
		return v
	}
	p := math.Pow(10, float64(precision))
	for i := range v {
		v[i] = float32(math.Round(float64(v[i])*p) / p)
	}
	return v
}
