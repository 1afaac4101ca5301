package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestTransformMutations(t *testing.T) {
	t.Run("translate", func(t *testing.T) {
		tr := NewTransform()
		tr.Translate(mgl32.Vec3{1, 2, 3})
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, tr.LocalTranslation())
	})

	t.Run("rotate", func(t *testing.T) {
		tr := NewTransform()
		tr.Rotate(mgl32.Vec3{45, -90, 360})
		assert.Equal(t, mgl32.Vec3{45, -90, 360}, tr.LocalRotation())
	})

	t.Run("scale is additive", func(t *testing.T) {
		tr := NewTransform()
		tr.Scale(mgl32.Vec3{4, -8, 0.5})
		assert.Equal(t, mgl32.Vec3{5, -7, 1.5}, tr.LocalScale())
	})

	t.Run("setters are absolute", func(t *testing.T) {
		tr := NewTransform()
		tr.Translate(mgl32.Vec3{9, 9, 9})
		tr.SetTranslation(mgl32.Vec3{1, 2, 3})
		tr.SetRotation(mgl32.Vec3{45, -90, 360})
		tr.SetScale(mgl32.Vec3{4, -8, 0.5})
		assert.Equal(t, mgl32.Vec3{1, 2, 3}, tr.LocalTranslation())
		assert.Equal(t, mgl32.Vec3{45, -90, 360}, tr.LocalRotation())
		assert.Equal(t, mgl32.Vec3{4, -8, 0.5}, tr.LocalScale())
	})

	t.Run("every mutation notifies", func(t *testing.T) {
		tr := NewTransform()
		n := 0
		tr.OnChanged(func() { n++ })
		tr.Translate(mgl32.Vec3{1, 0, 0})
		tr.Rotate(mgl32.Vec3{0, 1, 0})
		tr.Scale(mgl32.Vec3{1, 0, 0})
		tr.SetTranslation(mgl32.Vec3{})
		tr.SetRotation(mgl32.Vec3{})
		tr.SetScale(mgl32.Vec3{1, 1, 1})
		assert.Equal(t, 6, n)
	})
}

func TestTransformWorldMatrix(t *testing.T) {
	t.Run("scale rotate translate order", func(t *testing.T) {
		tr := NewTransformSRT(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0, 90, 0}, mgl32.Vec3{10, 0, 0})
		p := tr.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 1}).Vec3()
		// scaled to z=2, rotated onto +x, then moved
		assertVecNear(t, mgl32.Vec3{12, 0, 0}, p)
	})

	t.Run("idempotent while clean", func(t *testing.T) {
		tr := NewTransformSRT(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{10, 20, 30}, mgl32.Vec3{4, 5, 6})
		tr.Update(nil)
		first := tr.WorldMatrix()
		tr.Update(nil)
		assert.Equal(t, first, tr.WorldMatrix())
		assert.Equal(t, first, tr.WorldMatrix())
	})

	t.Run("mutation invalidates", func(t *testing.T) {
		tr := NewTransform()
		before := tr.WorldMatrix()
		tr.Translate(mgl32.Vec3{0, 1, 0})
		assert.NotEqual(t, before, tr.WorldMatrix())
		assert.Equal(t, float32(1), tr.WorldMatrix().At(1, 3))
	})

	t.Run("directions", func(t *testing.T) {
		tr := NewTransform()
		assertVecNear(t, mgl32.Vec3{0, 0, -1}, tr.Forward())
		assertVecNear(t, mgl32.Vec3{1, 0, 0}, tr.Right())
		assertVecNear(t, mgl32.Vec3{0, 1, 0}, tr.Up())

		tr.SetRotation(mgl32.Vec3{0, 90, 0})
		assertVecNear(t, mgl32.Vec3{-1, 0, 0}, tr.Forward())
		assertVecNear(t, mgl32.Vec3{1, 0, 0}, tr.Backward())
		assertVecNear(t, mgl32.Vec3{0, 0, -1}, tr.Right())
		assertVecNear(t, mgl32.Vec3{0, 0, 1}, tr.Left())
		assertVecNear(t, mgl32.Vec3{0, -1, 0}, tr.Down())
	})

	t.Run("set world matrix overrides until next mutation", func(t *testing.T) {
		tr := NewTransform()
		m := mgl32.Translate3D(3, 4, 5)
		tr.SetWorldMatrix(m)
		assert.Equal(t, m, tr.WorldMatrix())

		tr.SetTranslation(mgl32.Vec3{})
		assert.Equal(t, mgl32.Ident4(), tr.WorldMatrix())
	})

	t.Run("rotation matrix round trip", func(t *testing.T) {
		tr := NewTransform()
		tr.SetRotationMatrix(rotationFromEuler(mgl32.Vec3{30, 45, 60}))
		assertVecNear(t, mgl32.Vec3{30, 45, 60}, tr.LocalRotation())
	})
}

func TestTransformClone(t *testing.T) {
	tr := NewTransform()
	c := tr.CloneTransform()
	require.NotSame(t, tr, c)
	assert.NotEqual(t, tr.ID(), c.ID())

	tr.Update(nil)
	c.Update(nil)
	assert.Equal(t, tr.WorldMatrix(), c.WorldMatrix())

	t.Run("copies are independent", func(t *testing.T) {
		c.SetTranslation(mgl32.Vec3{1, 2, 3})
		c.SetRotation(mgl32.Vec3{45, -90, 360})
		c.SetScale(mgl32.Vec3{4, -8, 0.5})
		assert.NotEqual(t, c.LocalTranslation(), tr.LocalTranslation())
		assert.NotEqual(t, c.LocalRotation(), tr.LocalRotation())
		assert.NotEqual(t, c.LocalScale(), tr.LocalScale())
		assert.NotEqual(t, c.WorldMatrix(), tr.WorldMatrix())
	})

	t.Run("listeners stay behind", func(t *testing.T) {
		n := 0
		tr.OnChanged(func() { n++ })
		d := tr.CloneTransform()
		d.Translate(mgl32.Vec3{1, 0, 0})
		assert.Zero(t, n)
	})
}
