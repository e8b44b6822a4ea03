// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetterValidation(t *testing.T) {
	e := New()
	nan := math.NaN()

	assert.ErrorIs(t, e.SetPosition(mgl64.Vec3{nan, 0, 0}), ErrInvalidArgument)
	assert.ErrorIs(t, e.SetScale(mgl64.Vec3{0, math.Inf(1), 0}), ErrInvalidArgument)
	assert.ErrorIs(t, e.SetRotation(mgl64.Quat{}), ErrInvalidArgument, "zero-length rotation")
	assert.ErrorIs(t, e.SetRotation(mgl64.Quat{W: nan}), ErrInvalidArgument)

	// Failed writes have no side effects.
	assert.Equal(t, mgl64.Vec3{}, e.Position())
	assert.Equal(t, mgl64.QuatIdent(), e.Rotation())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, e.Scale())
	assert.Equal(t, uint64(1), e.gen)
}

func TestWriteTolerance(t *testing.T) {
	e := New()
	require.NoError(t, e.SetPosition(mgl64.Vec3{1, 0, 0}))

	// Prime the caches.
	local := e.LocalMatrix()
	_ = e.WorldMatrix()
	require.False(t, e.worldStale())

	// A write within tolerance is a no-op and keeps the caches valid.
	require.NoError(t, e.SetPosition(mgl64.Vec3{1 + 5e-5, 0, 0}))
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, e.Position())
	assert.False(t, e.worldStale())
	assert.Equal(t, local, e.LocalMatrix())

	// A write beyond tolerance takes effect and marks the world stale.
	require.NoError(t, e.SetPosition(mgl64.Vec3{2, 0, 0}))
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, e.Position())
	assert.True(t, e.worldStale())
	assert.NotEqual(t, local, e.LocalMatrix())
}

func TestWorldMatrixRoot(t *testing.T) {
	e := New()
	require.NoError(t, e.SetPosition(mgl64.Vec3{1, 0, 0}))

	w := e.WorldMatrix()
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, w.Col(3).Vec3())
	assert.Equal(t, e.LocalMatrix(), w, "a root's world matrix equals its local matrix")
}

func TestWorldMatrixChild(t *testing.T) {
	p := New()
	c := New()
	require.NoError(t, p.Add(c))
	require.NoError(t, p.SetPosition(mgl64.Vec3{1, 0, 0}))
	require.NoError(t, c.SetPosition(mgl64.Vec3{0, 1, 0}))

	assert.Equal(t, mgl64.Vec3{1, 1, 0}, c.WorldMatrix().Col(3).Vec3())

	// Moving the parent moves the child's world position.
	require.NoError(t, p.SetPosition(mgl64.Vec3{-1, 0, 0}))
	assert.Equal(t, mgl64.Vec3{-1, 1, 0}, c.WorldMatrix().Col(3).Vec3())

	// Detaching restores the local frame.
	p.Remove(c)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, c.WorldMatrix().Col(3).Vec3())
}

func TestWorldMatrixChain(t *testing.T) {
	a, b, c := New(), New(), New()
	require.NoError(t, a.Add(b))
	require.NoError(t, b.Add(c))
	require.NoError(t, a.SetPosition(mgl64.Vec3{1, 0, 0}))
	require.NoError(t, a.SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})))
	require.NoError(t, b.SetPosition(mgl64.Vec3{1, 0, 0}))
	require.NoError(t, c.SetPosition(mgl64.Vec3{1, 0, 0}))

	// a rotates 90 degrees about Z: b lands at (1,1,0), c at (1,2,0)
	// since b carries the rotation forward.
	wb := b.WorldMatrix().Col(3).Vec3()
	wc := c.WorldMatrix().Col(3).Vec3()
	assert.InDelta(t, 1, wb[0], 1e-9)
	assert.InDelta(t, 1, wb[1], 1e-9)
	assert.InDelta(t, 1, wc[0], 1e-9)
	assert.InDelta(t, 2, wc[1], 1e-9)
}

func TestWorldMatrixMemoized(t *testing.T) {
	p, c := New(), New()
	require.NoError(t, p.Add(c))
	require.NoError(t, p.SetPosition(mgl64.Vec3{1, 0, 0}))

	_ = c.WorldMatrix()
	gen := c.worldGen
	pgen := p.worldGen
	for i := 0; i < 4; i++ {
		_ = c.WorldMatrix()
		_ = p.WorldMatrix()
	}
	assert.Equal(t, gen, c.worldGen, "repeated reads must not recompute")
	assert.Equal(t, pgen, p.worldGen)

	// A parent write invalidates the child lazily.
	require.NoError(t, p.SetPosition(mgl64.Vec3{2, 0, 0}))
	assert.True(t, c.worldStale())
	assert.Equal(t, gen, c.worldGen, "recomputation only happens on read")
	_ = c.WorldMatrix()
	assert.Equal(t, gen+1, c.worldGen)
}

func TestChildNeverDirtiesParent(t *testing.T) {
	p, c := New(), New()
	require.NoError(t, p.Add(c))
	_ = c.WorldMatrix()
	require.False(t, p.worldStale())

	require.NoError(t, c.SetPosition(mgl64.Vec3{0, 0, 5}))
	assert.False(t, p.worldStale(), "a child's change must never invalidate its parent")
	assert.True(t, c.worldStale())
}

func TestWorldMatrixScaleRotate(t *testing.T) {
	p, c := New(), New()
	require.NoError(t, p.Add(c))
	require.NoError(t, p.SetScale(mgl64.Vec3{2, 2, 2}))
	require.NoError(t, c.SetPosition(mgl64.Vec3{1, 0, 0}))

	// The child's translation is expressed in the parent's scaled frame.
	w := c.WorldMatrix().Col(3).Vec3()
	assert.InDelta(t, 2, w[0], 1e-9)
}

func BenchmarkWorldMatrixChain(b *testing.B) {
	const depth = 64
	root := New()
	e := root
	for i := 0; i < depth; i++ {
		c := New()
		if err := e.Add(c); err != nil {
			b.Fatal(err)
		}
		if err := c.SetPosition(mgl64.Vec3{1, 0, 0}); err != nil {
			b.Fatal(err)
		}
		e = c
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.WorldMatrix()
	}
}

func BenchmarkWorldMatrixInvalidate(b *testing.B) {
	const depth = 64
	root := New()
	e := root
	for i := 0; i < depth; i++ {
		c := New()
		if err := e.Add(c); err != nil {
			b.Fatal(err)
		}
		e = c
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := root.SetPosition(mgl64.Vec3{float64(i), 0, 0}); err != nil {
			b.Fatal(err)
		}
		_ = e.WorldMatrix()
	}
}
