// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
)

// Per-component threshold below which a transform write is treated
// as a no-op and keeps the matrix caches valid.
const writeTolerance = 1e-4

// Position returns the entity's local position.
func (e *Entity) Position() mgl64.Vec3 { return e.position }

// Rotation returns the entity's local orientation, a unit quaternion.
func (e *Entity) Rotation() mgl64.Quat { return e.rotation }

// Scale returns the entity's local scale.
func (e *Entity) Scale() mgl64.Vec3 { return e.scale }

// SetPosition sets the entity's local position.
// Non-finite components fail with ErrInvalidArgument.
func (e *Entity) SetPosition(p mgl64.Vec3) error {
	if !finiteVec(p) {
		return fmt.Errorf("%w: non-finite position %v", ErrInvalidArgument, p)
	}
	if nearVec(p, e.position, writeTolerance) {
		return nil
	}
	e.position = p
	e.gen++
	return nil
}

// SetRotation sets the entity's local orientation.
// The quaternion is normalized before storage. Non-finite components
// and zero-length quaternions fail with ErrInvalidArgument.
func (e *Entity) SetRotation(q mgl64.Quat) error {
	if !finiteQuat(q) {
		return fmt.Errorf("%w: non-finite rotation", ErrInvalidArgument)
	}
	if q.Len() < 1e-9 {
		return fmt.Errorf("%w: zero-length rotation", ErrInvalidArgument)
	}
	q = q.Normalize()
	if nearQuat(q, e.rotation, writeTolerance) {
		return nil
	}
	e.rotation = q
	e.gen++
	return nil
}

// SetScale sets the entity's local scale.
// Non-finite components fail with ErrInvalidArgument.
func (e *Entity) SetScale(s mgl64.Vec3) error {
	if !finiteVec(s) {
		return fmt.Errorf("%w: non-finite scale %v", ErrInvalidArgument, s)
	}
	if nearVec(s, e.scale, writeTolerance) {
		return nil
	}
	e.scale = s
	e.gen++
	return nil
}

// applyRotation stores an orientation computed by steering code.
// Unlike SetRotation it snaps exactly, so convergence is not capped
// by the write tolerance.
func (e *Entity) applyRotation(q mgl64.Quat) {
	if q == e.rotation {
		return
	}
	e.rotation = q
	e.gen++
}

// LocalMatrix returns the entity's local affine matrix, refreshing
// it first if the transform changed since it was last derived.
func (e *Entity) LocalMatrix() mgl64.Mat4 {
	e.refreshLocal()
	return e.local
}

// WorldMatrix returns the entity's world affine matrix, refreshing
// the ancestor chain first as needed. Callers never observe a stale
// value.
func (e *Entity) WorldMatrix() mgl64.Mat4 {
	e.refreshWorld()
	return e.world
}

func (e *Entity) refreshLocal() {
	if e.localGen == e.gen {
		return
	}
	e.local = linear.Compose(e.position, e.rotation, e.scale)
	e.localGen = e.gen
}

// refreshWorld rebuilds the world matrix when stale. Ancestors are
// always fully resolved before their descendants compose with them;
// descendants that are never read are never recomputed.
func (e *Entity) refreshWorld() {
	if !e.worldStale() {
		return
	}
	e.refreshLocal()
	if p := e.parent; p != nil {
		p.refreshWorld()
		e.world = p.world.Mul4(e.local)
		e.worldParentGen = p.worldGen
	} else {
		e.world = e.local
	}
	e.worldLocalGen = e.gen
	e.worldGen++
}

// worldStale reports whether the cached world matrix no longer
// matches the local transform or any ancestor's. Staleness flows
// down the chain only; a child's change never invalidates a parent.
func (e *Entity) worldStale() bool {
	if e.worldLocalGen != e.gen {
		return true
	}
	if p := e.parent; p != nil {
		return e.worldParentGen != p.worldGen || p.worldStale()
	}
	return false
}

// invalidateWorld forces a recomputation on the next world read.
// Generations start at 1, so 0 never matches.
func (e *Entity) invalidateWorld() { e.worldLocalGen = 0 }

// invalidateLocal forces recomputation of both matrices.
func (e *Entity) invalidateLocal() {
	e.localGen = 0
	e.worldLocalGen = 0
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func finiteVec(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

func finiteQuat(q mgl64.Quat) bool { return finiteVec(q.V) && finite(q.W) }

func nearVec(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func nearQuat(a, b mgl64.Quat, eps float64) bool {
	return nearVec(a.V, b.V, eps) && math.Abs(a.W-b.W) <= eps
}
