// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
)

// Angular threshold below which RotateToward considers the target
// orientation reached.
const steerTolerance = 1e-4

// Direction returns the entity's facing in local space: the Forward
// reference rotated by the current orientation, normalized.
// For entities with a parent this differs from the world-space
// facing; derive the latter from WorldMatrix.
func (e *Entity) Direction() mgl64.Vec3 {
	return e.rotation.Rotate(e.Forward).Normalize()
}

// LookAt snaps the entity's orientation so that it faces the
// world-space target position.
func (e *Entity) LookAt(target mgl64.Vec3) {
	e.applyRotation(e.targetRotation(target))
}

// RotateToward turns the entity toward the world-space target
// position, covering at most MaxTurnRate*delta radians along the
// shortest arc. It reports whether the entity faces the target when
// the call returns. Degenerate angles (below tolerance or NaN) snap
// to the target immediately.
func (e *Entity) RotateToward(target mgl64.Vec3, delta float64) bool {
	to := e.targetRotation(target).Normalize()
	from := e.rotation.Normalize()
	if from.Dot(to) < 0 {
		// q and -q encode the same rotation; negate for the
		// short arc.
		to = to.Scale(-1)
	}
	angle := linear.Angle(from, to)
	if math.IsNaN(angle) || angle < steerTolerance {
		e.applyRotation(to)
		return true
	}
	t := math.Min(1, e.MaxTurnRate*delta/angle)
	e.applyRotation(mgl64.QuatSlerp(from, to, t).Normalize())
	return t >= 1
}

// targetRotation returns the orientation that faces the world-space
// target, expressed in the entity's parent space so that applying it
// through the hierarchy reproduces the intended world facing.
// A target coincident with the entity's world position yields the
// current orientation.
func (e *Entity) targetRotation(target mgl64.Vec3) mgl64.Quat {
	wp := e.WorldMatrix().Col(3).Vec3()
	dir := target.Sub(wp)
	if dir.Len() < 1e-9 {
		return e.rotation
	}
	q := linear.LookRotation(e.Forward, e.Up, dir.Normalize())
	if p := e.parent; p != nil {
		_, pq, _ := linear.Decompose(p.WorldMatrix())
		q = pq.Inverse().Mul(q)
	}
	return q.Normalize()
}
