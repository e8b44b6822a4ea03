// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package linear implements affine-transform math for scene graphs.
// It builds on mgl64 and shares its conventions: column-major
// matrices and right-handed bases.
package linear

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-6

// Compose returns the affine matrix T ⋅ R ⋅ S.
// The scale applies first, then the rotation, then the translation.
func Compose(p mgl64.Vec3, q mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	m := mgl64.Translate3D(p[0], p[1], p[2])
	m = m.Mul4(q.Mat4())
	return m.Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// Decompose splits an affine matrix into translation, rotation and
// scale. The translation is taken from the fourth column, the scale
// from the lengths of the basis columns and the rotation from the
// normalized basis. Negative scale factors are out of contract.
func Decompose(m mgl64.Mat4) (p mgl64.Vec3, q mgl64.Quat, s mgl64.Vec3) {
	p = m.Col(3).Vec3()
	axes := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	var basis [3]mgl64.Vec3
	for i := range basis {
		c := m.Col(i).Vec3()
		s[i] = c.Len()
		if s[i] > epsilon {
			basis[i] = c.Mul(1 / s[i])
		} else {
			basis[i] = axes[i]
		}
	}
	r := mgl64.Mat4FromCols(
		basis[0].Vec4(0),
		basis[1].Vec4(0),
		basis[2].Vec4(0),
		mgl64.Vec4{0, 0, 0, 1},
	)
	q = mgl64.Mat4ToQuat(r).Normalize()
	return
}

// LookRotation returns the rotation that maps forward onto dir while
// keeping up as close as possible to the up hint.
// forward and up describe the facing convention of the rotated frame;
// with forward = Z+ and up = Y+ this is the usual look rotation.
func LookRotation(forward, up, dir mgl64.Vec3) mgl64.Quat {
	b := basisQuat(dir, up)
	a := basisQuat(forward, up)
	return b.Mul(a.Inverse()).Normalize()
}

// Angle returns the angle in radians between two unit quaternions.
// The dot product is clamped to [-1, 1] before the arc cosine, since
// floating-point dots can exceed unit magnitude by epsilon.
func Angle(a, b mgl64.Quat) float64 {
	return 2 * math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
}

// basisQuat returns the rotation mapping the canonical axes onto the
// right-handed orthonormal basis derived from a forward direction and
// an up hint. Degenerate inputs fall back to substitute axes.
func basisQuat(f, u mgl64.Vec3) mgl64.Quat {
	z := f
	if z.Len() < epsilon {
		z = mgl64.Vec3{0, 0, 1}
	} else {
		z = z.Normalize()
	}
	x := u.Cross(z)
	if x.Len() < epsilon {
		// up is parallel to f.
		alt := mgl64.Vec3{1, 0, 0}
		if math.Abs(z[0]) > 0.9 {
			alt = mgl64.Vec3{0, 1, 0}
		}
		x = alt.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	m := mgl64.Mat4FromCols(
		x.Vec4(0),
		y.Vec4(0),
		z.Vec4(0),
		mgl64.Vec4{0, 0, 0, 1},
	)
	return mgl64.Mat4ToQuat(m).Normalize()
}
