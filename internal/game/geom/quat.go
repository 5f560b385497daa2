package geom

import "math"

// Quat is a unit quaternion representing a rotation.
type Quat struct {
	W, X, Y, Z float64
}

// Identity returns the identity rotation.
func Identity() Quat {
	return Quat{W: 1}
}

// AxisAngle returns the rotation of rad radians about axis.
//
// Precondition: axis should be non-zero; a zero axis yields the identity
// rotation rather than NaN.
func AxisAngle(axis Vec3, rad float64) Quat {
	n := axis.Normalize()
	if n.IsZero() {
		return Identity()
	}
	half := rad / 2
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: n.X * s,
		Y: n.Y * s,
		Z: n.Z * s,
	}
}

// Mul returns the composition q ∘ r: applying the result rotates by r
// first, then by q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*u × (u × v + w*v), u = (X, Y, Z)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Add(v.Scale(q.W))
	return v.Add(u.Cross(t).Scale(2))
}
