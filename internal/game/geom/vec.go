// Package geom provides the small float64 vector and quaternion algebra
// used by the accuracy and ballistics packages. It is deliberately
// self-contained: no package in this module depends on a rendering or
// physics engine's math types.
package geom

import "math"

// Epsilon is the magnitude below which a vector is treated as zero when
// normalizing. Guards against NaN propagation from near-zero divisions.
const Epsilon = 1e-9

// Vec3 is a 3D vector. X is right, Y is up, Z is forward.
type Vec3 struct {
	X, Y, Z float64
}

// Canonical axes of the local aiming frame.
var (
	Right   = Vec3{X: 1}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared magnitude of v.
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// Len returns the magnitude of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// IsZero reports whether v's magnitude is below Epsilon.
func (v Vec3) IsZero() bool {
	return v.LenSq() < Epsilon*Epsilon
}

// Normalize returns v scaled to unit length.
//
// Postcondition: returns the zero vector when |v| < Epsilon; never NaN.
func (v Vec3) Normalize() Vec3 {
	mag := v.Len()
	if mag < Epsilon {
		return Vec3{}
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}
