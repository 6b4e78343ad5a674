// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package mathf provides the float32 vector, quaternion, and matrix math
// shared by the compute and physics packages. Everything here is float32
// so the same values can be written to and read from the binary layouts
// in the compute dispatch contract without a conversion step.
package mathf

import "math"

// Vec3 is a 3 element vector. It is used for positions, velocities,
// normals, and angular velocities throughout the physics package.
type Vec3 struct {
	X, Y, Z float32
}

// Zero is the additive identity.
var Zero = Vec3{}

// NewVec3 returns a vector with the given components.
func NewVec3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add (+) returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub (-) returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale (*) returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// LenSq returns the squared length of v, avoiding a sqrt.
func (v Vec3) LenSq() float32 { return v.Dot(v) }

// Len returns the length of v.
func (v Vec3) Len() float32 { return float32(math.Sqrt(float64(v.LenSq()))) }

// Unit returns v normalized to length 1. The zero vector is returned
// unchanged rather than producing NaNs.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Eq (==) returns true if v and w are exactly equal, component-wise.
func (v Vec3) Eq(w Vec3) bool { return v.X == w.X && v.Y == w.Y && v.Z == w.Z }

// Aeq (~=) returns true if v and w are equal within eps, component-wise.
func (v Vec3) Aeq(w Vec3, eps float32) bool {
	return absf(v.X-w.X) <= eps && absf(v.Y-w.Y) <= eps && absf(v.Z-w.Z) <= eps
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// PutBytes writes v as 3 little-endian f32 into dst[0:12].
func (v Vec3) PutBytes(dst []byte) {
	putF32(dst[0:4], v.X)
	putF32(dst[4:8], v.Y)
	putF32(dst[8:12], v.Z)
}

// Vec3FromBytes reads a Vec3 from 3 little-endian f32 in src[0:12].
func Vec3FromBytes(src []byte) Vec3 {
	return Vec3{X: getF32(src[0:4]), Y: getF32(src[4:8]), Z: getF32(src[8:12])}
}
