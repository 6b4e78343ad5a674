// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathf

import "math"

// Quat is a unit quaternion storing orientation as (x, y, z, w), matching
// the wire order used throughout the binary layouts in the compute
// dispatch contract.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity is the identity rotation.
var QuatIdentity = Quat{X: 0, Y: 0, Z: 0, W: 1}

// Dot returns the dot product of q and r.
func (q Quat) Dot(r Quat) float32 { return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W }

// Len returns the length of q.
func (q Quat) Len() float32 { return float32(math.Sqrt(float64(q.Dot(q)))) }

// Unit returns q normalized to length 1. The zero quaternion is returned
// unchanged rather than producing NaNs.
func (q Quat) Unit() Quat {
	l := q.Len()
	if l == 0 {
		return q
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Mult returns the Hamilton product q*r: the rotation r followed by q.
func (q Quat) Mult(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Add returns the component-wise sum q+r. Quaternion addition is not a
// rotation composition; it is used only by the first-order integration
// step below.
func (q Quat) Add(r Quat) Quat {
	return Quat{q.X + r.X, q.Y + r.Y, q.Z + r.Z, q.W + r.W}
}

// Scale returns q scaled component-wise by s.
func (q Quat) Scale(s float32) Quat {
	return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s}
}

// IntegrateAngularVelocity advances q by angular velocity omega over dt
// using the first-order quaternion derivative q += 0.5*dt*(omega (x) q)
// and returns the renormalized result. This matches the approximation
// spec.md's design notes call out as adequate for small omega*dt and
// unsafe to rely on for large angular velocities.
func (q Quat) IntegrateAngularVelocity(omega Vec3, dt float32) Quat {
	halfDt := 0.5 * dt
	ox, oy, oz := omega.X*halfDt, omega.Y*halfDt, omega.Z*halfDt
	delta := Quat{
		X: ox*q.W + oy*q.Z - oz*q.Y,
		Y: oy*q.W + oz*q.X - ox*q.Z,
		Z: oz*q.W + ox*q.Y - oy*q.X,
		W: -ox*q.X - oy*q.Y - oz*q.Z,
	}
	return q.Add(delta).Unit()
}

// RotateVec3 rotates v by q (q must be unit length for the result to be a
// pure rotation).
func (q Quat) RotateVec3(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v)
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	// v' = v + w*t + cross(q.xyz, t)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// FromAxisAngle returns the unit quaternion rotating by angle radians
// around axis (which need not be normalized; the zero axis yields the
// identity quaternion).
func FromAxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Unit()
	if axis.LenSq() == 0 {
		return QuatIdentity
	}
	half := angle * 0.5
	s := float32(math.Sin(float64(half)))
	c := float32(math.Cos(float64(half)))
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// PutBytes writes q as 4 little-endian f32 (x,y,z,w) into dst[0:16].
func (q Quat) PutBytes(dst []byte) {
	putF32(dst[0:4], q.X)
	putF32(dst[4:8], q.Y)
	putF32(dst[8:12], q.Z)
	putF32(dst[12:16], q.W)
}

// QuatFromBytes reads a Quat from 4 little-endian f32 (x,y,z,w) in src[0:16].
func QuatFromBytes(src []byte) Quat {
	return Quat{
		X: getF32(src[0:4]),
		Y: getF32(src[4:8]),
		Z: getF32(src[8:12]),
		W: getF32(src[12:16]),
	}
}
