// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathf

// Mat4 is a column-major 4x4 matrix, the layout expected by the renderer
// collaborator named in spec.md §4.5. Physics never reads a Mat4; it is
// produced only for consumption by that out-of-scope collaborator.
type Mat4 [16]float32

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Transform builds the column-major 4x4 transform matrix for a body at
// the given position and orientation, with meshOffset applied in the
// body's local space before the rotation (letting a visual mesh pivot at
// a point other than the physics center of mass, e.g. a cylinder's bottom
// cap). See spec.md §4.5.
func Transform(pos Vec3, orient Quat, meshOffset Vec3) Mat4 {
	q := orient.Unit()
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	m := Mat4{
		1 - (yy + zz), xy + wz, xz - wy, 0,
		xy - wz, 1 - (xx + zz), yz + wx, 0,
		xz + wy, yz - wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}

	// world translation = pos + R * meshOffset
	offset := q.RotateVec3(meshOffset)
	m[12] = pos.X + offset.X
	m[13] = pos.Y + offset.Y
	m[14] = pos.Z + offset.Z
	return m
}
