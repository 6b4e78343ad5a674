// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// worldToLocal transforms p from world space into a body's local space
// given the body's world position and orientation.
func worldToLocal(p, pos mathf.Vec3, orient mathf.Quat) mathf.Vec3 {
	inv := mathf.Quat{X: -orient.X, Y: -orient.Y, Z: -orient.Z, W: orient.W}
	return inv.RotateVec3(p.Sub(pos))
}

// localToWorld is the inverse of worldToLocal.
func localToWorld(p, pos mathf.Vec3, orient mathf.Quat) mathf.Vec3 {
	return orient.RotateVec3(p).Add(pos)
}

// closestPointOnBox returns the closest point to local (a point already in
// the box's local, axis-aligned frame) on or inside a box with the given
// half-extents, along with whether local was already inside the box.
func closestPointOnBox(local, halfExtents mathf.Vec3) (closest mathf.Vec3, inside bool) {
	inside = true
	closest = local
	if local.X > halfExtents.X {
		closest.X = halfExtents.X
		inside = false
	} else if local.X < -halfExtents.X {
		closest.X = -halfExtents.X
		inside = false
	}
	if local.Y > halfExtents.Y {
		closest.Y = halfExtents.Y
		inside = false
	} else if local.Y < -halfExtents.Y {
		closest.Y = -halfExtents.Y
		inside = false
	}
	if local.Z > halfExtents.Z {
		closest.Z = halfExtents.Z
		inside = false
	} else if local.Z < -halfExtents.Z {
		closest.Z = -halfExtents.Z
		inside = false
	}
	return closest, inside
}

// penetrationAxisBox handles the case where a point already lies inside a
// box: it returns the outward normal (in the box's local frame) and
// penetration depth along whichever face is nearest, the "axis of smallest
// face distance" rule spec.md §4.6's sphere-box narrow phase calls for.
func penetrationAxisBox(local, halfExtents mathf.Vec3) (normal mathf.Vec3, depth float32) {
	dx := halfExtents.X - absf32(local.X)
	dy := halfExtents.Y - absf32(local.Y)
	dz := halfExtents.Z - absf32(local.Z)

	depth = dx
	normal = mathf.NewVec3(signf32(local.X), 0, 0)
	if dy < depth {
		depth = dy
		normal = mathf.NewVec3(0, signf32(local.Y), 0)
	}
	if dz < depth {
		depth = dz
		normal = mathf.NewVec3(0, 0, signf32(local.Z))
	}
	return normal, depth
}

// supportPointBox returns the box-local vertex farthest along localDir, the
// "support point along -plane.normal" construction spec.md §4.6 uses for
// box-plane contact generation.
func supportPointBox(localDir, halfExtents mathf.Vec3) mathf.Vec3 {
	return mathf.NewVec3(
		signf32(localDir.X)*halfExtents.X,
		signf32(localDir.Y)*halfExtents.Y,
		signf32(localDir.Z)*halfExtents.Z,
	)
}

func signf32(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}
