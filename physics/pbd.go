// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// contactBody is the per-side view solveContactPBD needs: a position to
// correct (nil for an immovable collaborator, e.g. a Plane), the velocity
// to read for the relative-velocity terms, a place to write the resolved
// velocity back to (nil for Static/Kinematic/Plane, which never change
// velocity in response to a collision), and the inverse mass used for the
// mass-weighted split.
type contactBody struct {
	Pos     *mathf.Vec3
	Vel     mathf.Vec3
	VelOut  *mathf.Vec3
	InvMass float32
}

// solveContactPBD implements spec.md §4.6 stage 4 for one contact: a
// mass-weighted position correction followed by a velocity-level normal
// impulse (with combined restitution) and Coulomb friction (with combined
// friction), clamped to the impulse magnitude and to the amount that would
// halt tangential motion outright.
func solveContactPBD(c Contact, a, b contactBody) {
	wSum := a.InvMass + b.InvMass
	if wSum == 0 {
		return
	}

	if c.Depth > 0 {
		correction := c.Normal.Scale(c.Depth / wSum)
		if a.Pos != nil {
			*a.Pos = a.Pos.Add(correction.Scale(a.InvMass))
		}
		if b.Pos != nil {
			*b.Pos = b.Pos.Sub(correction.Scale(b.InvMass))
		}
	}

	// The normal points from B into A, so vn > 0 means the bodies approach.
	relVel := b.Vel.Sub(a.Vel)
	vn := relVel.Dot(c.Normal)
	if vn < 0 {
		// Separating: no velocity response.
		return
	}

	j := (1 + c.Restitution) * vn / wSum
	impulse := c.Normal.Scale(j)
	newVelA := a.Vel.Add(impulse.Scale(a.InvMass))
	newVelB := b.Vel.Sub(impulse.Scale(b.InvMass))

	tangent := relVel.Sub(c.Normal.Scale(vn))
	if tLen := tangent.Len(); tLen > 1e-8 {
		t := tangent.Scale(1 / tLen)
		// Impulse along t that would fully cancel the tangential relative
		// velocity, clamped to the Coulomb friction cone.
		jt := -relVel.Dot(t) / wSum
		maxJt := c.Friction * j
		jt = clampf32(jt, -maxJt, maxJt)
		frictionImpulse := t.Scale(jt)
		newVelA = newVelA.Sub(frictionImpulse.Scale(a.InvMass))
		newVelB = newVelB.Add(frictionImpulse.Scale(b.InvMass))
	}

	if a.VelOut != nil {
		*a.VelOut = newVelA
	}
	if b.VelOut != nil {
		*b.VelOut = newVelB
	}
}
