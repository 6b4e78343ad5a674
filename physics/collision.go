// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

// solveSphereCylinderContact implements spec.md §4.6 stage 7's ad-hoc
// coupling: the sphere alone is moved to resolve penetration (the cylinder
// is left untouched positionally, unlike the mass-weighted split stage 4
// uses for grid-paired contacts), followed by the same impulse response
// (combined restitution + Coulomb friction) as solveContactPBD.
func solveSphereCylinderContact(c Contact, s *Sphere, cyl *Cylinder) {
	if c.Depth > 0 && s.Type != Static {
		s.Position = s.Position.Add(c.Normal.Scale(c.Depth))
	}

	invS, invC := s.InvMass(), cyl.InvMass()
	wSum := invS + invC
	if wSum == 0 {
		return
	}

	relVel := cyl.Velocity.Sub(s.Velocity)
	vn := relVel.Dot(c.Normal)
	if vn < 0 {
		return
	}

	j := (1 + c.Restitution) * vn / wSum
	impulse := c.Normal.Scale(j)
	newVelS := s.Velocity.Add(impulse.Scale(invS))
	newVelC := cyl.Velocity.Sub(impulse.Scale(invC))

	tangent := relVel.Sub(c.Normal.Scale(vn))
	if tLen := tangent.Len(); tLen > 1e-8 {
		t := tangent.Scale(1 / tLen)
		jt := -relVel.Dot(t) / wSum
		maxJt := c.Friction * j
		jt = clampf32(jt, -maxJt, maxJt)
		frictionImpulse := t.Scale(jt)
		newVelS = newVelS.Sub(frictionImpulse.Scale(invS))
		newVelC = newVelC.Add(frictionImpulse.Scale(invC))
	}

	if s.Type == Dynamic {
		s.Velocity = newVelS
	}
	if cyl.Type == Dynamic {
		cyl.Velocity = newVelC
	}
}
