// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// Contact is one narrow-phase result from stage 3 of the step orchestrator:
// a pair of bodies, the normal pointing from B into A (so
// `A.Position += Normal*Depth*wA/(wA+wB)` and the symmetric move on B
// separate them), the positive penetration depth, and the pair's combined
// material terms so stage 4 never has to re-look-up either body's Material.
type Contact struct {
	A, B        BodyRef
	Normal      mathf.Vec3
	Depth       float32
	Friction    float32
	Restitution float32
}

func conj(q mathf.Quat) mathf.Quat { return mathf.Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W} }

// sphereSphereContact implements spec.md §4.6's sphere-sphere narrow phase:
// if the centers are closer than the summed radii, emit one contact whose
// normal points from b into a and whose depth is the full penetration
// (stage 4's mass-weighted split divides it between the two bodies).
func sphereSphereContact(ai, bi BodyRef, a, b *Sphere) []Contact {
	delta := a.Position.Sub(b.Position)
	dist := delta.Len()
	rsum := a.Radius + b.Radius
	if dist >= rsum {
		return nil
	}
	normal := mathf.NewVec3(1, 0, 0)
	if dist > 1e-8 {
		normal = delta.Scale(1 / dist)
	}
	return []Contact{{
		A: ai, B: bi,
		Normal:      normal,
		Depth:       rsum - dist,
		Friction:    combinedFriction(a.Material, b.Material),
		Restitution: combinedRestitution(a.Material, b.Material),
	}}
}

// spherePlaneContact implements spec.md §4.6's sphere-plane narrow phase,
// including the finite-extent check and the contact-slop band from
// SPEC_FULL.md §4.6: a contact is generated slightly before true geometric
// penetration so friction/response engage early, but restitution only
// fires when the sphere is truly penetrating (signed distance < 0).
func spherePlaneContact(si BodyRef, s *Sphere, pi BodyRef, p *Plane) []Contact {
	n := p.Normal.Unit()
	sd := n.Dot(s.Position) + p.Offset - s.Radius
	slop := 0.05 * s.Radius
	if sd > slop {
		return nil
	}
	if p.ExtentU > 0 || p.ExtentV > 0 {
		u, v := p.Basis()
		projected := s.Position.Sub(n.Scale(n.Dot(s.Position) + p.Offset))
		if p.ExtentU > 0 && absf32(projected.Dot(u)) > p.ExtentU {
			return nil
		}
		if p.ExtentV > 0 && absf32(projected.Dot(v)) > p.ExtentV {
			return nil
		}
	}
	restitution := combinedRestitution(s.Material, p.Material)
	if sd >= 0 {
		restitution = 0
	}
	return []Contact{{
		A: si, B: pi,
		Normal:      n,
		Depth:       maxf32(-sd, 0),
		Friction:    combinedFriction(s.Material, p.Material),
		Restitution: restitution,
	}}
}

// sphereBoxContact implements spec.md §4.6's sphere-box narrow phase: find
// the closest point on the box to the sphere center; if the center is
// outside the box, separate along the vector from that point to the
// center, otherwise along the axis of smallest face distance.
func sphereBoxContact(si BodyRef, s *Sphere, bi BodyRef, b *Box) []Contact {
	local := worldToLocal(s.Position, b.Position, b.Orientation)
	closest, inside := closestPointOnBox(local, b.HalfExtents)

	var normalLocal mathf.Vec3
	var depth float32
	if !inside {
		diff := local.Sub(closest)
		dist := diff.Len()
		if dist >= s.Radius {
			return nil
		}
		if dist > 1e-8 {
			normalLocal = diff.Scale(1 / dist)
		} else {
			normalLocal = mathf.NewVec3(0, 1, 0)
		}
		depth = s.Radius - dist
	} else {
		n, faceDist := penetrationAxisBox(local, b.HalfExtents)
		normalLocal = n
		depth = faceDist + s.Radius
	}

	return []Contact{{
		A: si, B: bi,
		Normal:      b.Orientation.RotateVec3(normalLocal),
		Depth:       depth,
		Friction:    combinedFriction(s.Material, b.Material),
		Restitution: combinedRestitution(s.Material, b.Material),
	}}
}

// sphereCylinderContact implements spec.md §4.6's sphere-cylinder narrow
// phase (Y-axis-aligned cylinders in the reference): classify the contact
// as side, cap, or edge by comparing the sphere center's XZ radial distance
// to the cylinder radius and its Y distance to the half-height.
func sphereCylinderContact(si BodyRef, s *Sphere, ci BodyRef, c *Cylinder) []Contact {
	local := worldToLocal(s.Position, c.Position, c.Orientation)
	radial := mathf.NewVec3(local.X, 0, local.Z)
	radialDist := radial.Len()
	outsideRadial := radialDist > c.Radius
	outsideVertical := absf32(local.Y) > c.HalfHeight

	var normalLocal mathf.Vec3
	var depth float32
	switch {
	case outsideRadial && outsideVertical:
		// Edge contact: closest point is the cap rim nearest the sphere.
		radialDir := mathf.NewVec3(1, 0, 0)
		if radialDist > 1e-8 {
			radialDir = radial.Scale(1 / radialDist)
		}
		rim := radialDir.Scale(c.Radius)
		rim.Y = signf32(local.Y) * c.HalfHeight
		diff := local.Sub(rim)
		dist := diff.Len()
		if dist >= s.Radius {
			return nil
		}
		if dist > 1e-8 {
			normalLocal = diff.Scale(1 / dist)
		} else {
			normalLocal = mathf.NewVec3(0, signf32(local.Y), 0)
		}
		depth = s.Radius - dist
	case !outsideRadial && !outsideVertical:
		// Sphere center inside the cylinder volume: separate along whichever
		// boundary (side wall or cap) is nearer.
		sideDist := c.Radius - radialDist
		capDist := c.HalfHeight - absf32(local.Y)
		if sideDist < capDist {
			radialDir := mathf.NewVec3(1, 0, 0)
			if radialDist > 1e-8 {
				radialDir = radial.Scale(1 / radialDist)
			}
			normalLocal = radialDir
			depth = sideDist + s.Radius
		} else {
			normalLocal = mathf.NewVec3(0, signf32(local.Y), 0)
			depth = capDist + s.Radius
		}
	case outsideRadial && !outsideVertical:
		// Side contact.
		overlap := s.Radius - (radialDist - c.Radius)
		if overlap <= 0 {
			return nil
		}
		normalLocal = radial.Scale(1 / radialDist)
		depth = overlap
	default:
		// Cap contact (!outsideRadial && outsideVertical).
		overlap := s.Radius - (absf32(local.Y) - c.HalfHeight)
		if overlap <= 0 {
			return nil
		}
		normalLocal = mathf.NewVec3(0, signf32(local.Y), 0)
		depth = overlap
	}

	return []Contact{{
		A: si, B: ci,
		Normal:      c.Orientation.RotateVec3(normalLocal),
		Depth:       depth,
		Friction:    combinedFriction(s.Material, c.Material),
		Restitution: combinedRestitution(s.Material, c.Material),
	}}
}

// boxPlaneContact implements spec.md §4.6's box-plane narrow phase: the
// box's support point along -plane.normal is the first point of the box to
// reach the plane; its signed distance to the plane is the penetration.
func boxPlaneContact(bi BodyRef, b *Box, pi BodyRef, p *Plane) []Contact {
	localDir := conj(b.Orientation).RotateVec3(p.Normal).Neg()
	support := supportPointBox(localDir, b.HalfExtents)
	worldSupport := localToWorld(support, b.Position, b.Orientation)
	sd := p.Normal.Dot(worldSupport) + p.Offset
	if sd > 0 {
		return nil
	}
	return []Contact{{
		A: bi, B: pi,
		Normal:      p.Normal,
		Depth:       -sd,
		Friction:    combinedFriction(b.Material, p.Material),
		Restitution: combinedRestitution(b.Material, p.Material),
	}}
}

// cylinderPlaneContact implements spec.md §4.6's cylinder-plane narrow
// phase: support distance along the plane normal is
// radius*(|n.x|+|n.z|) + half_height*|n.y|, n expressed in the cylinder's
// local frame.
func cylinderPlaneContact(ci BodyRef, c *Cylinder, pi BodyRef, p *Plane) []Contact {
	nLocal := conj(c.Orientation).RotateVec3(p.Normal)
	support := c.Radius*(absf32(nLocal.X)+absf32(nLocal.Z)) + c.HalfHeight*absf32(nLocal.Y)
	sd := p.Normal.Dot(c.Position) + p.Offset - support
	if sd > 0 {
		return nil
	}
	return []Contact{{
		A: ci, B: pi,
		Normal:      p.Normal,
		Depth:       -sd,
		Friction:    combinedFriction(c.Material, p.Material),
		Restitution: combinedRestitution(c.Material, p.Material),
	}}
}
