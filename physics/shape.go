// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	"github.com/ridgeback/kinetic/internal/mathf"
)

// Sphere is a dynamic/kinematic/static rigid body whose collision geometry
// is a ball of Radius centered on Position. It carries both the current and
// previous position so contact slop and velocity-from-position checks have
// something to compare against between steps.
type Sphere struct {
	Position     mathf.Vec3
	PrevPosition mathf.Vec3
	Velocity     mathf.Vec3
	Orientation  mathf.Quat
	AngVelocity  mathf.Vec3
	Radius       float32
	Mass         float32
	Material     Material
	Type         BodyType

	// Force is the external force (spec.md §3's per-dynamic-sphere "external
	// 2-D force [fx,fz]", generalized to 3D here since Go has no reason to
	// special-case the Y component) applied over the next Step and cleared
	// once consumed, mirroring the teacher's gravity-then-clear pattern.
	Force mathf.Vec3
}

// InvMass returns 0 for Static/Kinematic bodies (infinite effective mass)
// and 1/Mass for Dynamic bodies.
func (s *Sphere) InvMass() float32 { return invMass(s.Type, s.Mass) }

// Transform returns the renderer-facing 4x4 transform for this sphere.
func (s *Sphere) Transform() mathf.Mat4 {
	return mathf.Transform(s.Position, s.Orientation, mathf.Zero)
}

// Box is a rigid body whose collision geometry is a rectangular prism with
// the given non-negative HalfExtents along each local axis.
type Box struct {
	Position    mathf.Vec3
	Velocity    mathf.Vec3
	Orientation mathf.Quat
	AngVelocity mathf.Vec3
	HalfExtents mathf.Vec3
	Mass        float32
	Material    Material
	Type        BodyType
}

func (b *Box) InvMass() float32 { return invMass(b.Type, b.Mass) }

func (b *Box) Transform() mathf.Mat4 {
	return mathf.Transform(b.Position, b.Orientation, mathf.Zero)
}

// Cylinder is a rigid body whose collision geometry is aligned with its
// local Y axis: a disc of Radius extruded to +/-HalfHeight. MeshOffset lets
// the visual origin (e.g. the bottom cap, for a pole that should pivot at
// its base) differ from the physics centroid that Position/Orientation
// track; physics itself never reads MeshOffset except to hand it to
// mathf.Transform.
type Cylinder struct {
	Position    mathf.Vec3
	Velocity    mathf.Vec3
	Orientation mathf.Quat
	AngVelocity mathf.Vec3
	Radius      float32
	HalfHeight  float32
	MeshOffset  mathf.Vec3
	Mass        float32
	Material    Material
	Type        BodyType
}

func (c *Cylinder) InvMass() float32 { return invMass(c.Type, c.Mass) }

func (c *Cylinder) Transform() mathf.Mat4 {
	return mathf.Transform(c.Position, c.Orientation, c.MeshOffset)
}

// Plane is an infinite (or, with non-zero extents, finite) static collision
// surface satisfying Normal.Dot(x) + Offset == 0. ExtentU/ExtentV bound a
// rectangle in the plane's local U/V axes; either left at 0 disables that
// axis's extent check, matching spec.md §3's "finite extents... 0 disables
// the extent check" rule.
type Plane struct {
	Normal   mathf.Vec3
	Offset   float32
	ExtentU  float32
	ExtentV  float32
	Material Material
}

// Basis returns an orthonormal (u, v) pair spanning the plane, used to
// project a point for the finite-extent check. The choice of u is arbitrary
// but stable for a given normal.
func (p *Plane) Basis() (u, v mathf.Vec3) {
	n := p.Normal.Unit()
	ref := mathf.NewVec3(1, 0, 0)
	if absf32(n.X) > 0.9 {
		ref = mathf.NewVec3(0, 1, 0)
	}
	u = n.Cross(ref).Unit()
	v = n.Cross(u)
	return u, v
}

func invMass(t BodyType, mass float32) float32 {
	if t != Dynamic || mass <= 0 {
		return 0
	}
	return 1 / mass
}

// SphereMass returns density*volume for a sphere of the given radius,
// matching original_source/crates/physics/src/builder.rs's
// calculate_sphere_mass.
func SphereMass(radius, density float32) float32 {
	r := float64(radius)
	volume := (4.0 / 3.0) * math.Pi * r * r * r
	return density * float32(volume)
}

// BoxMass returns density*volume for a box with the given half-extents.
func BoxMass(halfExtents mathf.Vec3, density float32) float32 {
	volume := 8 * halfExtents.X * halfExtents.Y * halfExtents.Z
	return density * volume
}

// CylinderMass returns density*volume for a cylinder of the given radius
// and half-height.
func CylinderMass(radius, halfHeight, density float32) float32 {
	r := float64(radius)
	volume := math.Pi * r * r * float64(2*halfHeight)
	return density * float32(volume)
}
