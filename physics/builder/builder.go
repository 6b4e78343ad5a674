// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package builder adds rigid bodies and constraints to a physics.World,
// mirroring the add_* constructor methods original_source/crates/physics/
// src/builder.rs defines on PhysicsSim. Every function appends directly to
// the exported World slices and returns the new entry's index, so callers
// can capture it in a physics.BodyRef for later joint construction.
package builder

import (
	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
)

// AddSphere adds a dynamic sphere with physics.DefaultMaterial and returns
// its index into World.Spheres.
func AddSphere(w *physics.World, pos, vel mathf.Vec3, radius float32) int {
	return AddSphereWithMaterial(w, pos, vel, radius, physics.DefaultMaterial())
}

// AddSphereWithMaterial adds a dynamic sphere whose mass is derived from
// material.Density via physics.SphereMass.
func AddSphereWithMaterial(w *physics.World, pos, vel mathf.Vec3, radius float32, material physics.Material) int {
	mass := physics.SphereMass(radius, material.Density)
	return AddSphereWithMassAndMaterial(w, pos, vel, radius, mass, material)
}

// AddSphereWithMassAndMaterial adds a dynamic sphere with an explicit mass,
// bypassing the density-derived calculation.
func AddSphereWithMassAndMaterial(w *physics.World, pos, vel mathf.Vec3, radius, mass float32, material physics.Material) int {
	w.Spheres = append(w.Spheres, physics.Sphere{
		Position:     pos,
		PrevPosition: pos,
		Velocity:     vel,
		Orientation:  mathf.QuatIdentity,
		Radius:       radius,
		Mass:         mass,
		Material:     material,
		Type:         physics.Dynamic,
	})
	return len(w.Spheres) - 1
}

// AddBox adds a dynamic box of unit density and physics.DefaultMaterial.
func AddBox(w *physics.World, pos, halfExtents, vel mathf.Vec3) int {
	return AddBoxWithType(w, pos, halfExtents, vel, physics.Dynamic)
}

// AddBoxWithType adds a box with the given BodyType, matching
// add_box_with_type's role in original_source (used by physics/cartpole to
// create the Kinematic cart).
func AddBoxWithType(w *physics.World, pos, halfExtents, vel mathf.Vec3, bodyType physics.BodyType) int {
	material := physics.DefaultMaterial()
	w.Boxes = append(w.Boxes, physics.Box{
		Position:    pos,
		Velocity:    vel,
		Orientation: mathf.QuatIdentity,
		HalfExtents: halfExtents,
		Mass:        physics.BoxMass(halfExtents, material.Density),
		Material:    material,
		Type:        bodyType,
	})
	return len(w.Boxes) - 1
}

// AddCylinder adds a dynamic cylinder of unit density and physics.DefaultMaterial.
func AddCylinder(w *physics.World, pos mathf.Vec3, radius, halfHeight float32, vel mathf.Vec3) int {
	return AddCylinderWithType(w, pos, radius, halfHeight, vel, physics.Dynamic)
}

// AddCylinderWithType adds a cylinder with the given BodyType, matching
// add_cylinder_with_type's role in original_source (used by physics/cartpole
// to create the Dynamic pole).
func AddCylinderWithType(w *physics.World, pos mathf.Vec3, radius, halfHeight float32, vel mathf.Vec3, bodyType physics.BodyType) int {
	material := physics.DefaultMaterial()
	w.Cylinders = append(w.Cylinders, physics.Cylinder{
		Position:    pos,
		Velocity:    vel,
		Orientation: mathf.QuatIdentity,
		Radius:      radius,
		HalfHeight:  halfHeight,
		Mass:        physics.CylinderMass(radius, halfHeight, material.Density),
		Material:    material,
		Type:        bodyType,
	})
	return len(w.Cylinders) - 1
}

// AddPlane adds a static collision plane satisfying normal.Dot(x)+offset==0.
// extentU/extentV bound a finite rectangle in the plane's local basis; 0
// disables the corresponding extent check.
func AddPlane(w *physics.World, normal mathf.Vec3, offset, extentU, extentV float32) int {
	w.Planes = append(w.Planes, physics.Plane{
		Normal:   normal,
		Offset:   offset,
		ExtentU:  extentU,
		ExtentV:  extentV,
		Material: physics.DefaultMaterial(),
	})
	return len(w.Planes) - 1
}

// AddDistanceJoint pins two bodies to restLength apart, solved symmetrically
// by World.Step's stage 5 (the SolveJointsPBD kernel's semantics).
func AddDistanceJoint(w *physics.World, a, b physics.BodyRef, restLength float32) int {
	w.DistanceJoints = append(w.DistanceJoints, physics.DistanceJoint{A: a, B: b, RestLength: restLength})
	return len(w.DistanceJoints) - 1
}

// AddRevoluteJoint pins a and b's anchor points together, free to rotate
// around axis (axis is recorded for callers inspecting joint configuration;
// World.Step enforces anchor coincidence only, see DESIGN.md's open-question
// decisions).
func AddRevoluteJoint(w *physics.World, a physics.BodyRef, localAnchorA mathf.Vec3, b physics.BodyRef, localAnchorB, axis mathf.Vec3) int {
	w.RevoluteJoints = append(w.RevoluteJoints, physics.RevoluteJoint{
		A: a, B: b,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		Axis:         axis,
	})
	return len(w.RevoluteJoints) - 1
}

// AddPrismaticJoint pins a and b's anchor points together, free to slide
// along axis (axis recorded only; no sliding limit is enforced).
func AddPrismaticJoint(w *physics.World, a physics.BodyRef, localAnchorA mathf.Vec3, b physics.BodyRef, localAnchorB, axis mathf.Vec3) int {
	w.PrismaticJoints = append(w.PrismaticJoints, physics.PrismaticJoint{
		A: a, B: b,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		Axis:         axis,
	})
	return len(w.PrismaticJoints) - 1
}

// AddBallJoint pins a and b's anchor points together, leaving all rotation free.
func AddBallJoint(w *physics.World, a physics.BodyRef, localAnchorA mathf.Vec3, b physics.BodyRef, localAnchorB mathf.Vec3) int {
	w.BallJoints = append(w.BallJoints, physics.BallJoint{A: a, B: b, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB})
	return len(w.BallJoints) - 1
}

// AddFixedJoint welds a to b at the given relative position/orientation.
// Only the positional term is enforced by World.Step (see physics.FixedJoint).
func AddFixedJoint(w *physics.World, a, b physics.BodyRef, relativePosition mathf.Vec3, relativeOrientation mathf.Quat) int {
	w.FixedJoints = append(w.FixedJoints, physics.FixedJoint{
		A: a, B: b,
		RelativePosition:    relativePosition,
		RelativeOrientation: relativeOrientation,
	})
	return len(w.FixedJoints) - 1
}
