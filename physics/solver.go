// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// DistanceJoint pins two bodies to a fixed separation, solved by
// solveDistanceJointPBD in stage 5 of World.Step.
type DistanceJoint struct {
	A, B       BodyRef
	RestLength float32
}

// RevoluteJoint pins two bodies' anchor points together and names a
// rotation axis; per spec.md §4.6 stage 6 and §9's open question, only
// anchor coincidence is enforced — no angular limit or motor.
type RevoluteJoint struct {
	A, B         BodyRef
	LocalAnchorA mathf.Vec3
	LocalAnchorB mathf.Vec3
	Axis         mathf.Vec3
}

// PrismaticJoint pins two bodies' anchor points together along a
// translation axis; as with RevoluteJoint, only anchor coincidence is
// enforced (no axis-locked sliding, no limits/motor).
type PrismaticJoint struct {
	A, B         BodyRef
	LocalAnchorA mathf.Vec3
	LocalAnchorB mathf.Vec3
	Axis         mathf.Vec3
}

// BallJoint removes the 3 translational degrees of freedom at a shared
// anchor, leaving rotation free.
type BallJoint struct {
	A, B         BodyRef
	LocalAnchorA mathf.Vec3
	LocalAnchorB mathf.Vec3
}

// FixedJoint welds two bodies at a relative position and orientation.
// RelativeOrientation is stored for callers that want to inspect joint
// configuration, but — matching spec.md's non-goal on exact rotational
// inertia tensors — only the positional term is enforced by the solver.
type FixedJoint struct {
	A, B                BodyRef
	RelativePosition    mathf.Vec3
	RelativeOrientation mathf.Quat
}

// solveDistanceJointPBD applies spec.md §4.3's SolveJointsPBD semantics:
// symmetric position split with no mass weighting, so the CPU step and the
// SolveJointsPBD kernel dispatch agree bit-for-bit for sphere-only joints.
func solveDistanceJointPBD(posA, posB *mathf.Vec3, restLength float32) {
	d := posB.Sub(*posA)
	l := d.Len()
	if l <= 0 {
		return
	}
	n := d.Scale(1 / l)
	correction := n.Scale((l - restLength) * 0.5)
	*posA = posA.Add(correction)
	*posB = posB.Sub(correction)
}

// solveAnchorConstraint enforces the coincidence of two world-space anchor
// points, mass-weighted by invA/invB (0 for Static/Kinematic bodies). This
// is the host-side stand-in for stage 6's revolute/prismatic/ball/fixed
// joints (whose kernels are wired but left as no-op placeholders per
// spec.md §9): unlike the distance joint's naked symmetric split, this one
// respects BodyType so a Kinematic driver (e.g. a CartPole cart) is never
// nudged by the bodies attached to it.
func solveAnchorConstraint(
	posA *mathf.Vec3, orientA mathf.Quat, invA float32, localAnchorA mathf.Vec3,
	posB *mathf.Vec3, orientB mathf.Quat, invB float32, localAnchorB mathf.Vec3,
) {
	wSum := invA + invB
	if wSum <= 0 {
		return
	}
	anchorA := orientA.RotateVec3(localAnchorA).Add(*posA)
	anchorB := orientB.RotateVec3(localAnchorB).Add(*posB)
	d := anchorB.Sub(anchorA)
	if d.LenSq() == 0 {
		return
	}
	*posA = posA.Add(d.Scale(invA / wSum))
	*posB = posB.Sub(d.Scale(invB / wSum))
}
