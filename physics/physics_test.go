// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
)

// TestSphereSettlesOnGroundPlane is seed scenario 5: a single dynamic
// sphere dropped from y=10 onto a ground plane at y=0 comes to rest near
// y=radius with near-zero speed after 100 steps at dt=0.01.
func TestSphereSettlesOnGroundPlane(t *testing.T) {
	material := Material{Friction: 0.8, Restitution: 0.1, Density: 1}
	w := &World{
		Spheres: []Sphere{{
			Position: mathf.NewVec3(0, 10, 0), PrevPosition: mathf.NewVec3(0, 10, 0),
			Orientation: mathf.QuatIdentity, Radius: 1, Mass: 1, Material: material, Type: Dynamic,
		}},
		Planes: []Plane{{Normal: mathf.NewVec3(0, 1, 0), Offset: 0, Material: material}},
		Gravity: mathf.NewVec3(0, -9.81, 0), Dt: 0.01, SolverIterations: 1,
		Grid: NewSpatialGrid(mathf.NewVec3(-50, -10, -50), mathf.NewVec3(50, 50, 50), 4),
	}

	for i := 0; i < 100; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	s := &w.Spheres[0]
	if speed := s.Velocity.Len(); speed >= 0.1 {
		t.Errorf("final speed = %g, want < 0.1", speed)
	}
	if diff := absf32(s.Position.Y - s.Radius); diff >= 1e-2 {
		t.Errorf("|y - r| = %g, want < 1e-2 (y=%g)", diff, s.Position.Y)
	}
}

// TestSphereSphereHeadOnMomentumConservation is seed scenario 6: a moving
// sphere strikes a stationary one head-on with restitution 1, no gravity.
func TestSphereSphereHeadOnMomentumConservation(t *testing.T) {
	material := Material{Friction: 0, Restitution: 1, Density: 1}
	w := &World{
		Spheres: []Sphere{
			{Position: mathf.NewVec3(0, 0, 0), Velocity: mathf.NewVec3(2, 0, 0), Orientation: mathf.QuatIdentity, Radius: 1, Mass: 1, Material: material, Type: Dynamic},
			{Position: mathf.NewVec3(1.5, 0, 0), Velocity: mathf.Zero, Orientation: mathf.QuatIdentity, Radius: 1, Mass: 1, Material: material, Type: Dynamic},
		},
		Dt: 0.01, SolverIterations: 1,
		Grid: NewSpatialGrid(mathf.NewVec3(-50, -50, -50), mathf.NewVec3(50, 50, 50), 4),
	}

	for i := 0; i < 50; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	totalVx := w.Spheres[0].Velocity.X + w.Spheres[1].Velocity.X
	if diff := absf32(totalVx - 2); diff >= 1e-2 {
		t.Errorf("total Vx = %g, want 2 +/- 1e-2", totalVx)
	}
	if !(w.Spheres[1].Velocity.X > w.Spheres[0].Velocity.X) {
		t.Errorf("expected struck sphere (Vx=%g) to end faster than striker (Vx=%g)",
			w.Spheres[1].Velocity.X, w.Spheres[0].Velocity.X)
	}
}

// TestSphereSphereEnergyNonGrowth pairs the same head-on scenario with
// restitution 0.5: kinetic energy must never increase.
func TestSphereSphereEnergyNonGrowth(t *testing.T) {
	material := Material{Friction: 0, Restitution: 0.5, Density: 1}
	w := &World{
		Spheres: []Sphere{
			{Position: mathf.NewVec3(0, 0, 0), Velocity: mathf.NewVec3(2, 0, 0), Orientation: mathf.QuatIdentity, Radius: 1, Mass: 1, Material: material, Type: Dynamic},
			{Position: mathf.NewVec3(1.5, 0, 0), Velocity: mathf.Zero, Orientation: mathf.QuatIdentity, Radius: 1, Mass: 1, Material: material, Type: Dynamic},
		},
		Dt: 0.01, SolverIterations: 1,
		Grid: NewSpatialGrid(mathf.NewVec3(-50, -50, -50), mathf.NewVec3(50, 50, 50), 4),
	}

	ke := func() float32 {
		var total float32
		for i := range w.Spheres {
			v := w.Spheres[i].Velocity.Len()
			total += 0.5 * w.Spheres[i].Mass * v * v
		}
		return total
	}

	keInitial := ke()
	for i := 0; i < 50; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if keFinal := ke(); keFinal > keInitial+1e-4 {
		t.Errorf("KE grew: initial=%g final=%g", keInitial, keFinal)
	}
}

// TestDistanceJointConvergence: a single PBD pass must close at least 50%
// of a distance joint's current error, for any positive separation.
func TestDistanceJointConvergence(t *testing.T) {
	posA := mathf.NewVec3(0, 0, 0)
	posB := mathf.NewVec3(5, 0, 0)
	restLength := float32(1)

	errBefore := absf32(posB.Sub(posA).Len() - restLength)
	solveDistanceJointPBD(&posA, &posB, restLength)
	errAfter := absf32(posB.Sub(posA).Len() - restLength)

	if errAfter > errBefore*0.5 {
		t.Errorf("error reduced from %g to %g, want <= 50%%", errBefore, errAfter)
	}
}

// TestContactSolveIdempotent: re-solving an already-separated contact must
// not perturb either body.
func TestContactSolveIdempotent(t *testing.T) {
	posA := mathf.NewVec3(0, 0, 0)
	posB := mathf.NewVec3(10, 0, 0)
	velA, velB := mathf.Zero, mathf.Zero

	c := Contact{
		A: BodyRef{SphereBody, 0}, B: BodyRef{SphereBody, 1},
		Normal: mathf.NewVec3(1, 0, 0), Depth: -5, Friction: 0.5, Restitution: 0.5,
	}
	cbA := contactBody{Pos: &posA, Vel: velA, InvMass: 1, VelOut: &velA}
	cbB := contactBody{Pos: &posB, Vel: velB, InvMass: 1, VelOut: &velB}

	solveContactPBD(c, cbA, cbB)
	p1a, p1b := posA, posB
	solveContactPBD(c, cbA, cbB)

	if diff := p1a.Sub(posA).Len(); diff >= 1e-6 {
		t.Errorf("body A moved by %g on second solve, want < 1e-6", diff)
	}
	if diff := p1b.Sub(posB).Len(); diff >= 1e-6 {
		t.Errorf("body B moved by %g on second solve, want < 1e-6", diff)
	}
}

func TestHasDynamicBodyErrNoSpheres(t *testing.T) {
	w := NewWorld()
	if err := w.Step(); err != ErrNoSpheres {
		t.Errorf("Step() on empty world = %v, want ErrNoSpheres", err)
	}
}
