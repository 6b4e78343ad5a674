// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package builder

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
)

func TestAddSphereDerivesMassFromDensity(t *testing.T) {
	w := physics.NewWorld()
	material := physics.DefaultMaterial()
	material.Density = 2
	idx := AddSphereWithMaterial(w, mathf.Zero, mathf.Zero, 1, material)

	got := w.Spheres[idx].Mass
	want := physics.SphereMass(1, 2)
	if got != want {
		t.Errorf("mass = %g, want %g", got, want)
	}
	if w.Spheres[idx].Type != physics.Dynamic {
		t.Errorf("sphere type = %v, want Dynamic", w.Spheres[idx].Type)
	}
}

func TestAddBoxWithTypeKinematic(t *testing.T) {
	w := physics.NewWorld()
	idx := AddBoxWithType(w, mathf.NewVec3(0, 1, 0), mathf.NewVec3(1, 1, 1), mathf.Zero, physics.Kinematic)
	if w.Boxes[idx].Type != physics.Kinematic {
		t.Errorf("box type = %v, want Kinematic", w.Boxes[idx].Type)
	}
}

func TestAddDistanceJointIndexing(t *testing.T) {
	w := physics.NewWorld()
	a := AddSphere(w, mathf.NewVec3(-1, 0, 0), mathf.Zero, 0.5)
	b := AddSphere(w, mathf.NewVec3(1, 0, 0), mathf.Zero, 0.5)

	refA := physics.BodyRef{Kind: physics.SphereBody, Index: a}
	refB := physics.BodyRef{Kind: physics.SphereBody, Index: b}
	idx := AddDistanceJoint(w, refA, refB, 2)

	if got := w.DistanceJoints[idx].RestLength; got != 2 {
		t.Errorf("rest length = %g, want 2", got)
	}
	if w.DistanceJoints[idx].A != refA || w.DistanceJoints[idx].B != refB {
		t.Errorf("joint endpoints = %v/%v, want %v/%v", w.DistanceJoints[idx].A, w.DistanceJoints[idx].B, refA, refB)
	}
}

func TestAddPlaneFiniteExtents(t *testing.T) {
	w := physics.NewWorld()
	idx := AddPlane(w, mathf.NewVec3(0, 1, 0), 0, 5, 5)
	if w.Planes[idx].ExtentU != 5 || w.Planes[idx].ExtentV != 5 {
		t.Errorf("extents = %g/%g, want 5/5", w.Planes[idx].ExtentU, w.Planes[idx].ExtentV)
	}
}
