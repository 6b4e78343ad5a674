// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/ridgeback/kinetic/physics"
)

// worldRunner wraps a physics.World with the bench CLI's own, standalone
// invariant checks (SPEC_FULL.md §4.6 stage 8), re-implemented against
// exported fields only since physics's own internal checks are private to
// its step orchestrator.
type worldRunner struct {
	w *physics.World
}

func newWorldRunner(w *physics.World) *worldRunner {
	return &worldRunner{w: w}
}

func (r *worldRunner) reportInvariants() {
	const quatTolerance = 1e-3
	badQuats := 0
	for i := range r.w.Spheres {
		if absf32(r.w.Spheres[i].Orientation.Len()-1) > quatTolerance {
			badQuats++
		}
	}
	for i := range r.w.Boxes {
		if absf32(r.w.Boxes[i].Orientation.Len()-1) > quatTolerance {
			badQuats++
		}
	}
	for i := range r.w.Cylinders {
		if absf32(r.w.Cylinders[i].Orientation.Len()-1) > quatTolerance {
			badQuats++
		}
	}
	fmt.Printf("quaternion norm violations: %d\n", badQuats)

	const slopFraction = 0.05
	overlaps := 0
	for i := 0; i < len(r.w.Spheres); i++ {
		for j := i + 1; j < len(r.w.Spheres); j++ {
			a, b := &r.w.Spheres[i], &r.w.Spheres[j]
			slop := slopFraction * a.Radius
			dist := a.Position.Sub(b.Position).Len()
			if dist < a.Radius+b.Radius-slop {
				overlaps++
			}
		}
	}
	fmt.Printf("sub-slop sphere interpenetrations: %d\n", overlaps)
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
