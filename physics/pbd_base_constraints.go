// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// rollingResistanceFactor returns the per-step linear-velocity scale
// SPEC_FULL.md §4.6 specifies: 1% damping per 60Hz frame, scaled to the
// step's actual dt so the effective damping rate is dt-independent.
func rollingResistanceFactor(dt float32) float32 {
	return maxf32(0, 1-0.01*dt*60)
}

// applyRollingResistance scales vel toward zero by the rolling-resistance
// factor and snaps it to zero below the 1e-3 m/s settling threshold, so
// resting contacts stop exactly rather than creeping asymptotically.
func applyRollingResistance(vel mathf.Vec3, dt float32) mathf.Vec3 {
	v := vel.Scale(rollingResistanceFactor(dt))
	if v.Len() < 1e-3 {
		return mathf.Zero
	}
	return v
}

// quatNormWithinTolerance checks spec.md §4.6 stage 8's first invariant:
// every quaternion's norm stays within 1e-3 of 1 after a step.
func quatNormWithinTolerance(q mathf.Quat) bool {
	return absf32(q.Len()-1) <= 1e-3
}

// spheresOverlap checks spec.md §4.6 stage 8's third invariant: no two
// dynamic spheres have centers closer than r_i+r_j-slop.
func spheresOverlap(a, b *Sphere, slop float32) bool {
	dist := a.Position.Sub(b.Position).Len()
	return dist < a.Radius+b.Radius-slop
}
