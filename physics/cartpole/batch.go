// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cartpole

import (
	"fmt"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
)

// Batch manages many independent CartPoles sharing one physics.World,
// arranged in a line along X so each stays within its own PositionLimit.
// Mirrors original_source's CartPoleGrid, generalized from a (rows, cols)
// grid to a flat count since the Z axis is unused by any CartPole (each one
// pins its pole to z=0).
type Batch struct {
	CartPoles []*CartPole
	Spacing   float32
}

// NewBatch adds count CartPoles to w, spaced Spacing meters apart along X
// and centered on x=0. It returns an error instead of panicking (unlike
// original_source) if the requested line would exceed any CartPole's
// PositionLimit, since a library function should let its caller decide how
// to handle a bad configuration.
func NewBatch(w *physics.World, count int, spacing float32, cfg Config) (*Batch, error) {
	totalWidth := float32(count-1) * spacing
	safetyMargin := float32(0.5)
	maxAllowedWidth := (cfg.PositionLimit - safetyMargin) * 2
	if totalWidth > maxAllowedWidth {
		return nil, fmt.Errorf("cartpole: batch of %d at spacing %g exceeds position limit (width %g > max %g)",
			count, spacing, totalWidth, maxAllowedWidth)
	}

	lineStartX := -totalWidth / 2
	cartpoles := make([]*CartPole, count)
	for i := 0; i < count; i++ {
		x := lineStartX + float32(i)*spacing
		cartpoles[i] = New(w, mathf.NewVec3(x, 0, 0), cfg)
	}

	return &Batch{CartPoles: cartpoles, Spacing: spacing}, nil
}

// ApplyActions applies actions[i] to CartPoles[i] for each i within range.
func (b *Batch) ApplyActions(actions []float32) {
	for i, cp := range b.CartPoles {
		if i < len(actions) {
			cp.ApplyForce(actions[i])
		}
	}
}

// CheckAndResetFailures checks every CartPole for failure, resets the ones
// that failed, and returns their indices.
func (b *Batch) CheckAndResetFailures() []int {
	var failed []int
	for i, cp := range b.CartPoles {
		if cp.CheckFailure() {
			failed = append(failed, i)
			cp.Reset()
		}
	}
	return failed
}

// States returns every CartPole's State(), in order.
func (b *Batch) States() [][4]float32 {
	states := make([][4]float32, len(b.CartPoles))
	for i, cp := range b.CartPoles {
		states[i] = cp.State()
	}
	return states
}

// ResetAll resets every CartPole in the batch.
func (b *Batch) ResetAll() {
	for _, cp := range b.CartPoles {
		cp.Reset()
	}
}
