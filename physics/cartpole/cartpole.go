// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package cartpole composes a CartPole reinforcement-learning entity out of
// a Kinematic cart (a physics.Box), a Dynamic pole (a physics.Cylinder), and
// a revolute joint between them, mirroring
// original_source/crates/physics/src/cartpole.rs.
package cartpole

import (
	"math"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
	"github.com/ridgeback/kinetic/physics/builder"
)

// Config holds a CartPole's tunable parameters, matching
// original_source's CartPoleConfig field-for-field.
type Config struct {
	CartSize       mathf.Vec3
	CartMass       float32
	PoleLength     float32
	PoleRadius     float32
	PoleMass       float32
	InitialAngle   float32
	ForceMagnitude float32
	FailureAngle   float32
	PositionLimit  float32
}

// DefaultConfig matches original_source's Default impl: a cart with
// half-extents 0.6x0.1x0.3m (CartSize is passed as the box's half-extents),
// a 2m pole 5cm in radius, an 80-degree failure angle, and a 4m position
// limit.
func DefaultConfig() Config {
	return Config{
		CartSize:       mathf.NewVec3(0.6, 0.1, 0.3),
		CartMass:       1.0,
		PoleLength:     2.0,
		PoleRadius:     0.05,
		PoleMass:       0.1,
		InitialAngle:   0.05,
		ForceMagnitude: 10.0,
		FailureAngle:   1.4,
		PositionLimit:  4.0,
	}
}

// CartPole is one cart+pole system living inside a shared physics.World.
type CartPole struct {
	World  *physics.World
	Config Config

	CartIndex  int
	PoleIndex  int
	JointIndex int

	initialPosition mathf.Vec3
	failed          bool
}

// New adds a CartPole's cart, pole, and revolute joint to w at position, and
// returns the handle used to drive and inspect it.
func New(w *physics.World, position mathf.Vec3, cfg Config) *CartPole {
	cartPos := mathf.NewVec3(position.X, position.Y+cfg.CartSize.Y, position.Z)
	cartIdx := builder.AddBoxWithType(w, cartPos, cfg.CartSize, mathf.Zero, physics.Kinematic)
	w.Boxes[cartIdx].Mass = cfg.CartMass
	w.Boxes[cartIdx].Material.Friction = 0.8
	w.Boxes[cartIdx].Material.Restitution = 0

	jointAnchorOnCart := mathf.NewVec3(0, cfg.CartSize.Y, 0)
	jointWorldPos := cartPos.Add(jointAnchorOnCart)

	poleHalfHeight := cfg.PoleLength / 2
	sinA, cosA := sincos(cfg.InitialAngle)
	poleOffset := mathf.NewVec3(sinA*poleHalfHeight, cosA*poleHalfHeight, 0)
	polePos := jointWorldPos.Add(poleOffset)
	polePos.Z = 0

	poleIdx := builder.AddCylinderWithType(w, polePos, cfg.PoleRadius, poleHalfHeight, mathf.Zero, physics.Dynamic)
	w.Cylinders[poleIdx].Mass = cfg.PoleMass
	w.Cylinders[poleIdx].Orientation = zRotation(cfg.InitialAngle)

	cartRef := physics.BodyRef{Kind: physics.BoxBody, Index: cartIdx}
	poleRef := physics.BodyRef{Kind: physics.CylinderBody, Index: poleIdx}
	jointIdx := builder.AddRevoluteJoint(w, cartRef, jointAnchorOnCart, poleRef, mathf.NewVec3(0, -poleHalfHeight, 0), mathf.NewVec3(0, 0, 1))

	return &CartPole{
		World:           w,
		Config:          cfg,
		CartIndex:       cartIdx,
		PoleIndex:       poleIdx,
		JointIndex:      jointIdx,
		initialPosition: position,
	}
}

// zRotation returns the quaternion rotating angle radians around +Z,
// matching original_source's hand-assembled [0,0,sin(a/2),cos(a/2)].
func zRotation(angle float32) mathf.Quat {
	sinHalf, cosHalf := sincos(angle * 0.5)
	return mathf.Quat{X: 0, Y: 0, Z: sinHalf, W: cosHalf}
}

func sincos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}

// ApplyForce drives the cart with action clamped to [-1,1], scaled by
// Config.ForceMagnitude: -1 is full left, +1 is full right. The cart is
// Kinematic (SPEC_FULL.md §4.5: "position/velocity set externally"), so
// World.Step's integrator never applies gravity or force to it directly —
// ApplyForce is that external mechanism, converting force to an immediate
// velocity change via F=ma over one World.Dt.
func (c *CartPole) ApplyForce(action float32) {
	if action > 1 {
		action = 1
	} else if action < -1 {
		action = -1
	}
	force := action * c.Config.ForceMagnitude
	cart := &c.World.Boxes[c.CartIndex]
	if cart.Mass > 0 {
		cart.Velocity.X += (force / cart.Mass) * c.World.Dt
	}
}

// PoleAngle returns the pole's angle from vertical, in radians, measured in
// the cart's X-Y plane.
func (c *CartPole) PoleAngle() float32 {
	cart := &c.World.Boxes[c.CartIndex]
	pole := &c.World.Cylinders[c.PoleIndex]
	jointPos := cart.Position.Add(mathf.NewVec3(0, c.Config.CartSize.Y, 0))
	poleVec := pole.Position.Sub(jointPos)
	return atan2f32(poleVec.X, poleVec.Y)
}

func atan2f32(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

// State returns [cart position X, cart velocity X, pole angle, pole angular
// velocity around Z], the classic CartPole observation vector.
func (c *CartPole) State() [4]float32 {
	cart := &c.World.Boxes[c.CartIndex]
	pole := &c.World.Cylinders[c.PoleIndex]
	return [4]float32{cart.Position.X, cart.Velocity.X, c.PoleAngle(), pole.AngVelocity.Z}
}

// CheckFailure reports whether the cart has left its position limit or the
// pole has exceeded its failure angle, latching Failed once tripped.
func (c *CartPole) CheckFailure() bool {
	if c.failed {
		return true
	}
	cartX := c.World.Boxes[c.CartIndex].Position.X
	if absf32(cartX) > c.Config.PositionLimit {
		c.failed = true
		return true
	}
	if absf32(c.PoleAngle()) > c.Config.FailureAngle {
		c.failed = true
		return true
	}
	return false
}

// Failed reports the latched failure state without re-evaluating it.
func (c *CartPole) Failed() bool { return c.failed }

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Reset restores the cart and pole to their construction-time pose with
// zero velocity, and clears the failed latch and any applied force.
func (c *CartPole) Reset() {
	c.failed = false

	cfg := c.Config
	cartPos := mathf.NewVec3(c.initialPosition.X, c.initialPosition.Y+cfg.CartSize.Y, c.initialPosition.Z)
	cart := &c.World.Boxes[c.CartIndex]
	cart.Position = cartPos
	cart.Velocity = mathf.Zero
	cart.AngVelocity = mathf.Zero

	jointPos := cartPos.Add(mathf.NewVec3(0, cfg.CartSize.Y, 0))
	poleHalfHeight := cfg.PoleLength / 2
	sinA, cosA := sincos(cfg.InitialAngle)
	polePos := jointPos.Add(mathf.NewVec3(sinA*poleHalfHeight, cosA*poleHalfHeight, 0))
	polePos.Z = jointPos.Z

	pole := &c.World.Cylinders[c.PoleIndex]
	pole.Position = polePos
	pole.Velocity = mathf.Zero
	pole.AngVelocity = mathf.Zero
	pole.Orientation = zRotation(cfg.InitialAngle)
}
