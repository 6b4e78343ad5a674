// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package cpuexec is the reference CPU implementation of every kernel in
// compute.Kernel. Kernels are pure functions of their bindings, so Executor
// carries no state and Dispatch is safe for concurrent use by construction.
package cpuexec

import (
	"context"

	"github.com/ridgeback/kinetic/compute"
)

// Executor runs kernels against host memory.
type Executor struct{}

// New returns a CPU executor. There is nothing to configure or fail on.
func New() *Executor { return &Executor{} }

func init() {
	compute.RegisterCPUBackend(func() compute.Backend { return New() })
}

// Name identifies this backend in log lines.
func (e *Executor) Name() string { return "cpu" }

// Dispatch validates bindings, executes kernel's semantics, and returns the
// bytes of every output binding in kernel.OutputIndices() order.
func (e *Executor) Dispatch(ctx context.Context, kernel compute.Kernel, bindings []compute.BufferView, workgroups [3]uint32) ([][]byte, error) {
	if err := compute.ValidateBindings(kernel, bindings); err != nil {
		return nil, err
	}
	if workgroups[0] == 0 || workgroups[1] == 0 || workgroups[2] == 0 {
		return emptyOutputs(kernel, bindings), nil
	}
	switch kernel {
	case compute.Add, compute.Sub, compute.Mul, compute.Div, compute.Min, compute.Max:
		return dispatchBinary(kernel, bindings)
	case compute.Where:
		return dispatchWhere(bindings)
	case compute.Neg, compute.Exp, compute.Log, compute.Sqrt, compute.Rsqrt, compute.Tanh, compute.Relu, compute.Sigmoid:
		return dispatchUnary(kernel, bindings)
	case compute.Clamp:
		return dispatchClamp(bindings)
	case compute.ReduceSum, compute.ReduceMean, compute.ReduceMax:
		return dispatchReduce(kernel, bindings)
	case compute.SegmentedReduceSum:
		return dispatchSegmentedReduceSum(bindings)
	case compute.ScatterAdd:
		return dispatchScatterAdd(bindings)
	case compute.Gather:
		return dispatchGather(bindings)
	case compute.MatMul:
		return dispatchMatMul(bindings)
	case compute.IntegrateBodies:
		return dispatchIntegrateBodies(bindings)
	case compute.DetectContactsSphere:
		return dispatchDetectContactsSphere(bindings)
	case compute.DetectContactsBox:
		return dispatchDetectContactsBox(bindings)
	case compute.DetectContactsSDF:
		// No SDF collaborator ships with this module; the kernel is wired
		// through the catalogue but has no reference geometry to test
		// against, so it reports no contacts.
		return [][]byte{{}}, nil
	case compute.SolveContactsPBD:
		return dispatchSolveContactsPBD(bindings)
	case compute.SolveJointsPBD:
		return dispatchSolveJointsPBD(bindings)
	case compute.SolveRevoluteJoints, compute.SolvePrismaticJoints, compute.SolveBallJoints, compute.SolveFixedJoints:
		// Reference solve is a no-op placeholder; see spec's open question.
		// physics.World.Step enforces these constraints at the host level
		// instead of through these kernels.
		return [][]byte{bindings[0].Data}, nil
	case compute.ExpandInstances:
		return dispatchExpandInstances(bindings)
	case compute.RngNormal:
		return dispatchRngNormal(bindings)
	case compute.AddBroadcast:
		return dispatchAddBroadcast(bindings)
	default:
		panic("cpuexec: unhandled kernel " + kernel.String())
	}
}

func emptyOutputs(kernel compute.Kernel, bindings []compute.BufferView) [][]byte {
	idx := kernel.OutputIndices()
	out := make([][]byte, len(idx))
	for i, bi := range idx {
		out[i] = make([]byte, len(bindings[bi].Data))
	}
	return out
}
