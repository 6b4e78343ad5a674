// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package compute

// Kernel is the closed set of compute operations this module knows how to
// dispatch. Adding a kernel is a coordinated change across this catalogue,
// the CPU executor, the GPU executor (entry point + WGSL source), and the
// binding-role table below — there is no reflection or dynamic
// registration, by design: both executors and every test exhaustively
// switch on Kernel.
type Kernel int

const (
	// Element-wise binary.
	Add Kernel = iota
	Sub
	Mul
	Div
	Min
	Max
	Where

	// Element-wise unary.
	Neg
	Exp
	Log
	Sqrt
	Rsqrt
	Tanh
	Relu
	Sigmoid

	// Element-wise ternary.
	Clamp

	// Reductions.
	ReduceSum
	ReduceMean
	ReduceMax
	SegmentedReduceSum

	// Indexing.
	ScatterAdd
	Gather

	// Linear algebra.
	MatMul

	// Physics passes.
	IntegrateBodies
	DetectContactsSphere
	DetectContactsBox
	DetectContactsSDF
	SolveContactsPBD
	SolveJointsPBD
	SolveRevoluteJoints
	SolvePrismaticJoints
	SolveBallJoints
	SolveFixedJoints

	// Utilities.
	ExpandInstances
	RngNormal
	AddBroadcast

	numKernels
)

// String returns the kernel's name, used for log lines and the panic
// messages of exhaustive switches that should never be reached.
func (k Kernel) String() string {
	if int(k) < 0 || int(k) >= len(kernelNames) {
		return "Kernel(invalid)"
	}
	return kernelNames[k]
}

var kernelNames = [numKernels]string{
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Min: "Min", Max: "Max", Where: "Where",
	Neg: "Neg", Exp: "Exp", Log: "Log", Sqrt: "Sqrt", Rsqrt: "Rsqrt", Tanh: "Tanh", Relu: "Relu", Sigmoid: "Sigmoid",
	Clamp: "Clamp",
	ReduceSum: "ReduceSum", ReduceMean: "ReduceMean", ReduceMax: "ReduceMax", SegmentedReduceSum: "SegmentedReduceSum",
	ScatterAdd: "ScatterAdd", Gather: "Gather",
	MatMul: "MatMul",
	IntegrateBodies: "IntegrateBodies", DetectContactsSphere: "DetectContactsSphere", DetectContactsBox: "DetectContactsBox",
	DetectContactsSDF: "DetectContactsSDF", SolveContactsPBD: "SolveContactsPBD", SolveJointsPBD: "SolveJointsPBD",
	SolveRevoluteJoints: "SolveRevoluteJoints", SolvePrismaticJoints: "SolvePrismaticJoints",
	SolveBallJoints: "SolveBallJoints", SolveFixedJoints: "SolveFixedJoints",
	ExpandInstances: "ExpandInstances", RngNormal: "RngNormal", AddBroadcast: "AddBroadcast",
}

// BindingRole classifies one binding slot of a kernel.
type BindingRole int

const (
	ReadStorage BindingRole = iota
	ReadWriteStorage
	Uniform
)

func (r BindingRole) String() string {
	switch r {
	case ReadStorage:
		return "ReadStorage"
	case ReadWriteStorage:
		return "ReadWriteStorage"
	case Uniform:
		return "Uniform"
	default:
		return "BindingRole(invalid)"
	}
}

type bindingSpec struct {
	roles   []BindingRole
	outputs []int
	entry   string
}

// catalogue is the single source of truth for binding_count, binding_role,
// output_indices, and entry_point_name, built once so every lookup is a
// table access. See spec.md §4.2 for the binding tables this encodes.
var catalogue [numKernels]bindingSpec

func init() {
	// Element-wise binary: in_a, in_b, out, config.
	binary := []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage, Uniform}
	for _, k := range []Kernel{Add, Sub, Mul, Div, Min, Max} {
		catalogue[k] = bindingSpec{roles: binary, outputs: []int{2}, entry: "k_" + k.String()}
	}
	// Where: cond(u32), true(f32), false(f32), out.
	catalogue[Where] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadStorage, ReadWriteStorage},
		outputs: []int{3},
		entry:   "k_where",
	}

	// Element-wise unary: in, out, config.
	unary := []BindingRole{ReadStorage, ReadWriteStorage, Uniform}
	for _, k := range []Kernel{Neg, Exp, Log, Sqrt, Rsqrt, Tanh, Relu, Sigmoid} {
		catalogue[k] = bindingSpec{roles: unary, outputs: []int{1}, entry: "k_" + k.String()}
	}

	// Clamp: value, min, max, out, config.
	catalogue[Clamp] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{3},
		entry:   "k_clamp",
	}

	// Reductions: in, out, config.
	reduce := []BindingRole{ReadStorage, ReadWriteStorage, Uniform}
	for _, k := range []Kernel{ReduceSum, ReduceMean, ReduceMax} {
		catalogue[k] = bindingSpec{roles: reduce, outputs: []int{1}, entry: "k_" + k.String()}
	}
	// SegmentedReduceSum: in, segment_starts(u32), out, config.
	catalogue[SegmentedReduceSum] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{2},
		entry:   "k_segmented_reduce_sum",
	}

	// ScatterAdd: values, indices(u32), accumulator, config.
	catalogue[ScatterAdd] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{2},
		entry:   "k_scatter_add",
	}
	// Gather: source, indices(u32), out, config.
	catalogue[Gather] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{2},
		entry:   "k_gather",
	}

	// MatMul: A, B, out, config(M,K,N: u32).
	catalogue[MatMul] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{2},
		entry:   "k_matmul",
	}

	// IntegrateBodies: spheres(RW), params(uniform), forces.
	catalogue[IntegrateBodies] = bindingSpec{
		roles:   []BindingRole{ReadWriteStorage, Uniform, ReadStorage},
		outputs: []int{0},
		entry:   "k_integrate_bodies",
	}
	// DetectContactsSphere: bodies, contacts(RW-out).
	catalogue[DetectContactsSphere] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadWriteStorage},
		outputs: []int{1},
		entry:   "k_detect_contacts_sphere",
	}
	// DetectContactsBox: bodies, box(uniform), contacts(RW-out).
	catalogue[DetectContactsBox] = bindingSpec{
		roles:   []BindingRole{ReadStorage, Uniform, ReadWriteStorage},
		outputs: []int{2},
		entry:   "k_detect_contacts_box",
	}
	// DetectContactsSDF: bodies, sdf, contacts(RW-out).
	catalogue[DetectContactsSDF] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage},
		outputs: []int{2},
		entry:   "k_detect_contacts_sdf",
	}
	// SolveContactsPBD: bodies(RW), contacts, params.
	catalogue[SolveContactsPBD] = bindingSpec{
		roles:   []BindingRole{ReadWriteStorage, ReadStorage, Uniform},
		outputs: []int{0},
		entry:   "k_solve_contacts_pbd",
	}
	// SolveJointsPBD: bodies(RW), joints, params.
	catalogue[SolveJointsPBD] = bindingSpec{
		roles:   []BindingRole{ReadWriteStorage, ReadStorage, Uniform},
		outputs: []int{0},
		entry:   "k_solve_joints_pbd",
	}
	// Solve{Revolute,Prismatic,Ball,Fixed}Joints: bodies(RW), joints, params.
	for _, k := range []Kernel{SolveRevoluteJoints, SolvePrismaticJoints, SolveBallJoints, SolveFixedJoints} {
		catalogue[k] = bindingSpec{
			roles:   []BindingRole{ReadWriteStorage, ReadStorage, Uniform},
			outputs: []int{0},
			entry:   "k_" + k.String(),
		}
	}

	// ExpandInstances: in, out, config(uniform).
	catalogue[ExpandInstances] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadWriteStorage, Uniform},
		outputs: []int{1},
		entry:   "k_expand_instances",
	}
	// RngNormal: out(RW), config.
	catalogue[RngNormal] = bindingSpec{
		roles:   []BindingRole{ReadWriteStorage, Uniform},
		outputs: []int{0},
		entry:   "k_rng_normal",
	}
	// AddBroadcast: a, b_scalar, out.
	catalogue[AddBroadcast] = bindingSpec{
		roles:   []BindingRole{ReadStorage, ReadStorage, ReadWriteStorage},
		outputs: []int{2},
		entry:   "k_add_broadcast",
	}
}

// BindingCount returns the number of Buffer Views kernel k expects.
func (k Kernel) BindingCount() int { return len(catalogue[k].roles) }

// BindingRole returns the role of binding i for kernel k.
func (k Kernel) BindingRole(i int) BindingRole { return catalogue[k].roles[i] }

// OutputIndices returns the subset of bindings kernel k writes; the
// executor must return exactly these bindings' bytes, in this order.
func (k Kernel) OutputIndices() []int {
	out := make([]int, len(catalogue[k].outputs))
	copy(out, catalogue[k].outputs)
	return out
}

// EntryPoint returns the GPU entry-point symbol for kernel k.
func (k Kernel) EntryPoint() string { return catalogue[k].entry }
