// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package gpuexec

import (
	"fmt"

	"github.com/ridgeback/kinetic/compute"
)

// wgslSource holds one compute entry point per kernel, keyed by
// compute.Kernel and named by kernel.EntryPoint(). naga compiles each WGSL
// string to the target backend's native IR (SPIR-V/MSL/HLSL) inside
// hal.Device.CreateShaderModule; this package never touches that IR.
var wgslSource = map[compute.Kernel]string{}

func init() {
	for k, op := range map[compute.Kernel]string{
		compute.Add: "a + b",
		compute.Sub: "a - b",
		compute.Mul: "a * b",
		compute.Div: "a / b",
		compute.Min: "min(a, b)",
		compute.Max: "max(a, b)",
	} {
		wgslSource[k] = binaryOpWGSL(k, op)
	}

	for k, expr := range map[compute.Kernel]string{
		compute.Neg:     "-x",
		compute.Exp:     "exp(x)",
		compute.Log:     "log(x)",
		compute.Sqrt:    "sqrt(x)",
		compute.Rsqrt:   "inverseSqrt(x)",
		compute.Tanh:    "tanh(x)",
		compute.Relu:    "max(x, 0.0)",
		compute.Sigmoid: "1.0 / (1.0 + exp(-x))",
	} {
		wgslSource[k] = unaryOpWGSL(k, expr)
	}

	wgslSource[compute.Where] = whereWGSL
	wgslSource[compute.Clamp] = clampWGSL

	for k, expr := range map[compute.Kernel]string{
		compute.ReduceSum:  "sum",
		compute.ReduceMean: "select(0.0, sum / f32(n), n > 0u)",
		compute.ReduceMax:  "best",
	} {
		wgslSource[k] = reduceWGSL(k, expr)
	}
	wgslSource[compute.SegmentedReduceSum] = segmentedReduceSumWGSL
	wgslSource[compute.ScatterAdd] = scatterAddWGSL
	wgslSource[compute.Gather] = gatherWGSL
	wgslSource[compute.MatMul] = matMulWGSL

	wgslSource[compute.IntegrateBodies] = integrateBodiesWGSL
	wgslSource[compute.DetectContactsSphere] = detectContactsSphereWGSL
	wgslSource[compute.DetectContactsBox] = detectContactsBoxWGSL
	wgslSource[compute.DetectContactsSDF] = detectContactsSDFWGSL
	wgslSource[compute.SolveContactsPBD] = solveContactsPBDWGSL
	wgslSource[compute.SolveJointsPBD] = solveJointsPBDWGSL
	for _, k := range []compute.Kernel{
		compute.SolveRevoluteJoints, compute.SolvePrismaticJoints, compute.SolveBallJoints, compute.SolveFixedJoints,
	} {
		wgslSource[k] = jointPlaceholderWGSL(k)
	}

	wgslSource[compute.ExpandInstances] = expandInstancesWGSL
	wgslSource[compute.RngNormal] = rngNormalWGSL
	wgslSource[compute.AddBroadcast] = addBroadcastWGSL
}

func binaryOpWGSL(k compute.Kernel, expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> in_a: array<f32>;
@group(0) @binding(1) var<storage, read> in_b: array<f32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(3) var<uniform> config: Config;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	let a = in_a[i];
	let b = in_b[i];
	out[i] = %s;
}
`, k.EntryPoint(), expr)
}

func unaryOpWGSL(k compute.Kernel, expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> in_vals: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(2) var<uniform> config: Config;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	let x = in_vals[i];
	out[i] = %s;
}
`, k.EntryPoint(), expr)
}

var whereWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> cond: array<u32>;
@group(0) @binding(1) var<storage, read> when_true: array<f32>;
@group(0) @binding(2) var<storage, read> when_false: array<f32>;
@group(0) @binding(3) var<storage, read_write> out: array<f32>;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	out[i] = select(when_false[i], when_true[i], cond[i] != 0u);
}
`, compute.Where.EntryPoint())

var clampWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> value: array<f32>;
@group(0) @binding(1) var<storage, read> lo: array<f32>;
@group(0) @binding(2) var<storage, read> hi: array<f32>;
@group(0) @binding(3) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(4) var<uniform> config: Config;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	out[i] = min(max(value[i], lo[i]), hi[i]);
}
`, compute.Clamp.EntryPoint())

// reduceWGSL intentionally records the single-workgroup accumulation loop
// this module runs with: a real engine would use a tree reduction across
// workgroups, but this reference path dispatches one workgroup of size 1
// and loops the whole input, which the CPU executor matches exactly.
func reduceWGSL(k compute.Kernel, resultExpr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> in_vals: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(2) var<uniform> config: Config;

@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&in_vals);
	var sum: f32 = 0.0;
	var best: f32 = 0.0;
	for (var i: u32 = 0u; i < n; i = i + 1u) {
		let v = in_vals[i];
		sum = sum + v;
		if (i == 0u || v > best) { best = v; }
	}
	out[0] = %s;
}
`, k.EntryPoint(), resultExpr)
}

var segmentedReduceSumWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> in_vals: array<f32>;
@group(0) @binding(1) var<storage, read> starts: array<u32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(3) var<uniform> config: Config;

@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&in_vals);
	let s = arrayLength(&starts);
	for (var seg: u32 = 0u; seg < s; seg = seg + 1u) {
		let begin = starts[seg];
		var end = n;
		if (seg + 1u < s) { end = starts[seg + 1u]; }
		var sum: f32 = 0.0;
		for (var i: u32 = begin; i < end; i = i + 1u) {
			sum = sum + in_vals[i];
		}
		out[seg] = sum;
	}
}
`, compute.SegmentedReduceSum.EntryPoint())

var scatterAddWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> values: array<f32>;
@group(0) @binding(1) var<storage, read> indices: array<u32>;
@group(0) @binding(2) var<storage, read_write> accumulator: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(3) var<uniform> config: Config;

// Single-invocation left-to-right accumulation: duplicate-index order is
// an explicit non-guarantee of this kernel on GPU (see the CPU executor's
// doc comment), so this reference shader does not attempt atomics.
@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&values);
	for (var i: u32 = 0u; i < n; i = i + 1u) {
		let idx = indices[i];
		accumulator[idx] = accumulator[idx] + values[i];
	}
}
`, compute.ScatterAdd.EntryPoint())

var gatherWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> source: array<f32>;
@group(0) @binding(1) var<storage, read> indices: array<u32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;
struct Config { reserved: u32 }
@group(0) @binding(3) var<uniform> config: Config;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	out[i] = source[indices[i]];
}
`, compute.Gather.EntryPoint())

var matMulWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> c: array<f32>;
struct Config { m: u32, k: u32, n: u32 }
@group(0) @binding(3) var<uniform> config: Config;

@compute @workgroup_size(16, 16)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let row = id.x;
	let col = id.y;
	if (row >= config.m || col >= config.n) { return; }
	var sum: f32 = 0.0;
	for (var p: u32 = 0u; p < config.k; p = p + 1u) {
		sum = sum + a[row * config.k + p] * b[p * config.n + col];
	}
	c[row * config.n + col] = sum;
}
`, compute.MatMul.EntryPoint())

var integrateBodiesWGSL = fmt.Sprintf(`
struct Sphere {
	pos: vec3<f32>, _pad0: f32,
	vel: vec3<f32>, _pad1: f32,
	orient: vec4<f32>,
	angvel: vec3<f32>, _pad2: f32,
}
struct Params { gravity: vec3<f32>, _pad: f32, dt: f32 }
struct Force { fx: f32, fz: f32 }

@group(0) @binding(0) var<storage, read_write> spheres: array<Sphere>;
@group(0) @binding(1) var<uniform> params: Params;
@group(0) @binding(2) var<storage, read> forces: array<Force>;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&spheres)) { return; }
	var s = spheres[i];
	let f = forces[i];
	s.vel = s.vel + (params.gravity + vec3<f32>(f.fx, 0.0, f.fz)) * params.dt;
	s.pos = s.pos + s.vel * params.dt;
	if (s.pos.y < 0.0) {
		s.pos.y = 0.0;
		s.vel.y = 0.0;
	}
	spheres[i] = s;
}
`, compute.IntegrateBodies.EntryPoint())

var detectContactsSphereWGSL = fmt.Sprintf(`
struct SphereIn { pos: vec3<f32>, radius: f32 }
struct Contact { body_index: u32, normal: vec3<f32>, depth: f32, _pad: vec3<f32> }

@group(0) @binding(0) var<storage, read> bodies: array<SphereIn>;
@group(0) @binding(1) var<storage, read_write> contacts: array<Contact>;

// Reference single-invocation narrow phase: the CPU executor runs the
// identical O(n^2) loop so the two paths agree exactly.
@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&bodies);
	var slot: u32 = 0u;
	let capacity = arrayLength(&contacts);
	for (var i: u32 = 0u; i < n; i = i + 1u) {
		for (var j: u32 = i + 1u; j < n; j = j + 1u) {
			let d = bodies[j].pos - bodies[i].pos;
			let dist = length(d);
			let overlap = bodies[i].radius + bodies[j].radius - dist;
			if (overlap > 0.0 && slot + 2u <= capacity) {
				var normal = vec3<f32>(1.0, 0.0, 0.0);
				if (dist > 1e-8) { normal = -d / dist; }
				let half = overlap * 0.5;
				contacts[slot] = Contact(i, normal, half, vec3<f32>(0.0));
				slot = slot + 1u;
				contacts[slot] = Contact(j, -normal, half, vec3<f32>(0.0));
				slot = slot + 1u;
			}
		}
	}
}
`, compute.DetectContactsSphere.EntryPoint())

var detectContactsBoxWGSL = fmt.Sprintf(`
struct SphereIn { pos: vec3<f32>, radius: f32 }
struct BoxUniform { center: vec3<f32>, _pad0: f32, half_extents: vec3<f32>, _pad1: f32 }
struct Contact { body_index: u32, normal: vec3<f32>, depth: f32, _pad: vec3<f32> }

@group(0) @binding(0) var<storage, read> bodies: array<SphereIn>;
@group(0) @binding(1) var<uniform> box: BoxUniform;
@group(0) @binding(2) var<storage, read_write> contacts: array<Contact>;

@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&bodies);
	var slot: u32 = 0u;
	let capacity = arrayLength(&contacts);
	for (var i: u32 = 0u; i < n; i = i + 1u) {
		let local = bodies[i].pos - box.center;
		let closest = clamp(local, -box.half_extents, box.half_extents);
		let to_sphere = local - closest;
		let dist = length(to_sphere);
		if (dist > 1e-8 && dist < bodies[i].radius && slot < capacity) {
			contacts[slot] = Contact(i, to_sphere / dist, bodies[i].radius - dist, vec3<f32>(0.0));
			slot = slot + 1u;
		}
	}
}
`, compute.DetectContactsBox.EntryPoint())

// detectContactsSDFWGSL has no bound geometry in this module (the SDF
// renderer collaborator is out of scope); it reports no contacts.
var detectContactsSDFWGSL = fmt.Sprintf(`
struct Contact { body_index: u32, normal: vec3<f32>, depth: f32, _pad: vec3<f32> }
@group(0) @binding(0) var<storage, read> bodies: array<f32>;
@group(0) @binding(1) var<storage, read> sdf: array<f32>;
@group(0) @binding(2) var<storage, read_write> contacts: array<Contact>;

@compute @workgroup_size(1)
fn %s() {}
`, compute.DetectContactsSDF.EntryPoint())

var solveContactsPBDWGSL = fmt.Sprintf(`
struct Sphere {
	pos: vec3<f32>, _pad0: f32,
	vel: vec3<f32>, _pad1: f32,
	orient: vec4<f32>,
	angvel: vec3<f32>, _pad2: f32,
}
struct Contact { body_index: u32, normal: vec3<f32>, depth: f32, _pad: vec3<f32> }
struct Params { gravity: vec3<f32>, _pad: f32, dt: f32 }

@group(0) @binding(0) var<storage, read_write> bodies: array<Sphere>;
@group(0) @binding(1) var<storage, read> contacts: array<Contact>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&contacts);
	for (var c: u32 = 0u; c < n; c = c + 1u) {
		let contact = contacts[c];
		if (contact.depth > 0.0) {
			bodies[contact.body_index].pos = bodies[contact.body_index].pos + contact.normal * contact.depth;
		}
	}
}
`, compute.SolveContactsPBD.EntryPoint())

var solveJointsPBDWGSL = fmt.Sprintf(`
struct Sphere {
	pos: vec3<f32>, _pad0: f32,
	vel: vec3<f32>, _pad1: f32,
	orient: vec4<f32>,
	angvel: vec3<f32>, _pad2: f32,
}
struct Joint { body_a: u32, body_b: u32, rest_length: f32, _pad: u32 }
struct Params { gravity: vec3<f32>, _pad: f32, dt: f32 }

@group(0) @binding(0) var<storage, read_write> bodies: array<Sphere>;
@group(0) @binding(1) var<storage, read> joints: array<Joint>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(1)
fn %s() {
	let n = arrayLength(&joints);
	for (var j: u32 = 0u; j < n; j = j + 1u) {
		let joint = joints[j];
		let a = bodies[joint.body_a].pos;
		let b = bodies[joint.body_b].pos;
		let d = b - a;
		let l = length(d);
		if (l > 0.0) {
			let correction = (d / l) * (l - joint.rest_length) * 0.5;
			bodies[joint.body_a].pos = a + correction;
			bodies[joint.body_b].pos = b - correction;
		}
	}
}
`, compute.SolveJointsPBD.EntryPoint())

// jointPlaceholderWGSL is the explicit no-op the reference solve uses for
// revolute/prismatic/ball/fixed joints: the bodies binding passes through
// unmodified. physics.World.Step enforces these constraints itself.
func jointPlaceholderWGSL(k compute.Kernel) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read_write> bodies: array<f32>;
@group(0) @binding(1) var<storage, read> joints: array<f32>;
@group(0) @binding(2) var<uniform> params: array<f32>;

@compute @workgroup_size(1)
fn %s() {}
`, k.EntryPoint())
}

var expandInstancesWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> in_vals: array<f32>;
@group(0) @binding(1) var<storage, read_write> out: array<f32>;
struct Config { instance_count: u32 }
@group(0) @binding(2) var<uniform> config: Config;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let src_len = arrayLength(&in_vals);
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	out[i] = in_vals[i %% src_len];
}
`, compute.ExpandInstances.EntryPoint())

var rngNormalWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read_write> out: array<f32>;
struct Config { seed: u32 }
@group(0) @binding(1) var<uniform> config: Config;

fn hash(x: u32) -> u32 {
	var h = x ^ config.seed;
	h = h ^ (h >> 16u);
	h = h * 0x7feb352du;
	h = h ^ (h >> 15u);
	return h;
}

// Box-Muller from two independent hashed uniforms; deterministic given the
// same seed, matching the CPU executor's seeded math/rand source.
@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	let u1 = f32(hash(i * 2u)) / 4294967295.0;
	let u2 = f32(hash(i * 2u + 1u)) / 4294967295.0;
	out[i] = sqrt(-2.0 * log(max(u1, 1e-7))) * cos(6.2831853 * u2);
}
`, compute.RngNormal.EntryPoint())

var addBroadcastWGSL = fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b_scalar: array<f32>;
@group(0) @binding(2) var<storage, read_write> out: array<f32>;

@compute @workgroup_size(256)
fn %s(@builtin(global_invocation_id) id: vec3<u32>) {
	let i = id.x;
	if (i >= arrayLength(&out)) { return; }
	out[i] = a[i] + b_scalar[0];
}
`, compute.AddBroadcast.EntryPoint())
