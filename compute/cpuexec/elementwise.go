// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"math"

	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

const f32Size = 4

func f32Count(data []byte) int { return len(data) / f32Size }

func readF32(data []byte, i int) float32 { return mathf.GetF32(data[i*f32Size:]) }

func writeF32(dst []byte, i int, v float32) { mathf.PutF32(dst[i*f32Size:], v) }

func dispatchBinary(kernel compute.Kernel, bindings []compute.BufferView) ([][]byte, error) {
	a, b, out := bindings[0], bindings[1], bindings[2]
	if len(a.Data) != len(b.Data) {
		return nil, compute.NewShapeMismatch("binary op: in_a and in_b must share byte length")
	}
	n := f32Count(a.Data)
	result := make([]byte, len(out.Data))
	if len(result) != len(a.Data) {
		return nil, compute.NewShapeMismatch("binary op: out must share byte length with in_a")
	}
	var op func(x, y float32) float32
	switch kernel {
	case compute.Add:
		op = func(x, y float32) float32 { return x + y }
	case compute.Sub:
		op = func(x, y float32) float32 { return x - y }
	case compute.Mul:
		op = func(x, y float32) float32 { return x * y }
	case compute.Div:
		op = func(x, y float32) float32 { return x / y }
	case compute.Min:
		op = func(x, y float32) float32 {
			if x < y {
				return x
			}
			return y
		}
	case compute.Max:
		op = func(x, y float32) float32 {
			if x > y {
				return x
			}
			return y
		}
	}
	for i := 0; i < n; i++ {
		writeF32(result, i, op(readF32(a.Data, i), readF32(b.Data, i)))
	}
	return [][]byte{result}, nil
}

func dispatchWhere(bindings []compute.BufferView) ([][]byte, error) {
	cond, whenTrue, whenFalse, out := bindings[0], bindings[1], bindings[2], bindings[3]
	n := len(cond.Data) / f32Size
	if len(whenTrue.Data) != len(cond.Data) || len(whenFalse.Data) != len(cond.Data) {
		return nil, compute.NewShapeMismatch("where: cond, true, and false must share shape")
	}
	result := make([]byte, len(out.Data))
	if len(result) != len(cond.Data) {
		return nil, compute.NewShapeMismatch("where: out must share shape with cond")
	}
	for i := 0; i < n; i++ {
		if mathf.GetU32(cond.Data[i*f32Size:]) != 0 {
			writeF32(result, i, readF32(whenTrue.Data, i))
		} else {
			writeF32(result, i, readF32(whenFalse.Data, i))
		}
	}
	return [][]byte{result}, nil
}

func dispatchUnary(kernel compute.Kernel, bindings []compute.BufferView) ([][]byte, error) {
	in, out := bindings[0], bindings[1]
	n := f32Count(in.Data)
	result := make([]byte, len(out.Data))
	if len(result) != len(in.Data) {
		return nil, compute.NewShapeMismatch("unary op: out must share byte length with in")
	}
	var op func(x float32) float32
	switch kernel {
	case compute.Neg:
		op = func(x float32) float32 { return -x }
	case compute.Exp:
		op = func(x float32) float32 { return float32(math.Exp(float64(x))) }
	case compute.Log:
		op = func(x float32) float32 { return float32(math.Log(float64(x))) }
	case compute.Sqrt:
		op = func(x float32) float32 { return float32(math.Sqrt(float64(x))) }
	case compute.Rsqrt:
		op = func(x float32) float32 { return float32(1 / math.Sqrt(float64(x))) }
	case compute.Tanh:
		op = func(x float32) float32 { return float32(math.Tanh(float64(x))) }
	case compute.Relu:
		op = func(x float32) float32 {
			if x > 0 {
				return x
			}
			return 0
		}
	case compute.Sigmoid:
		op = func(x float32) float32 { return float32(1 / (1 + math.Exp(float64(-x)))) }
	}
	for i := 0; i < n; i++ {
		writeF32(result, i, op(readF32(in.Data, i)))
	}
	return [][]byte{result}, nil
}

// dispatchClamp applies max then min, per kernel semantics — the order
// matters when lo > hi.
func dispatchClamp(bindings []compute.BufferView) ([][]byte, error) {
	value, lo, hi, out := bindings[0], bindings[1], bindings[2], bindings[3]
	if len(lo.Data) != len(value.Data) || len(hi.Data) != len(value.Data) {
		return nil, compute.NewShapeMismatch("clamp: value, min, and max must share shape")
	}
	n := f32Count(value.Data)
	result := make([]byte, len(out.Data))
	if len(result) != len(value.Data) {
		return nil, compute.NewShapeMismatch("clamp: out must share shape with value")
	}
	for i := 0; i < n; i++ {
		v := readF32(value.Data, i)
		l := readF32(lo.Data, i)
		h := readF32(hi.Data, i)
		if v < l {
			v = l
		}
		if v > h {
			v = h
		}
		writeF32(result, i, v)
	}
	return [][]byte{result}, nil
}
