// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package compute defines the kernel taxonomy, the buffer-binding contract,
// and the Backend interface shared by the CPU and GPU executors. See
// SPEC_FULL.md §4.1-4.2 for the full contract.
package compute

import "fmt"

// BufferView is a typed, read-only view of a byte buffer with a logical
// shape and an innermost element size. Construction is infallible —
// BufferView stores (data, shape, elementSize) verbatim; consistency is a
// dispatch precondition checked by the executors, not by NewBufferView.
//
// Go slices already share their backing array on assignment/slicing, so
// Clone copies only the small Shape slice and shares Data: no data bytes
// are copied, matching the
// reference-counted Arc<[u8]> sharing spec.md names in its design notes.
type BufferView struct {
	Data                []byte
	Shape               []int
	ElementSizeInBytes  int
}

// NewBufferView constructs a BufferView over data with the given logical
// shape and innermost element size in bytes.
func NewBufferView(data []byte, shape []int, elementSizeInBytes int) BufferView {
	return BufferView{Data: data, Shape: shape, ElementSizeInBytes: elementSizeInBytes}
}

// Clone returns a BufferView sharing the same backing bytes as v.
func (v BufferView) Clone() BufferView {
	shape := make([]int, len(v.Shape))
	copy(shape, v.Shape)
	return BufferView{Data: v.Data, Shape: shape, ElementSizeInBytes: v.ElementSizeInBytes}
}

// Len returns the number of logical elements described by Shape (the
// product of the dimensions), or 0 for an empty shape.
func (v BufferView) Len() int {
	if len(v.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range v.Shape {
		n *= d
	}
	return n
}

// Validate checks the Buffer View invariant from spec.md §3:
// data.len() == product(shape) * element_size_in_bytes, except for
// zero-product shapes where data.len() must also be 0.
func (v BufferView) Validate() error {
	n := v.Len()
	want := n * v.ElementSizeInBytes
	if n == 0 {
		if len(v.Data) != 0 {
			return NewShapeMismatch(fmt.Sprintf(
				"zero-product shape %v must have empty data, got %d bytes", v.Shape, len(v.Data)))
		}
		return nil
	}
	if len(v.Data) != want {
		return NewShapeMismatch(fmt.Sprintf(
			"buffer view shape %v * element size %d = %d bytes, got %d",
			v.Shape, v.ElementSizeInBytes, want, len(v.Data)))
	}
	return nil
}

// ValidateShape additionally requires the view's shape to equal want.
func (v BufferView) ValidateShape(want []int) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if len(v.Shape) != len(want) {
		return NewShapeMismatch(fmt.Sprintf("expected shape %v, got %v", want, v.Shape))
	}
	for i := range want {
		if v.Shape[i] != want[i] {
			return NewShapeMismatch(fmt.Sprintf("expected shape %v, got %v", want, v.Shape))
		}
	}
	return nil
}
