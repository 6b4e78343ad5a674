// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package compute

import (
	"context"
	"fmt"
)

// Backend dispatches a single kernel invocation over a fixed set of
// bindings. Implementations own device/thread-pool selection; callers
// supply a workgroup count sized for the kernel's element count, the way
// spec.md §4.1 describes the dispatch contract.
//
// Dispatch returns one []byte per index in kernel.OutputIndices(), in that
// order. A ShapeMismatchError means the bindings were malformed and the
// dispatch never ran; any other error means the dispatch itself failed
// (e.g. ErrBackendUnavailable from the GPU executor).
type Backend interface {
	Dispatch(ctx context.Context, kernel Kernel, bindings []BufferView, workgroups [3]uint32) ([][]byte, error)

	// Name identifies the backend in log lines ("cpu" or "gpu").
	Name() string
}

// ValidateBindings checks bindings against kernel's binding-count and
// per-binding shape contract before a Backend touches them. Both shipped
// executors call this first thing in Dispatch so a malformed call fails
// the same way regardless of which backend is selected.
func ValidateBindings(kernel Kernel, bindings []BufferView) error {
	want := kernel.BindingCount()
	if len(bindings) != want {
		return NewShapeMismatch(fmt.Sprintf("%s expects %d bindings, got %d", kernel, want, len(bindings)))
	}
	for _, b := range bindings {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}
