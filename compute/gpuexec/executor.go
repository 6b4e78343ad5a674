// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package gpuexec

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ridgeback/kinetic/compute"
)

const dispatchWaitTimeout = 30 * time.Second

// Dispatch uploads bindings, runs kernel on the device, and reads back
// every output binding's bytes. It follows the algorithm in SPEC_FULL.md
// §4.4: one storage/uniform buffer per input, a map-read staging buffer per
// output, a single compute pass, a copy into staging, then a synchronous
// submit-and-wait before reading results back.
func (e *Executor) Dispatch(ctx context.Context, kernel compute.Kernel, bindings []compute.BufferView, workgroups [3]uint32) ([][]byte, error) {
	if err := compute.ValidateBindings(kernel, bindings); err != nil {
		return nil, err
	}
	if workgroups[0] == 0 || workgroups[1] == 0 || workgroups[2] == 0 {
		out := make([][]byte, len(kernel.OutputIndices()))
		for i, bi := range kernel.OutputIndices() {
			out[i] = make([]byte, len(bindings[bi].Data))
		}
		return out, nil
	}

	entry, err := e.getOrCreatePipeline(kernel)
	if err != nil {
		return nil, err
	}

	buffers := make([]hal.Buffer, len(bindings))
	defer func() {
		for _, b := range buffers {
			if b != nil {
				e.device.DestroyBuffer(b)
			}
		}
	}()

	outputSet := map[int]bool{}
	for _, oi := range kernel.OutputIndices() {
		outputSet[oi] = true
	}

	bgEntries := make([]gputypes.BindGroupEntry, len(bindings))
	stagingBuffers := make(map[int]hal.Buffer)
	defer func() {
		for _, b := range stagingBuffers {
			e.device.DestroyBuffer(b)
		}
	}()

	for i, b := range bindings {
		usage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
		if kernel.BindingRole(i) == compute.Uniform {
			usage = gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
		}
		size := uint64(len(b.Data))
		if size == 0 {
			size = 4 // zero-sized bindings still need a backing allocation.
		}
		buf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("%s-binding-%d", kernel, i),
			Size:  size,
			Usage: usage,
		})
		if err != nil {
			return nil, fmt.Errorf("gpuexec: %w: allocating binding %d for %s: %v", compute.ErrBackendUnavailable, i, kernel, err)
		}
		buffers[i] = buf
		if len(b.Data) > 0 {
			e.queue.WriteBuffer(buf, 0, b.Data)
		}
		bgEntries[i] = gputypes.BindGroupEntry{
			Binding:  uint32(i),
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
		}
		if outputSet[i] {
			staging, err := e.device.CreateBuffer(&hal.BufferDescriptor{
				Label: fmt.Sprintf("%s-staging-%d", kernel, i),
				Size:  size,
				Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageMapRead,
			})
			if err != nil {
				return nil, fmt.Errorf("gpuexec: %w: allocating staging for binding %d of %s: %v", compute.ErrBackendUnavailable, i, kernel, err)
			}
			stagingBuffers[i] = staging
		}
	}

	bindGroup, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   kernel.String() + "-bg",
		Layout:  entry.bindGroupLayout,
		Entries: bgEntries,
	})
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: bind group for %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}
	defer e.device.DestroyBindGroup(bindGroup)

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: kernel.String() + "-encoder"})
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: command encoder for %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}
	if err := encoder.BeginEncoding(kernel.String()); err != nil {
		return nil, fmt.Errorf("gpuexec: %w: begin encoding %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: kernel.String()})
	pass.SetPipeline(entry.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(workgroups[0], workgroups[1], workgroups[2])
	pass.End()

	for i, staging := range stagingBuffers {
		size := uint64(len(bindings[i].Data))
		if size == 0 {
			size = 4
		}
		encoder.CopyBufferToBuffer(buffers[i], staging, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}})
	}

	cmdBuffer, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: end encoding %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	fence, err := e.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: creating fence: %v", compute.ErrBackendUnavailable, err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuffer}, fence, 1); err != nil {
		return nil, fmt.Errorf("gpuexec: %w: submit %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}
	signaled, err := e.device.Wait(fence, 1, dispatchWaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: waiting on %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}
	if !signaled {
		return nil, fmt.Errorf("gpuexec: %w: %s timed out after %s", compute.ErrBackendUnavailable, kernel, dispatchWaitTimeout)
	}

	outIdx := kernel.OutputIndices()
	results := make([][]byte, len(outIdx))
	for n, bi := range outIdx {
		size := len(bindings[bi].Data)
		buf := make([]byte, size)
		if size > 0 {
			if err := e.queue.ReadBuffer(stagingBuffers[bi], 0, buf); err != nil {
				return nil, fmt.Errorf("gpuexec: %w: reading back binding %d of %s: %v", compute.ErrBackendUnavailable, bi, kernel, err)
			}
		}
		results[n] = buf
	}
	return results, nil
}
