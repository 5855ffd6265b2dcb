package gpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Buffer is a GPU buffer together with its size in bytes.
type Buffer struct {
	hal.Buffer
	Size uint64
}

// NewStorageBuffer creates a storage buffer of size bytes that can be
// written from the CPU and copied out for readback.
func NewStorageBuffer(device hal.Device, label string, size uint64) (*Buffer, error) {
	return newBuffer(device, label, size,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst|gputypes.BufferUsageCopySrc)
}

// NewUniformBuffer creates a uniform buffer holding slots regions of
// SlotAlignment bytes.
func NewUniformBuffer(device hal.Device, label string, slots int) (*Buffer, error) {
	return newBuffer(device, label, SlotOffset(slots),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
}

func newBuffer(device hal.Device, label string, size uint64, usage gputypes.BufferUsage) (*Buffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("create %s: zero size", label)
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	slogger().Debug("buffer created", "label", label, "size", size)
	return &Buffer{Buffer: buf, Size: size}, nil
}

// Binding returns a bind group resource covering size bytes from offset.
// A zero size binds the rest of the buffer.
func (b *Buffer) Binding(offset, size uint64) gputypes.BufferBinding {
	if size == 0 {
		size = b.Size - offset
	}
	return gputypes.BufferBinding{Buffer: b.NativeHandle(), Offset: offset, Size: size}
}

// Release destroys the buffer. Safe on nil.
func (b *Buffer) Release(device hal.Device) {
	if b == nil || b.Buffer == nil {
		return
	}
	device.DestroyBuffer(b.Buffer)
	b.Buffer = nil
}

// ReadBuffer copies size bytes of src back to the CPU. It blocks until the
// copy has executed.
func ReadBuffer(device hal.Device, queue hal.Queue, src *Buffer, size uint64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if size > src.Size {
		size = src.Size
	}
	staging, err := newBuffer(device, "readback_staging", size,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer staging.Release(device)

	err = submitAndWait(device, queue, "readback", func(enc hal.CommandEncoder) {
		enc.CopyBufferToBuffer(src.Buffer, staging.Buffer, []hal.BufferCopy{{Size: size}})
	})
	if err != nil {
		return nil, err
	}
	return readMapped(device, staging, size)
}

// readMapped maps a host-visible buffer and copies size bytes out of it.
func readMapped(device hal.Device, buf *Buffer, size uint64) ([]byte, error) {
	m, err := device.MapBuffer(buf.Buffer, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map %d bytes: %w", size, err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(m.Ptr), size)) //nolint:gosec // mapped range is size bytes
	if err := device.UnmapBuffer(buf.Buffer); err != nil {
		return nil, fmt.Errorf("unmap: %w", err)
	}
	return out, nil
}

// submitAndWait records commands into a fresh encoder, submits them and
// blocks until the queue reports completion.
func submitAndWait(device hal.Device, queue hal.Queue, label string, record func(hal.CommandEncoder)) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	record(encoder)
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmd)

	idx, err := queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return WaitSubmission(device, queue, idx, 5*time.Second)
}

// WaitSubmission blocks until submission idx has completed on queue. If it
// has not completed within timeout the device is drained with WaitIdle.
func WaitSubmission(device hal.Device, queue hal.Queue, idx uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			slogger().Warn("submission wait timed out, draining device", "submission", idx)
			if err := device.WaitIdle(); err != nil {
				return fmt.Errorf("wait idle: %w", err)
			}
			return nil
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}
