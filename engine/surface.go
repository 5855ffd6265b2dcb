package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/particlize/internal/gpu"
	"github.com/gogpu/particlize/pixel"
	"github.com/gogpu/wgpu/hal"
)

// Surface is where frames are presented. Hosts implement it over their
// swapchain; OffscreenSurface implements it over a texture.
type Surface interface {
	// Format is the colour format of the views returned by AcquireView.
	Format() gputypes.TextureFormat

	// Size is the drawable size in pixels.
	Size() (width, height uint32)

	// AcquireView returns the view to render the next frame into. It
	// returns ErrNoDrawable when none is available right now.
	AcquireView() (hal.TextureView, error)

	// Present shows the frame rendered into the last acquired view.
	Present() error
}

// OffscreenSurface is a Surface backed by a texture, for headless runs and
// tests. Presenting only counts frames; ReadPixels copies the last frame
// back to the CPU.
type OffscreenSurface struct {
	queue     hal.Queue
	target    *gpu.Target
	presented atomic.Uint64
}

// NewOffscreenSurface creates a width x height RGBA8 surface.
func NewOffscreenSurface(device hal.Device, queue hal.Queue, width, height int) (*OffscreenSurface, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("engine: invalid surface size %dx%d", width, height)
	}
	target, err := gpu.NewTarget(device, uint32(width), uint32(height), gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, fmt.Errorf("engine: offscreen surface: %w", err)
	}
	return &OffscreenSurface{queue: queue, target: target}, nil
}

// Format implements Surface.
func (s *OffscreenSurface) Format() gputypes.TextureFormat { return s.target.Format() }

// Size implements Surface.
func (s *OffscreenSurface) Size() (width, height uint32) { return s.target.Size() }

// AcquireView implements Surface. The texture is always available.
func (s *OffscreenSurface) AcquireView() (hal.TextureView, error) {
	return s.target.View(), nil
}

// Present implements Surface.
func (s *OffscreenSurface) Present() error {
	s.presented.Add(1)
	return nil
}

// Presented is the number of frames presented so far.
func (s *OffscreenSurface) Presented() uint64 {
	return s.presented.Load()
}

// ReadPixels waits for the GPU and returns the last presented frame.
func (s *OffscreenSurface) ReadPixels() (*pixel.Buffer, error) {
	return s.target.ReadPixels(s.queue)
}

// Destroy releases the texture. The surface must not be attached to a
// running engine afterwards.
func (s *OffscreenSurface) Destroy() {
	s.target.Destroy()
}
