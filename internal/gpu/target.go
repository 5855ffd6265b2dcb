package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/particlize/pixel"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyPitchAlignment = 256

// ErrUnsupportedFormat is returned when reading back a target whose format
// is not 8-bit RGBA or BGRA.
var ErrUnsupportedFormat = errors.New("gpu: unsupported readback format")

// Target is a single-sampled offscreen colour texture that can be rendered
// to and read back.
type Target struct {
	device hal.Device
	format gputypes.TextureFormat
	width  uint32
	height uint32
	tex    hal.Texture
	view   hal.TextureView
}

// NewTarget creates a width x height render target.
func NewTarget(device hal.Device, width, height uint32, format gputypes.TextureFormat) (*Target, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("create target: invalid size %dx%d", width, height)
	}
	t := &Target{device: device, format: format, width: width, height: height}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target texture: %w", err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "offscreen_target_view",
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create target view: %w", err)
	}
	t.view = view
	return t, nil
}

// View returns the texture view to render into.
func (t *Target) View() hal.TextureView { return t.view }

// Format returns the texture format.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// Size returns the target dimensions in pixels.
func (t *Target) Size() (width, height uint32) { return t.width, t.height }

// ReadPixels copies the target back to the CPU. It blocks until the GPU has
// finished all work submitted on queue.
func (t *Target) ReadPixels(queue hal.Queue) (*pixel.Buffer, error) {
	var order pixel.Order
	switch t.format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		order = pixel.RGBA
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		order = pixel.BGRA
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, t.format)
	}

	bytesPerRow := t.width * 4
	aligned := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(aligned) * uint64(t.height)

	staging, err := newBuffer(t.device, "target_staging", size,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	defer staging.Release(t.device)

	err = submitAndWait(t.device, queue, "target_readback", func(enc hal.CommandEncoder) {
		enc.TransitionTextures([]hal.TextureBarrier{{
			Texture: t.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		enc.CopyTextureToBuffer(t.tex, staging.Buffer, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: aligned, RowsPerImage: t.height},
			TextureBase:  hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
			Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		}})
		enc.TransitionTextures([]hal.TextureBarrier{{
			Texture: t.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	})
	if err != nil {
		return nil, err
	}
	raw, err := readMapped(t.device, staging, size)
	if err != nil {
		return nil, err
	}
	return &pixel.Buffer{
		Width:  int(t.width),
		Height: int(t.height),
		Stride: int(aligned),
		Pix:    raw,
		Order:  order,
		Alpha:  pixel.Premultiplied,
	}, nil
}

// Destroy releases the texture and its view. Safe to call more than once.
func (t *Target) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
