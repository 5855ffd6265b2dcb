// Package pixel provides the normalized 4-channel pixel buffer that feeds
// particle rasterization.
//
// A Buffer is a read-only view over 8-bit pixels with a declared channel
// order and alpha mode. Sources that produce BGRA or premultiplied data
// (GPU readbacks, platform glyph rasterizers) describe their layout instead
// of converting up front; readers normalize per pixel.
package pixel

import (
	"errors"
	"image"
	"image/color"
)

// Order is the byte order of the four channels of a pixel.
type Order uint8

const (
	// RGBA stores red, green, blue, alpha.
	RGBA Order = iota
	// BGRA stores blue, green, red, alpha.
	BGRA
)

// String returns the channel order name.
func (o Order) String() string {
	switch o {
	case RGBA:
		return "RGBA"
	case BGRA:
		return "BGRA"
	default:
		return "unknown"
	}
}

// AlphaMode tells whether color channels are already multiplied by alpha.
type AlphaMode uint8

const (
	// Straight means color channels are independent of alpha.
	Straight AlphaMode = iota
	// Premultiplied means color channels are scaled by alpha.
	Premultiplied
)

// String returns the alpha mode name.
func (m AlphaMode) String() string {
	switch m {
	case Straight:
		return "straight"
	case Premultiplied:
		return "premultiplied"
	default:
		return "unknown"
	}
}

// Errors returned by constructors.
var (
	// ErrInvalidSize is returned for non-positive dimensions.
	ErrInvalidSize = errors.New("pixel: invalid buffer size")

	// ErrNilImage is returned when converting a nil image.
	ErrNilImage = errors.New("pixel: nil image")
)

// Buffer is a rectangular block of 8-bit, 4-channel pixels.
//
// Stride is the number of bytes between the starts of two rows. Pix may be
// shorter than Height*Stride; pixels past the end of Pix read as fully
// transparent.
type Buffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
	Order  Order
	Alpha  AlphaMode
}

// New allocates a zeroed (transparent) RGBA straight-alpha buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]byte, width*height*4),
		Order:  RGBA,
		Alpha:  Straight,
	}, nil
}

// offset returns the byte offset of (x, y), or -1 when the pixel is outside
// the buffer or its data.
func (b *Buffer) offset(x, y int) int {
	if b == nil || x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return -1
	}
	stride := b.Stride
	if stride < b.Width*4 {
		stride = b.Width * 4
	}
	i := y*stride + x*4
	if i+4 > len(b.Pix) {
		return -1
	}
	return i
}

// Alpha8 returns the raw alpha byte at (x, y).
func (b *Buffer) Alpha8(x, y int) uint8 {
	i := b.offset(x, y)
	if i < 0 {
		return 0
	}
	return b.Pix[i+3]
}

// RGBA8 returns the raw channels at (x, y) in RGBA order, without any alpha
// conversion.
func (b *Buffer) RGBA8(x, y int) (r, g, bl, a uint8) {
	i := b.offset(x, y)
	if i < 0 {
		return 0, 0, 0, 0
	}
	p := b.Pix[i : i+4 : i+4]
	if b.Order == BGRA {
		return p[2], p[1], p[0], p[3]
	}
	return p[0], p[1], p[2], p[3]
}

// Straight returns the pixel at (x, y) as straight-alpha channels in [0,1].
// Premultiplied sources are un-premultiplied; color is clamped to alpha
// first, so malformed premultiplied data never exceeds 1.
func (b *Buffer) Straight(x, y int) (r, g, bl, a float32) {
	r8, g8, b8, a8 := b.RGBA8(x, y)
	if a8 == 0 {
		return 0, 0, 0, 0
	}
	a = float32(a8) / 255
	if b.Alpha != Premultiplied {
		return float32(r8) / 255, float32(g8) / 255, float32(b8) / 255, a
	}
	inv := 1 / float32(a8)
	return unpremul(r8, a8, inv), unpremul(g8, a8, inv), unpremul(b8, a8, inv), a
}

func unpremul(c, a uint8, inv float32) float32 {
	if c > a {
		c = a
	}
	return float32(c) * inv
}

// SetStraight writes a straight-alpha pixel, converting to the buffer's
// order and alpha mode. Out-of-range writes are ignored.
func (b *Buffer) SetStraight(x, y int, r, g, bl, a uint8) {
	i := b.offset(x, y)
	if i < 0 {
		return
	}
	if b.Alpha == Premultiplied {
		r = uint8(uint16(r) * uint16(a) / 255)
		g = uint8(uint16(g) * uint16(a) / 255)
		bl = uint8(uint16(bl) * uint16(a) / 255)
	}
	p := b.Pix[i : i+4 : i+4]
	if b.Order == BGRA {
		p[0], p[1], p[2], p[3] = bl, g, r, a
		return
	}
	p[0], p[1], p[2], p[3] = r, g, bl, a
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	r, g, bl, a := b.RGBA8(x, y)
	if b.Alpha == Premultiplied {
		return color.RGBA{R: min(r, a), G: min(g, a), B: min(bl, a), A: a}
	}
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// Empty reports whether every pixel is fully transparent.
func (b *Buffer) Empty() bool {
	for y := range b.Height {
		for x := range b.Width {
			if b.Alpha8(x, y) != 0 {
				return false
			}
		}
	}
	return true
}
