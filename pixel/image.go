package pixel

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	// Decoders registered for Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"
)

// FromImage converts any image into an RGBA straight-alpha buffer.
// The image origin is moved to (0, 0).
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	bounds := img.Bounds()
	buf, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path for the formats decoders usually return.
	switch src := img.(type) {
	case *image.NRGBA:
		for y := range buf.Height {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.Pix[y*buf.Stride:(y+1)*buf.Stride], src.Pix[off:off+buf.Width*4])
		}
		return buf, nil
	case *Buffer:
		for y := range buf.Height {
			for x := range buf.Width {
				r, g, b, a := src.RGBA8(x, y)
				if src.Alpha == Premultiplied && a != 0 {
					r, g, b = unpremul8(r, a), unpremul8(g, a), unpremul8(b, a)
				}
				buf.SetStraight(x, y, r, g, b, a)
			}
		}
		return buf, nil
	}

	dst := &image.NRGBA{Pix: buf.Pix, Stride: buf.Stride, Rect: image.Rect(0, 0, buf.Width, buf.Height)}
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return buf, nil
}

func unpremul8(c, a uint8) uint8 {
	if c >= a {
		return 255
	}
	return uint8((uint16(c)*255 + uint16(a)/2) / uint16(a))
}

// Decode reads an encoded image (PNG, JPEG, GIF, WebP, BMP, TIFF) and
// converts it into a buffer.
func Decode(r io.Reader) (*Buffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("pixel: decode image: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("pixel: convert %s image: %w", format, err)
	}
	return buf, nil
}

// Fit scales img down so that neither side exceeds maxDim, preserving the
// aspect ratio. Images already within bounds, or maxDim <= 0, are returned
// unchanged.
func Fit(img image.Image, maxDim int) image.Image {
	if img == nil || maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
