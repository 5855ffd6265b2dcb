package text

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/particlize/pixel"
)

// Rasterize renders s into an alpha mask. Lines are separated by '\n' and
// centered horizontally. Text that produces no visible glyphs yields a
// transparent buffer at least one pixel in size.
func Rasterize(s string, opts ...Option) (*pixel.Buffer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.size <= 0 || math.IsNaN(o.size) || math.IsInf(o.size, 0) {
		return nil, ErrInvalidSize
	}
	f := o.font
	if f == nil {
		var err error
		if f, err = DefaultFont(); err != nil {
			return nil, err
		}
	}

	src := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	lines := make([]line, len(src))
	maxAdvance := 0.0
	for i, l := range src {
		lines[i] = shapeLine(l, f, &o)
		maxAdvance = max(maxAdvance, lines[i].advance)
	}

	m := f.Metrics(o.size)
	lineHeight := m.Height * o.lineSpacing
	pad := float64(o.padding)
	w := int(math.Ceil(maxAdvance + 2*pad))
	h := int(math.Ceil(m.Ascent + m.Descent + lineHeight*float64(len(lines)-1) + 2*pad))
	if w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	w, h = max(w, 1), max(h, 1)

	z := vector.NewRasterizer(w, h)
	var sbuf sfnt.Buffer
	ppem := toFixed(o.size)
	drawn := 0
	for i, l := range lines {
		originX := pad + (maxAdvance-l.advance)/2
		baseline := pad + m.Ascent + lineHeight*float64(i)
		for _, g := range l.glyphs {
			segs, err := f.outline.LoadGlyph(&sbuf, sfnt.GlyphIndex(g.id), ppem, nil)
			if err != nil {
				// Bitmap-only or missing glyphs have no outline to sample.
				slogger().Debug("text: skip glyph", "gid", g.id, "err", err)
				continue
			}
			appendOutline(z, segs, float32(originX+g.x), float32(baseline+g.y))
			drawn += len(segs)
		}
	}

	buf, err := pixel.New(w, h)
	if err != nil {
		return nil, err
	}
	if drawn == 0 {
		return buf, nil
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for y := range h {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, a := range row {
			buf.Pix[y*buf.Stride+x*4+3] = a
		}
	}
	return buf, nil
}

// appendOutline adds glyph segments (y down, relative to the glyph origin)
// to the rasterizer at (ox, oy).
func appendOutline(z *vector.Rasterizer, segs sfnt.Segments, ox, oy float32) {
	pt := func(p fixed.Point26_6) (float32, float32) {
		return ox + float32(p.X)/64, oy + float32(p.Y)/64
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			// MoveTo does not close the previous contour.
			z.ClosePath()
			x, y := pt(seg.Args[0])
			z.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			z.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			z.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	z.ClosePath()
}
