package particlize

import "github.com/gogpu/particlize/pixel"

// RasterOptions controls how a pixel buffer is sampled into particles.
type RasterOptions struct {
	// Stride samples every Stride-th pixel in both directions. Values
	// below 1 are treated as 1.
	Stride int

	// SkipChance is the percentage (0-100) of sampled pixels dropped to
	// thin out the result. The choice is a hash of the pixel coordinates
	// and Seed, so the same input always yields the same particles.
	SkipChance int

	// Seed varies the skip pattern.
	Seed uint32

	// Tint recolors particles. Pixels whose RGB is black (glyph masks)
	// take the tint's RGB and keep their alpha; colored pixels keep their
	// RGB and have alpha multiplied by Tint.A.
	Tint *Color

	// ParticleSize is the sprite diameter. Zero means DefaultParticleSize.
	ParticleSize float32
}

// tintBlackThreshold is the RGB sum at or below which a pixel counts as
// black for tinting.
const tintBlackThreshold = 1.0 / 255

// Rasterize converts every sampled pixel with positive alpha into a
// particle. Pixels are visited row by row; position (x, y) maps to view
// space (x - W/2, -(y - H/2)) and becomes both Position and Home.
//
// A nil or fully transparent buffer yields no particles. Rasterize never
// panics on truncated buffers; missing data reads as transparent.
func Rasterize(buf *pixel.Buffer, opts RasterOptions) []Particle {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 {
		return nil
	}
	stride := max(opts.Stride, 1)
	skip := min(max(opts.SkipChance, 0), 100)
	if skip == 100 {
		return nil
	}
	size := opts.ParticleSize
	if size <= 0 {
		size = DefaultParticleSize
	}

	halfW := float32(buf.Width) / 2
	halfH := float32(buf.Height) / 2

	var out []Particle
	for y := 0; y < buf.Height; y += stride {
		for x := 0; x < buf.Width; x += stride {
			if skip > 0 && skipHash(x, y, opts.Seed)%100 < uint32(skip) {
				continue
			}
			r, g, b, a := buf.Straight(x, y)
			if a <= 0 {
				continue
			}
			c := Color{R: r, G: g, B: b, A: a}
			if t := opts.Tint; t != nil {
				if r+g+b <= tintBlackThreshold {
					c.R, c.G, c.B = t.R, t.G, t.B
				} else {
					c.A *= t.A
				}
			}
			pos := V2(float32(x)-halfW, -(float32(y) - halfH))
			out = append(out, Particle{
				Position: pos,
				Color:    c,
				Size:     size,
				Home:     pos,
			})
		}
	}
	return out
}

// skipHash mixes pixel coordinates and a seed into a well-distributed
// 32-bit value (lowbias32 finalizer).
func skipHash(x, y int, seed uint32) uint32 {
	h := uint32(x)*0x9e3779b1 ^ uint32(y)*0x85ebca77 ^ seed*0xc2b2ae3d
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}
