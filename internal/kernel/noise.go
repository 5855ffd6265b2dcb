package kernel

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/particlize/geom"
)

// noiseCell is the noise lattice spacing in pixels at zero smoothness.
const noiseCell = 64

// hash3 maps an integer lattice point to [0, 1). Unsigned wrap-around
// arithmetic matches the shader's u32 operations bit for bit.
func hash3(x, y, z int32) float32 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841 ^ uint32(z)*0xcb1ab31f
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return float32(h>>8) / 16777216
}

func smooth(t float32) float32 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// valueNoise3 is trilinear value noise in [0, 1).
func valueNoise3(x, y, z float32) float32 {
	fx, fy, fz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	ix, iy, iz := int32(fx), int32(fy), int32(fz)
	tx, ty, tz := smooth(x-fx), smooth(y-fy), smooth(z-fz)

	c000 := hash3(ix, iy, iz)
	c100 := hash3(ix+1, iy, iz)
	c010 := hash3(ix, iy+1, iz)
	c110 := hash3(ix+1, iy+1, iz)
	c001 := hash3(ix, iy, iz+1)
	c101 := hash3(ix+1, iy, iz+1)
	c011 := hash3(ix, iy+1, iz+1)
	c111 := hash3(ix+1, iy+1, iz+1)

	x00 := lerp(c000, c100, tx)
	x10 := lerp(c010, c110, tx)
	x01 := lerp(c001, c101, tx)
	x11 := lerp(c011, c111, tx)
	return lerp(lerp(x00, x10, ty), lerp(x01, x11, ty), tz)
}

// noiseFrequency is the lattice frequency for a smoothness value; smoother
// fields vary over longer distances.
func noiseFrequency(smoothness float32) float32 {
	return 1 / (noiseCell * (1 + 4*math32.Max(smoothness, 0)))
}

// noiseDir returns a unit vector whose angle follows the noise field at p
// and time t.
func noiseDir(p geom.Vec2, smoothness, t float32) geom.Vec2 {
	f := noiseFrequency(smoothness)
	angle := valueNoise3(p.X*f, p.Y*f, t) * 2 * math32.Pi
	return geom.V2(math32.Cos(angle), math32.Sin(angle))
}
