package particlize

import (
	"encoding/binary"
	"math"
)

// ParticleSize is the size in bytes of one encoded Particle. It matches the
// Particle struct in the simulation and sprite shaders.
const ParticleSize = 48

// DefaultParticleSize is the sprite diameter used when none is given.
const DefaultParticleSize = 2

// Particle is one simulated point.
//
// Home is where the particle was created, after centering and spawn offset.
// The simulation never changes it; homing pulls Position back toward it.
//
// GPU layout:
//
//	offset  0: position vec2<f32>
//	offset  8: velocity vec2<f32>
//	offset 16: color    vec4<f32>
//	offset 32: size     f32
//	offset 36: lifetime f32
//	offset 40: home     vec2<f32>
type Particle struct {
	Position Vec2
	Velocity Vec2
	Color    Color
	Size     float32
	Lifetime float32
	Home     Vec2
}

// AppendBinary appends the little-endian encoding of p to b.
func (p Particle) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	for _, f := range [...]float32{
		p.Position.X, p.Position.Y,
		p.Velocity.X, p.Velocity.Y,
		p.Color.R, p.Color.G, p.Color.B, p.Color.A,
		p.Size, p.Lifetime,
		p.Home.X, p.Home.Y,
	} {
		b = le.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// MarshalParticles encodes particles back to back.
func MarshalParticles(ps []Particle) []byte {
	b := make([]byte, 0, len(ps)*ParticleSize)
	for i := range ps {
		b = ps[i].AppendBinary(b)
	}
	return b
}

// UnmarshalParticles decodes particles produced by MarshalParticles, for
// example a GPU readback. Trailing partial records are ignored.
func UnmarshalParticles(b []byte) []Particle {
	le := binary.LittleEndian
	ps := make([]Particle, len(b)/ParticleSize)
	for i := range ps {
		r := b[i*ParticleSize : (i+1)*ParticleSize]
		f := func(off int) float32 { return math.Float32frombits(le.Uint32(r[off:])) }
		ps[i] = Particle{
			Position: V2(f(0), f(4)),
			Velocity: V2(f(8), f(12)),
			Color:    Color{R: f(16), G: f(20), B: f(24), A: f(28)},
			Size:     f(32),
			Lifetime: f(36),
			Home:     V2(f(40), f(44)),
		}
	}
	return ps
}
