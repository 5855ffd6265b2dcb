package field

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/particlize/geom"
)

// DescriptorSize is the size in bytes of one encoded Descriptor. It matches
// the Field struct in the simulation shader.
const DescriptorSize = 40

// Descriptor is the fixed-layout form of a field consumed by the kernel.
//
//	offset  0: position  vec2<f32>
//	offset  8: vector    vec2<f32>
//	offset 16: strength  f32
//	offset 20: radius    f32
//	offset 24: falloff   f32
//	offset 28: minRadius f32
//	offset 32: kind      u32
//	offset 36: enabled   u32
type Descriptor struct {
	Position  geom.Vec2
	Vector    geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Kind      Kind
	Enabled   bool
}

// AppendBinary appends the little-endian encoding of d to b.
func (d Descriptor) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, math.Float32bits(d.Position.X))
	b = le.AppendUint32(b, math.Float32bits(d.Position.Y))
	b = le.AppendUint32(b, math.Float32bits(d.Vector.X))
	b = le.AppendUint32(b, math.Float32bits(d.Vector.Y))
	b = le.AppendUint32(b, math.Float32bits(d.Strength))
	b = le.AppendUint32(b, math.Float32bits(d.Radius))
	b = le.AppendUint32(b, math.Float32bits(d.Falloff))
	b = le.AppendUint32(b, math.Float32bits(d.MinRadius))
	b = le.AppendUint32(b, uint32(d.Kind))
	var enabled uint32
	if d.Enabled {
		enabled = 1
	}
	return le.AppendUint32(b, enabled)
}

// Marshal encodes descriptors back to back.
func Marshal(descs []Descriptor) []byte {
	b := make([]byte, 0, len(descs)*DescriptorSize)
	for _, d := range descs {
		b = d.AppendBinary(b)
	}
	return b
}

// Unmarshal decodes descriptors produced by Marshal. Trailing bytes that do
// not form a whole descriptor are ignored.
func Unmarshal(b []byte) []Descriptor {
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(b[off:])) }
	descs := make([]Descriptor, 0, len(b)/DescriptorSize)
	for ; len(b) >= DescriptorSize; b = b[DescriptorSize:] {
		descs = append(descs, Descriptor{
			Position:  geom.V2(f(0), f(4)),
			Vector:    geom.V2(f(8), f(12)),
			Strength:  f(16),
			Radius:    f(20),
			Falloff:   f(24),
			MinRadius: f(28),
			Kind:      Kind(le.Uint32(b[32:])),
			Enabled:   le.Uint32(b[36:]) != 0,
		})
	}
	return descs
}
