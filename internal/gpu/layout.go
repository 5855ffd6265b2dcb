package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sizes and alignments shared with the WGSL structs.
const (
	// ParticleStride is the size of one Particle in the particle buffer.
	ParticleStride = 48

	// FieldStride is the size of one Field in the field buffer.
	FieldStride = 40

	// ParamsSize is the size of the SimParams uniform.
	ParamsSize = 32

	// UniformsSize is the size of the sprite Uniforms block.
	UniformsSize = 80

	// SlotAlignment is the offset alignment of per-frame uniform regions.
	SlotAlignment = 256

	// WorkgroupSize matches @workgroup_size in the simulation kernel.
	WorkgroupSize = 64
)

// WorkgroupCount is the number of workgroups that covers n particles.
func WorkgroupCount(n uint32) uint32 {
	return (n + WorkgroupSize - 1) / WorkgroupSize
}

// SlotOffset is the byte offset of uniform region slot.
func SlotOffset(slot int) uint64 {
	return uint64(slot) * SlotAlignment
}

// Uniforms are the per-frame inputs of the sprite renderer.
//
//	offset  0: view_to_clip mat4x4<f32>
//	offset 64: view_size    vec2<f32>
//	offset 72: emitting     f32
//	offset 76: padding
type Uniforms struct {
	ViewWidth  float32
	ViewHeight float32
	Emitting   bool
}

// ViewToClip maps view space (origin at the centre, y up, one unit per
// pixel) to clip space.
func (u Uniforms) ViewToClip() mgl32.Mat4 {
	w, h := u.ViewWidth/2, u.ViewHeight/2
	if w <= 0 || h <= 0 {
		return mgl32.Ident4()
	}
	return mgl32.Ortho2D(-w, w, -h, h)
}

// AppendBinary appends the little-endian encoding of u to b.
func (u Uniforms) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	m := u.ViewToClip()
	for _, f := range m {
		b = le.AppendUint32(b, math.Float32bits(f))
	}
	b = le.AppendUint32(b, math.Float32bits(u.ViewWidth))
	b = le.AppendUint32(b, math.Float32bits(u.ViewHeight))
	var emitting float32
	if u.Emitting {
		emitting = 1
	}
	b = le.AppendUint32(b, math.Float32bits(emitting))
	return le.AppendUint32(b, 0)
}
