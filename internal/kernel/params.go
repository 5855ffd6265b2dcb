package kernel

import (
	"encoding/binary"
	"math"
)

// ParamsSize is the size in bytes of encoded Params, matching the SimParams
// uniform in the simulation shader.
const ParamsSize = 32

// Params are the per-frame simulation inputs.
//
//	offset  0: deltaTime              f32
//	offset  4: time                   f32
//	offset  8: fieldCount             u32
//	offset 12: homingEnabled          u32
//	offset 16: homingOnlyWhenNoFields u32
//	offset 20: homingStrength         f32
//	offset 24: homingDamping          f32
//	offset 28: particleCount          u32
type Params struct {
	DeltaTime              float32
	Time                   float32
	FieldCount             uint32
	HomingEnabled          bool
	HomingOnlyWhenNoFields bool
	HomingStrength         float32
	HomingDamping          float32
	ParticleCount          uint32
}

// AppendBinary appends the little-endian encoding of p to b.
func (p Params) AppendBinary(b []byte) []byte {
	le := binary.LittleEndian
	b = le.AppendUint32(b, math.Float32bits(p.DeltaTime))
	b = le.AppendUint32(b, math.Float32bits(p.Time))
	b = le.AppendUint32(b, p.FieldCount)
	b = le.AppendUint32(b, boolBits(p.HomingEnabled))
	b = le.AppendUint32(b, boolBits(p.HomingOnlyWhenNoFields))
	b = le.AppendUint32(b, math.Float32bits(p.HomingStrength))
	b = le.AppendUint32(b, math.Float32bits(p.HomingDamping))
	return le.AppendUint32(b, p.ParticleCount)
}

// HomingActive reports whether homing applies this frame.
func (p Params) HomingActive() bool {
	return p.HomingEnabled && !(p.HomingOnlyWhenNoFields && p.FieldCount > 0)
}

func boolBits(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
