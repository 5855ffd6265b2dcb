package kernel

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/geom"
)

const (
	// epsilon guards divisions by distance.
	epsilon = 1e-4

	// velocityBias is how fast (1/s) a velocity field steers toward its
	// target velocity.
	velocityBias = 5
)

// weight is the falloff over [minRadius, radius]: 1 inside minRadius,
// (1-u)^falloff across the band, 0 beyond radius or for radius <= 0.
func weight(dist float32, f *field.Descriptor) float32 {
	if f.Radius <= 0 || dist > f.Radius {
		return 0
	}
	if dist <= f.MinRadius {
		return 1
	}
	span := f.Radius - f.MinRadius
	if span <= epsilon || f.Falloff <= 0 {
		return 1
	}
	u := math32.Min(math32.Max((dist-f.MinRadius)/span, 0), 1)
	base := 1 - u
	if base <= 0 {
		return 0
	}
	return math32.Pow(base, f.Falloff)
}

func inBand(dist float32, f *field.Descriptor) bool {
	return f.Radius > 0 && dist >= f.MinRadius && dist <= f.Radius
}

// state is what one step of one particle reads and writes.
type state struct {
	pos  geom.Vec2
	vel  geom.Vec2
	home geom.Vec2
}

// accelerate sums every field's contribution for s. It returns the
// acceleration, a positional drift velocity (noise fields move positions
// directly) and the total drag rate.
func accelerate(s *state, fields []field.Descriptor, dt, t float32) (acc, drift geom.Vec2, drag float32) {
	invDt := 1 / dt
	for i := range fields {
		f := &fields[i]
		if !f.Enabled {
			continue
		}
		switch f.Kind {
		case field.KindRadial, field.KindElectric, field.KindMagnetic:
			d := f.Position.Sub(s.pos)
			dist := d.Length()
			if w := weight(dist, f); w > 0 && dist > epsilon {
				acc = acc.Add(d.Mul(f.Strength * w / dist))
			}
		case field.KindLinear, field.KindLinearGravity:
			acc = acc.Add(f.Vector.Normalize().Mul(f.Strength))
		case field.KindVortex:
			d := s.pos.Sub(f.Position)
			dist := d.Length()
			if w := weight(dist, f); w > 0 && dist > epsilon {
				acc = acc.Add(d.Perp().Mul(f.Strength * w / dist))
			}
		case field.KindDrag:
			drag += math32.Max(f.Strength, 0)
		case field.KindVelocity:
			target := f.Vector.Normalize().Mul(f.Strength)
			acc = acc.Add(target.Sub(s.vel).Mul(math32.Min(velocityBias, invDt)))
		case field.KindSpring:
			d := f.Position.Sub(s.pos)
			dist := d.Length()
			if inBand(dist, f) {
				acc = acc.Add(d.Mul(f.Strength * weight(dist, f)))
			}
		case field.KindTurbulence:
			if inBand(s.pos.Sub(f.Position).Length(), f) {
				acc = acc.Add(noiseDir(s.pos, f.Falloff, t).Mul(f.Strength))
			}
		case field.KindNoise:
			if inBand(s.pos.Sub(f.Position).Length(), f) {
				drift = drift.Add(noiseDir(s.pos, f.Falloff, t*f.Vector.X).Mul(f.Strength))
			}
		}
	}
	return acc, drift, drag
}

// step advances one particle by p.DeltaTime.
func step(s *state, fields []field.Descriptor, p *Params) {
	dt := p.DeltaTime
	if dt <= 0 {
		return
	}
	acc, drift, drag := accelerate(s, fields, dt, p.Time)
	if p.HomingActive() {
		acc = acc.Add(s.home.Sub(s.pos).Mul(p.HomingStrength)).Sub(s.vel.Mul(p.HomingDamping))
	}
	// Drag scales velocity down by at most its full magnitude, so it never
	// reverses direction within a step.
	s.vel = s.vel.Add(acc.Mul(dt)).Mul(math32.Max(1-drag*dt, 0))
	s.pos = s.pos.Add(s.vel.Add(drift).Mul(dt))
}
