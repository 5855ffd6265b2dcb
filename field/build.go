package field

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/gogpu/particlize/geom"
)

// Build converts fields into kernel descriptors, in input order.
//
// Disabled fields are dropped. Plugin fields are expanded through reg; a
// nil registry or an unknown key contributes nothing. Every descriptor is
// sanitized so the kernel never sees a negative radius, a non-finite value or
// an inverted [MinRadius, Radius] band.
func Build(fields []Field, reg *Registry) []Descriptor {
	descs := make([]Descriptor, 0, len(fields))
	for _, f := range fields {
		f = deref(f)
		if f == nil || !f.IsEnabled() {
			continue
		}
		switch f := f.(type) {
		case Radial:
			descs = append(descs, banded(KindRadial, f.Position, f.Strength, f.Radius, f.Falloff, f.MinRadius))
		case Linear:
			descs = append(descs, directional(KindLinear, f.Vector, f.Strength))
		case Turbulence:
			descs = append(descs, banded(KindTurbulence, f.Position, f.Strength, f.Radius, f.Smoothness, f.MinRadius))
		case Vortex:
			descs = append(descs, banded(KindVortex, f.Position, f.Strength, f.Radius, f.Falloff, f.MinRadius))
		case Drag:
			descs = append(descs, Descriptor{Strength: f.Strength, Kind: KindDrag, Enabled: true})
		case Velocity:
			descs = append(descs, directional(KindVelocity, f.Vector, f.Strength))
		case LinearGravity:
			descs = append(descs, directional(KindLinearGravity, f.Vector, f.Strength))
		case Noise:
			d := banded(KindNoise, f.Position, f.Strength, f.Radius, f.Smoothness, f.MinRadius)
			d.Vector = geom.V2(f.AnimationSpeed, 0)
			descs = append(descs, d)
		case Electric:
			descs = append(descs, banded(KindElectric, f.Position, f.Strength, f.Radius, f.Falloff, f.MinRadius))
		case Magnetic:
			descs = append(descs, banded(KindMagnetic, f.Position, f.Strength, f.Radius, f.Falloff, f.MinRadius))
		case Spring:
			descs = append(descs, banded(KindSpring, f.Position, f.Strength, f.Radius, f.Falloff, f.MinRadius))
		case PluginField:
			descs = append(descs, expand(f, reg)...)
		default:
			logger().Warn("field: unsupported field type", slog.String("type", fmt.Sprintf("%T", f)))
		}
	}
	for i := range descs {
		descs[i] = Sanitize(descs[i])
	}
	return descs
}

// deref turns pointer variants into values. A nil pointer yields nil.
func deref(f Field) Field {
	switch p := f.(type) {
	case *Radial:
		return derefPtr(p)
	case *Linear:
		return derefPtr(p)
	case *Turbulence:
		return derefPtr(p)
	case *Vortex:
		return derefPtr(p)
	case *Drag:
		return derefPtr(p)
	case *Velocity:
		return derefPtr(p)
	case *LinearGravity:
		return derefPtr(p)
	case *Noise:
		return derefPtr(p)
	case *Electric:
		return derefPtr(p)
	case *Magnetic:
		return derefPtr(p)
	case *Spring:
		return derefPtr(p)
	case *PluginField:
		return derefPtr(p)
	}
	return f
}

func derefPtr[T Field](p *T) Field {
	if p == nil {
		return nil
	}
	return *p
}

func banded(k Kind, pos geom.Vec2, strength, radius, falloff, minRadius float32) Descriptor {
	return Descriptor{
		Position:  pos,
		Strength:  strength,
		Radius:    radius,
		Falloff:   falloff,
		MinRadius: minRadius,
		Kind:      k,
		Enabled:   true,
	}
}

func directional(k Kind, v geom.Vec2, strength float32) Descriptor {
	return Descriptor{Vector: v, Strength: strength, Kind: k, Enabled: true}
}

func expand(f PluginField, reg *Registry) []Descriptor {
	p, ok := reg.Lookup(f.Key)
	if !ok {
		logger().Debug("field: no plugin registered", slog.String("key", f.Key))
		return nil
	}
	out := p.Descriptors(f)
	valid := out[:0:0]
	for _, d := range out {
		if !d.Kind.Valid() {
			logger().Warn("field: plugin produced unknown kind",
				slog.String("key", f.Key), slog.Uint64("kind", uint64(d.Kind)))
			continue
		}
		if d.Enabled {
			valid = append(valid, d)
		}
	}
	return valid
}

// Sanitize clamps descriptor parameters into the range the kernel accepts.
// Non-finite numbers become zero, Radius is at least zero and MinRadius lies
// in [0, Radius]. Falloff is at least zero.
func Sanitize(d Descriptor) Descriptor {
	d.Position = finiteVec(d.Position)
	d.Vector = finiteVec(d.Vector)
	d.Strength = finite(d.Strength)
	d.Radius = math32.Max(finite(d.Radius), 0)
	d.Falloff = math32.Max(finite(d.Falloff), 0)
	d.MinRadius = math32.Min(math32.Max(finite(d.MinRadius), 0), d.Radius)
	return d
}

func finite(v float32) float32 {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return 0
	}
	return v
}

func finiteVec(v geom.Vec2) geom.Vec2 {
	return geom.V2(finite(v.X), finite(v.Y))
}
