package field

import "github.com/gogpu/particlize/geom"

// Presets tuned for a scene a few hundred pixels across. Each returns an
// enabled field centered at the origin.

// DefaultRadial returns a strong short-range repeller.
func DefaultRadial() Radial {
	return Radial{Strength: -10000, Radius: 150, Falloff: 0.5, Enabled: true}
}

// DefaultLinear returns a downward push.
func DefaultLinear() Linear {
	return Linear{Vector: geom.V2(0, -1), Strength: 120, Enabled: true}
}

// DefaultTurbulence returns a wide turbulence region.
func DefaultTurbulence() Turbulence {
	return Turbulence{Strength: 1200, Radius: 500, Smoothness: 0.5, Enabled: true}
}

// DefaultVortex returns a counter-clockwise swirl.
func DefaultVortex() Vortex {
	return Vortex{Strength: 800, Radius: 500, Falloff: 1, Enabled: true}
}

// DefaultDrag returns moderate damping.
func DefaultDrag() Drag {
	return Drag{Strength: 3, Enabled: true}
}

// DefaultVelocity returns a rightward flow.
func DefaultVelocity() Velocity {
	return Velocity{Vector: geom.V2(1, 0), Strength: 120, Enabled: true}
}

// DefaultLinearGravity returns downward gravity.
func DefaultLinearGravity() LinearGravity {
	return LinearGravity{Vector: geom.V2(0, -1), Strength: 150, Enabled: true}
}

// DefaultNoise returns a slowly animated drift.
func DefaultNoise() Noise {
	return Noise{Strength: 600, Radius: 600, Smoothness: 0.5, AnimationSpeed: 0.6, Enabled: true}
}

// DefaultElectric returns an attractor with quadratic falloff.
func DefaultElectric() Electric {
	return Electric{Strength: 900, Radius: 500, Falloff: 2, Enabled: true}
}

// DefaultMagnetic returns an attractor with quadratic falloff.
func DefaultMagnetic() Magnetic {
	return Magnetic{Strength: 900, Radius: 500, Falloff: 2, Enabled: true}
}

// DefaultSpring returns a soft spring toward the origin.
func DefaultSpring() Spring {
	return Spring{Strength: 5, Radius: 600, Falloff: 1, Enabled: true}
}

// Default returns the preset for kind k.
func Default(k Kind) (Field, bool) {
	switch k {
	case KindRadial:
		return DefaultRadial(), true
	case KindLinear:
		return DefaultLinear(), true
	case KindTurbulence:
		return DefaultTurbulence(), true
	case KindVortex:
		return DefaultVortex(), true
	case KindDrag:
		return DefaultDrag(), true
	case KindVelocity:
		return DefaultVelocity(), true
	case KindLinearGravity:
		return DefaultLinearGravity(), true
	case KindNoise:
		return DefaultNoise(), true
	case KindElectric:
		return DefaultElectric(), true
	case KindMagnetic:
		return DefaultMagnetic(), true
	case KindSpring:
		return DefaultSpring(), true
	default:
		return nil, false
	}
}
