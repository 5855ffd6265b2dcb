package field

import "github.com/gogpu/particlize/geom"

// Kind identifies a field kind in the descriptor. Values are part of the
// kernel contract and never change.
type Kind uint32

// Field kinds.
const (
	KindRadial        Kind = 0
	KindLinear        Kind = 1
	KindTurbulence    Kind = 2
	KindVortex        Kind = 3
	KindDrag          Kind = 4
	KindVelocity      Kind = 5
	KindLinearGravity Kind = 6
	KindNoise         Kind = 7
	KindElectric      Kind = 8
	KindMagnetic      Kind = 9
	KindSpring        Kind = 10
)

var kindNames = [...]string{
	KindRadial:        "radial",
	KindLinear:        "linear",
	KindTurbulence:    "turbulence",
	KindVortex:        "vortex",
	KindDrag:          "drag",
	KindVelocity:      "velocity",
	KindLinearGravity: "linearGravity",
	KindNoise:         "noise",
	KindElectric:      "electric",
	KindMagnetic:      "magnetic",
	KindSpring:        "spring",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// Field is a force field. The set of implementations is closed; use one of
// the kind structs in this package or PluginField.
type Field interface {
	// IsEnabled reports whether the field contributes to the simulation.
	IsEnabled() bool

	field()
}

// Radial pulls particles toward Position (negative Strength repels).
type Radial struct {
	Position  geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Enabled   bool
}

// Linear applies a constant acceleration along Vector.
type Linear struct {
	Vector   geom.Vec2
	Strength float32
	Enabled  bool
}

// Turbulence applies an animated pseudo-random acceleration inside its
// radius. Smoothness lowers the noise frequency.
type Turbulence struct {
	Position   geom.Vec2
	Strength   float32
	Radius     float32
	Smoothness float32
	MinRadius  float32
	Enabled    bool
}

// Vortex swirls particles counter-clockwise around Position (negative
// Strength swirls clockwise).
type Vortex struct {
	Position  geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Enabled   bool
}

// Drag damps velocity proportionally to Strength.
type Drag struct {
	Strength float32
	Enabled  bool
}

// Velocity steers particle velocity toward Strength along Vector.
type Velocity struct {
	Vector   geom.Vec2
	Strength float32
	Enabled  bool
}

// LinearGravity is a constant acceleration along Vector, typically down.
type LinearGravity struct {
	Vector   geom.Vec2
	Strength float32
	Enabled  bool
}

// Noise drifts particle positions along an animated noise flow.
type Noise struct {
	Position       geom.Vec2
	Strength       float32
	Radius         float32
	Smoothness     float32
	AnimationSpeed float32
	MinRadius      float32
	Enabled        bool
}

// Electric attracts toward (or, with negative Strength, repels from)
// Position.
type Electric struct {
	Position  geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Enabled   bool
}

// Magnetic is modeled as a radial attractor; there is no per-particle
// charge or velocity cross term.
type Magnetic struct {
	Position  geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Enabled   bool
}

// Spring pulls particles toward Position proportionally to their distance,
// only between MinRadius and Radius.
type Spring struct {
	Position  geom.Vec2
	Strength  float32
	Radius    float32
	Falloff   float32
	MinRadius float32
	Enabled   bool
}

// PluginField is a field whose descriptors are produced by the Plugin
// registered under Key.
type PluginField struct {
	Key      string
	Position geom.Vec2
	Vector   geom.Vec2
	Params   map[string]float32
	Enabled  bool
}

// Param returns a named parameter or def when it is absent.
func (p PluginField) Param(name string, def float32) float32 {
	if v, ok := p.Params[name]; ok {
		return v
	}
	return def
}

func (f Radial) IsEnabled() bool        { return f.Enabled }
func (f Linear) IsEnabled() bool        { return f.Enabled }
func (f Turbulence) IsEnabled() bool    { return f.Enabled }
func (f Vortex) IsEnabled() bool        { return f.Enabled }
func (f Drag) IsEnabled() bool          { return f.Enabled }
func (f Velocity) IsEnabled() bool      { return f.Enabled }
func (f LinearGravity) IsEnabled() bool { return f.Enabled }
func (f Noise) IsEnabled() bool         { return f.Enabled }
func (f Electric) IsEnabled() bool      { return f.Enabled }
func (f Magnetic) IsEnabled() bool      { return f.Enabled }
func (f Spring) IsEnabled() bool        { return f.Enabled }
func (f PluginField) IsEnabled() bool   { return f.Enabled }

func (Radial) field()        {}
func (Linear) field()        {}
func (Turbulence) field()    {}
func (Vortex) field()        {}
func (Drag) field()          {}
func (Velocity) field()      {}
func (LinearGravity) field() {}
func (Noise) field()         {}
func (Electric) field()      {}
func (Magnetic) field()      {}
func (Spring) field()        {}
func (PluginField) field()   {}
