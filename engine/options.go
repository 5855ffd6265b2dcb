package engine

import (
	"time"

	"github.com/gogpu/particlize/field"
)

// Defaults for engine options.
const (
	// DefaultMaxDelta caps the simulation step so a stalled frame does not
	// launch particles across the view.
	DefaultMaxDelta = time.Second / 30

	// DefaultFramesInFlight is the number of per-frame uniform regions.
	DefaultFramesInFlight = 3

	// maxFramesInFlight bounds WithFramesInFlight.
	maxFramesInFlight = 8
)

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := engine.New(device, queue,
//	    engine.WithRegistry(reg),
//	    engine.WithMaxDelta(time.Second/20),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	registry       *field.Registry
	maxDelta       time.Duration
	framesInFlight int
	clock          func() time.Time
	spirv          bool
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		maxDelta:       DefaultMaxDelta,
		framesInFlight: DefaultFramesInFlight,
		clock:          time.Now,
	}
}

// WithRegistry sets the registry used to expand plugin fields. Without one,
// plugin fields contribute nothing.
func WithRegistry(r *field.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithMaxDelta sets the largest time step of one frame. Non-positive values
// keep the default.
func WithMaxDelta(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.maxDelta = d
		}
	}
}

// WithFramesInFlight sets how many frames the CPU may record ahead of the
// GPU. Values are clamped to [1, 8].
func WithFramesInFlight(n int) Option {
	return func(o *options) {
		o.framesInFlight = min(max(n, 1), maxFramesInFlight)
	}
}

// WithClock sets the time source used by Run. Tests use it to drive the
// frame loop deterministically.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithSPIRV makes the engine translate its WGSL shaders to SPIR-V with naga
// before creating shader modules, for drivers that only accept SPIR-V.
func WithSPIRV() Option {
	return func(o *options) {
		o.spirv = true
	}
}
