package engine

import "errors"

var (
	// ErrNoDevice is returned when the engine is created without a usable
	// device or queue.
	ErrNoDevice = errors.New("engine: no GPU device")

	// ErrPipeline is returned when a compute or render pipeline cannot be
	// built. It wraps the device error.
	ErrPipeline = errors.New("engine: pipeline creation failed")

	// ErrNoDrawable is returned by Surface.AcquireView when no drawable is
	// available this frame. Frame drops the frame and returns nil.
	ErrNoDrawable = errors.New("engine: no drawable available")

	// ErrNoSurface is returned by Frame before a surface is attached.
	ErrNoSurface = errors.New("engine: no surface attached")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("engine: engine is closed")
)
