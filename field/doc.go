// Package field defines the force fields that act on particles and their
// fixed-layout GPU descriptor.
//
// A Field is one of a closed set of kinds (Radial, Linear, Turbulence,
// Vortex, Drag, Velocity, LinearGravity, Noise, Electric, Magnetic, Spring)
// or a PluginField that a Registry expands into descriptors. Build turns a
// field list into the descriptors uploaded to the simulation kernel:
//
//	descs := field.Build([]field.Field{
//	    field.Radial{Position: geom.V2(0, 0), Strength: -10000, Radius: 150, Falloff: 0.5, Enabled: true},
//	    field.Drag{Strength: 3, Enabled: true},
//	}, nil)
//
// Coordinates are view space: origin at the view center, +Y up, one unit
// per pixel.
package field
