package main

import (
	"github.com/gogpu/particlize/field"
)

// plugins returns the plugin fields a scene file can name with
// `kind: plugin`.
func plugins() *field.Registry {
	reg := field.NewRegistry()
	reg.Register(field.PluginFunc{Name: "orbit", Fn: orbit})
	return reg
}

// orbit pulls particles toward the field position and spins them around it.
// Params: pull, spin, radius, falloff.
func orbit(f field.PluginField) []field.Descriptor {
	radius := f.Param("radius", 300)
	falloff := f.Param("falloff", 1)
	return []field.Descriptor{
		{
			Position: f.Position,
			Strength: f.Param("pull", 400),
			Radius:   radius,
			Falloff:  falloff,
			Kind:     field.KindRadial,
			Enabled:  true,
		},
		{
			Position: f.Position,
			Strength: f.Param("spin", 600),
			Radius:   radius,
			Falloff:  falloff,
			Kind:     field.KindVortex,
			Enabled:  true,
		},
	}
}
