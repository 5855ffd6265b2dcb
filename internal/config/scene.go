package config

import (
	"fmt"
	"os"

	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/geom"
	"github.com/gogpu/particlize/text"
)

// PluginKind is the field kind name for plugin fields.
const PluginKind = "plugin"

func knownKind(name string) bool {
	if name == PluginKind {
		return true
	}
	_, ok := field.ParseKind(name)
	return ok
}

// Scene rasterizes the configured spawns and builds the fields. Image and
// font paths are read from disk.
func (c *Config) Scene() (particlize.Scene, error) {
	scene := particlize.NewScene()

	bg, err := geom.ParseHex(c.Background)
	if err != nil {
		return scene, fmt.Errorf("config: background: %w", err)
	}
	scene.Background = bg
	scene.Controls = particlize.Controls{
		HomingEnabled:          c.Controls.HomingEnabled,
		HomingOnlyWhenNoFields: c.Controls.HomingOnlyWhenNoFields,
		HomingStrength:         c.Controls.HomingStrength,
		HomingDamping:          c.Controls.HomingDamping,
		Emitting:               c.Controls.Emitting,
	}

	fonts := make(map[string]*text.Font)
	for i, s := range c.Spawns {
		item, err := c.item(s, fonts)
		if err != nil {
			return scene, fmt.Errorf("config: spawn %d: %w", i, err)
		}
		scene.Spawns = append(scene.Spawns, particlize.Spawn{
			Item:     item,
			Position: geom.V2(s.Position[0], s.Position[1]),
		})
	}

	for i, f := range c.Fields {
		ff, err := f.Field()
		if err != nil {
			return scene, fmt.Errorf("config: field %d: %w", i, err)
		}
		scene.Fields = append(scene.Fields, ff)
	}
	return scene, nil
}

func (c *Config) item(s SpawnConfig, fonts map[string]*text.Font) (particlize.Item, error) {
	var opts []particlize.ItemOption
	if s.Stride > 0 {
		opts = append(opts, particlize.WithStride(s.Stride))
	}
	if s.SkipChance > 0 {
		opts = append(opts, particlize.WithSkipChance(s.SkipChance))
	}
	if s.Seed != 0 {
		opts = append(opts, particlize.WithSeed(s.Seed))
	}
	if s.ParticleSize > 0 {
		opts = append(opts, particlize.WithParticleSize(s.ParticleSize))
	}
	if s.MaxSize > 0 {
		opts = append(opts, particlize.WithMaxSize(s.MaxSize))
	}
	if s.Color != "" {
		tint, err := geom.ParseHex(s.Color)
		if err != nil {
			return nil, err
		}
		opts = append(opts, particlize.WithTint(tint))
	}

	if s.Image != "" {
		f, err := os.Open(c.resolve(s.Image))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return particlize.DecodeImage(f, opts...)
	}

	if s.FontSize > 0 {
		opts = append(opts, particlize.WithFontSize(s.FontSize))
	}
	if s.Font != "" {
		font, err := c.font(s.Font, fonts)
		if err != nil {
			return nil, err
		}
		opts = append(opts, particlize.WithFont(font))
	}
	dir, err := parseDirection(s.Direction)
	if err != nil {
		return nil, err
	}
	opts = append(opts, particlize.WithTextOptions(text.WithDirection(dir)))
	return particlize.NewText(s.Text, opts...)
}

func (c *Config) font(path string, cache map[string]*text.Font) (*text.Font, error) {
	path = c.resolve(path)
	if f, ok := cache[path]; ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := text.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cache[path] = f
	return f, nil
}

func parseDirection(s string) (text.Direction, error) {
	switch s {
	case "", "auto":
		return text.DirectionAuto, nil
	case "ltr":
		return text.DirectionLTR, nil
	case "rtl":
		return text.DirectionRTL, nil
	}
	return 0, fmt.Errorf("unknown text direction %q", s)
}

// CheckPlugins reports the first plugin field whose key reg cannot resolve.
func (c *Config) CheckPlugins(reg *field.Registry) error {
	for i, f := range c.Fields {
		if f.Kind != PluginKind {
			continue
		}
		if _, ok := reg.Lookup(f.Key); !ok {
			return fmt.Errorf("%w: %q (field %d)", ErrUnknownPlugin, f.Key, i)
		}
	}
	return nil
}

// Field returns the preset for the kind with the configured values applied.
func (f FieldConfig) Field() (field.Field, error) {
	if f.Kind == PluginKind {
		p := field.PluginField{Key: f.Key, Params: f.Params, Enabled: true}
		setVec(&p.Position, f.Position)
		setVec(&p.Vector, f.Vector)
		setBool(&p.Enabled, f.Enabled)
		return p, nil
	}

	kind, ok := field.ParseKind(f.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
	switch kind {
	case field.KindRadial:
		v := field.DefaultRadial()
		f.banded(&v.Position, &v.Strength, &v.Radius, &v.Falloff, &v.MinRadius, &v.Enabled)
		return v, nil
	case field.KindLinear:
		v := field.DefaultLinear()
		f.directional(&v.Vector, &v.Strength, &v.Enabled)
		return v, nil
	case field.KindTurbulence:
		v := field.DefaultTurbulence()
		f.banded(&v.Position, &v.Strength, &v.Radius, nil, &v.MinRadius, &v.Enabled)
		setFloat(&v.Smoothness, f.Smoothness)
		return v, nil
	case field.KindVortex:
		v := field.DefaultVortex()
		f.banded(&v.Position, &v.Strength, &v.Radius, &v.Falloff, &v.MinRadius, &v.Enabled)
		return v, nil
	case field.KindDrag:
		v := field.DefaultDrag()
		setFloat(&v.Strength, f.Strength)
		setBool(&v.Enabled, f.Enabled)
		return v, nil
	case field.KindVelocity:
		v := field.DefaultVelocity()
		f.directional(&v.Vector, &v.Strength, &v.Enabled)
		return v, nil
	case field.KindLinearGravity:
		v := field.DefaultLinearGravity()
		f.directional(&v.Vector, &v.Strength, &v.Enabled)
		return v, nil
	case field.KindNoise:
		v := field.DefaultNoise()
		f.banded(&v.Position, &v.Strength, &v.Radius, nil, &v.MinRadius, &v.Enabled)
		setFloat(&v.Smoothness, f.Smoothness)
		setFloat(&v.AnimationSpeed, f.AnimationSpeed)
		return v, nil
	case field.KindElectric:
		v := field.DefaultElectric()
		f.banded(&v.Position, &v.Strength, &v.Radius, &v.Falloff, &v.MinRadius, &v.Enabled)
		return v, nil
	case field.KindMagnetic:
		v := field.DefaultMagnetic()
		f.banded(&v.Position, &v.Strength, &v.Radius, &v.Falloff, &v.MinRadius, &v.Enabled)
		return v, nil
	case field.KindSpring:
		v := field.DefaultSpring()
		f.banded(&v.Position, &v.Strength, &v.Radius, &v.Falloff, &v.MinRadius, &v.Enabled)
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
}

func (f FieldConfig) banded(pos *geom.Vec2, strength, radius, falloff, minRadius *float32, enabled *bool) {
	setVec(pos, f.Position)
	setFloat(strength, f.Strength)
	setFloat(radius, f.Radius)
	if falloff != nil {
		setFloat(falloff, f.Falloff)
	}
	setFloat(minRadius, f.MinRadius)
	setBool(enabled, f.Enabled)
}

func (f FieldConfig) directional(vec *geom.Vec2, strength *float32, enabled *bool) {
	setVec(vec, f.Vector)
	setFloat(strength, f.Strength)
	setBool(enabled, f.Enabled)
}

func setFloat(dst, v *float32) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setVec(dst *geom.Vec2, v *[2]float32) {
	if v != nil {
		*dst = geom.V2(v[0], v[1])
	}
}
