// Package config loads particle scenes from YAML for the particlize command.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	// ErrUnknownKind is returned for a field whose kind is not recognized.
	ErrUnknownKind = errors.New("config: unknown field kind")

	// ErrInvalidSpawn is returned for a spawn with neither text nor image,
	// or with both.
	ErrInvalidSpawn = errors.New("config: spawn needs exactly one of text or image")

	// ErrUnknownPlugin is returned for a plugin field whose key has no
	// registered plugin.
	ErrUnknownPlugin = errors.New("config: unknown plugin")

	// ErrInvalidView is returned for a non-positive view size.
	ErrInvalidView = errors.New("config: invalid view size")
)

// Config is a complete scene description plus run parameters.
type Config struct {
	View       ViewConfig     `yaml:"view"`
	Run        RunConfig      `yaml:"run"`
	Background string         `yaml:"background"`
	Controls   ControlsConfig `yaml:"controls"`
	Spawns     []SpawnConfig  `yaml:"spawns"`
	Fields     []FieldConfig  `yaml:"fields"`

	// dir resolves relative image and font paths.
	dir string
}

// ViewConfig is the drawable size in pixels.
type ViewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RunConfig controls a headless run.
type RunConfig struct {
	Frames int `yaml:"frames"`
	FPS    int `yaml:"fps"`
}

// ControlsConfig mirrors particlize.Controls.
type ControlsConfig struct {
	HomingEnabled          bool    `yaml:"homing_enabled"`
	HomingOnlyWhenNoFields bool    `yaml:"homing_only_when_no_fields"`
	HomingStrength         float32 `yaml:"homing_strength"`
	HomingDamping          float32 `yaml:"homing_damping"`
	Emitting               bool    `yaml:"emitting"`
}

// SpawnConfig places a text or image item.
type SpawnConfig struct {
	Text  string `yaml:"text,omitempty"`
	Image string `yaml:"image,omitempty"`

	Font      string  `yaml:"font,omitempty"`
	FontSize  float64 `yaml:"font_size,omitempty"`
	Direction string  `yaml:"direction,omitempty"` // auto, ltr or rtl
	MaxSize   int     `yaml:"max_size,omitempty"`

	Color        string     `yaml:"color,omitempty"`
	Position     [2]float32 `yaml:"position"`
	Stride       int        `yaml:"stride,omitempty"`
	SkipChance   int        `yaml:"skip_chance,omitempty"`
	Seed         uint32     `yaml:"seed,omitempty"`
	ParticleSize float32    `yaml:"particle_size,omitempty"`
}

// FieldConfig describes one field. Unset values keep the preset for Kind.
type FieldConfig struct {
	Kind    string `yaml:"kind"`
	Enabled *bool  `yaml:"enabled,omitempty"`

	Position       *[2]float32 `yaml:"position,omitempty"`
	Vector         *[2]float32 `yaml:"vector,omitempty"`
	Strength       *float32    `yaml:"strength,omitempty"`
	Radius         *float32    `yaml:"radius,omitempty"`
	Falloff        *float32    `yaml:"falloff,omitempty"`
	MinRadius      *float32    `yaml:"min_radius,omitempty"`
	Smoothness     *float32    `yaml:"smoothness,omitempty"`
	AnimationSpeed *float32    `yaml:"animation_speed,omitempty"`

	// Key and Params configure a plugin field (kind "plugin").
	Key    string             `yaml:"key,omitempty"`
	Params map[string]float32 `yaml:"params,omitempty"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Keys present in the
// file replace the defaults; lists are replaced whole.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
		cfg.dir = filepath.Dir(path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads configuration from YAML bytes over the embedded defaults.
// Relative paths resolve against dir.
func Parse(data []byte, dir string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}
	cfg.dir = dir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidView, c.View.Width, c.View.Height)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("config: negative frame count %d", c.Run.Frames)
	}
	for i, s := range c.Spawns {
		if (s.Text == "") == (s.Image == "") {
			return fmt.Errorf("%w (spawn %d)", ErrInvalidSpawn, i)
		}
	}
	for i, f := range c.Fields {
		if !knownKind(f.Kind) {
			return fmt.Errorf("%w: %q (field %d)", ErrUnknownKind, f.Kind, i)
		}
	}
	return nil
}

// WriteYAML writes the effective configuration.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	return enc.Close()
}

// resolve makes a relative path relative to the config file.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
