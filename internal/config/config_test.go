package config

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/geom"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.Width != 800 || cfg.View.Height != 600 {
		t.Errorf("view = %dx%d, want 800x600", cfg.View.Width, cfg.View.Height)
	}
	if cfg.Run.Frames != 120 || cfg.Run.FPS != 60 {
		t.Errorf("run = %+v", cfg.Run)
	}
	if len(cfg.Spawns) != 1 || cfg.Spawns[0].Text != "Particlize" {
		t.Errorf("spawns = %+v", cfg.Spawns)
	}
	if len(cfg.Fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(cfg.Fields))
	}
	if !cfg.Controls.HomingEnabled || cfg.Controls.HomingStrength != 40 {
		t.Errorf("controls = %+v", cfg.Controls)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	data := `
view:
  width: 320
run:
  frames: 10
controls:
  emitting: false
fields:
  - kind: vortex
    strength: -50
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.Width != 320 || cfg.View.Height != 600 {
		t.Errorf("view = %dx%d, want 320x600", cfg.View.Width, cfg.View.Height)
	}
	if cfg.Run.Frames != 10 || cfg.Run.FPS != 60 {
		t.Errorf("run = %+v, want frames 10 fps 60", cfg.Run)
	}
	if cfg.Controls.Emitting || !cfg.Controls.HomingEnabled {
		t.Errorf("controls = %+v", cfg.Controls)
	}
	if len(cfg.Fields) != 1 || cfg.Fields[0].Kind != "vortex" {
		t.Errorf("fields should be replaced, got %+v", cfg.Fields)
	}
	if len(cfg.Spawns) != 1 {
		t.Errorf("spawns should keep the default, got %d", len(cfg.Spawns))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}

	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown kind", "fields: [{kind: gravity-well}]", ErrUnknownKind},
		{"empty spawn", "spawns: [{position: [1, 2]}]", ErrInvalidSpawn},
		{"text and image", "spawns: [{text: a, image: b.png}]", ErrInvalidSpawn},
		{"zero view", "view: {width: 0}", ErrInvalidView},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "")
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("view: [not, a, map]"), ""); err == nil {
		t.Error("Parse(malformed) should fail")
	}
}

func ptr[T any](v T) *T { return &v }

func TestFieldPresets(t *testing.T) {
	tests := []struct {
		name string
		cfg  FieldConfig
		want field.Field
	}{
		{
			name: "preset only",
			cfg:  FieldConfig{Kind: "turbulence"},
			want: field.DefaultTurbulence(),
		},
		{
			name: "radial overrides",
			cfg: FieldConfig{
				Kind:      "radial",
				Position:  &[2]float32{10, -20},
				Strength:  ptr[float32](500),
				MinRadius: ptr[float32](5),
			},
			want: field.Radial{
				Position: geom.V2(10, -20), Strength: 500, Radius: 150,
				Falloff: 0.5, MinRadius: 5, Enabled: true,
			},
		},
		{
			name: "disabled gravity",
			cfg:  FieldConfig{Kind: "linearGravity", Vector: &[2]float32{1, 0}, Enabled: ptr(false)},
			want: field.LinearGravity{Vector: geom.V2(1, 0), Strength: 150},
		},
		{
			name: "noise animation",
			cfg:  FieldConfig{Kind: "noise", AnimationSpeed: ptr[float32](2), Smoothness: ptr[float32](1)},
			want: field.Noise{Strength: 600, Radius: 600, Smoothness: 1, AnimationSpeed: 2, Enabled: true},
		},
		{
			name: "plugin",
			cfg:  FieldConfig{Kind: PluginKind, Key: "ring", Params: map[string]float32{"count": 3}},
			want: field.PluginField{Key: "ring", Params: map[string]float32{"count": 3}, Enabled: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Field()
			if err != nil {
				t.Fatalf("Field: %v", err)
			}
			if pf, ok := tt.want.(field.PluginField); ok {
				gp, ok := got.(field.PluginField)
				if !ok || gp.Key != pf.Key || gp.Param("count", 0) != 3 || !gp.Enabled {
					t.Errorf("Field() = %+v, want %+v", got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Field() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := (FieldConfig{Kind: "nope"}).Field(); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind err = %v", err)
	}
}

func TestCheckPlugins(t *testing.T) {
	cfg, err := Parse([]byte(`
fields:
  - kind: drag
  - kind: plugin
    key: ring
`), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.CheckPlugins(nil); !errors.Is(err, ErrUnknownPlugin) {
		t.Errorf("nil registry err = %v, want %v", err, ErrUnknownPlugin)
	}

	reg := field.NewRegistry()
	reg.Register(field.PluginFunc{Name: "ring", Fn: func(field.PluginField) []field.Descriptor { return nil }})
	if err := cfg.CheckPlugins(reg); err != nil {
		t.Errorf("registered plugin err = %v", err)
	}
}

func TestSceneFromDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	scene, err := cfg.Scene()
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if len(scene.Spawns) != 1 || scene.ParticleCount() == 0 {
		t.Errorf("default text produced %d spawns, %d particles", len(scene.Spawns), scene.ParticleCount())
	}
	if len(scene.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2", len(scene.Fields))
	}
	if scene.Background != (geom.Color{A: 1}) {
		t.Errorf("Background = %+v, want opaque black", scene.Background)
	}
	if !scene.Controls.Emitting {
		t.Error("Emitting should default to true")
	}
}

func TestSceneImageRelativePath(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dot.png"), buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse([]byte(`
spawns:
  - image: dot.png
    position: [5, 5]
fields: []
`), dir)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := cfg.Scene()
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	if n := scene.ParticleCount(); n != 12 {
		t.Errorf("ParticleCount = %d, want 12", n)
	}
	if p := scene.Spawns[0].Position; p != geom.V2(5, 5) {
		t.Errorf("Position = %v, want (5, 5)", p)
	}
}

func TestSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad background", `background: "#zz"`},
		{"bad tint", `spawns: [{text: hi, color: "blue"}]`},
		{"missing image", `spawns: [{image: nowhere.png}]`},
		{"missing font", `spawns: [{text: hi, font: nowhere.ttf}]`},
		{"bad direction", `spawns: [{text: hi, direction: up}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml), t.TempDir())
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if _, err := cfg.Scene(); err == nil {
				t.Error("Scene should fail")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := cfg.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if !strings.Contains(buf.String(), "homing_strength: 40") {
		t.Errorf("output missing controls:\n%s", buf.String())
	}
	again, err := Parse(buf.Bytes(), "")
	if err != nil {
		t.Fatalf("Parse(WriteYAML output): %v", err)
	}
	if again.View != cfg.View || len(again.Fields) != len(cfg.Fields) {
		t.Error("written config does not parse back to the same values")
	}
}
