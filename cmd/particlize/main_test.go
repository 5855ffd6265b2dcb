package main

import (
	"bytes"
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/geom"
	"github.com/gogpu/particlize/internal/config"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-frames", "5", "-csv", "out.csv", "-gpu", "-v"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if f.frames != 5 || f.csv != "out.csv" || !f.gpu || !f.verbose {
		t.Errorf("flags = %+v", f)
	}

	if _, err := parseFlags([]string{"-h"}, &bytes.Buffer{}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h err = %v, want flag.ErrHelp", err)
	}
}

func TestRunCPUWritesCSVAndPNG(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	data := `
view: {width: 64, height: 32}
spawns:
  - text: "Hi"
    font_size: 24
    stride: 3
fields:
  - kind: vortex
`
	if err := os.WriteFile(scene, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "out.csv")
	pngPath := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", scene, "-frames", "3", "-csv", csvPath, "-png", pngPath}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr.String())
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []particleRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("CSV has no particles")
	}
	for i, r := range rows {
		if r.Index != i {
			t.Fatalf("row %d has index %d", i, r.Index)
		}
	}

	pf, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	img, err := png.Decode(pf)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("PNG size = %v, want 64x32", b)
	}
	if !strings.Contains(stderr.String(), "simulation done") {
		t.Errorf("missing completion log:\n%s", stderr.String())
	}
}

func TestRunPrintConfig(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"-print-config", "-frames", "7"}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(stdout.Bytes(), "")
	if err != nil {
		t.Fatalf("printed config does not parse: %v", err)
	}
	if cfg.Run.Frames != 7 {
		t.Errorf("frames = %d, want 7", cfg.Run.Frames)
	}
}

func TestRunCPUMatchesStepCount(t *testing.T) {
	cfg, err := config.Parse([]byte(`
spawns: [{text: "a", font_size: 16}]
fields: [{kind: linear, vector: [1, 0], strength: 100}]
controls: {homing_enabled: false}
run: {frames: 2, fps: 50}
`), "")
	if err != nil {
		t.Fatal(err)
	}
	scene, err := cfg.Scene()
	if err != nil {
		t.Fatal(err)
	}
	start := particlize.Compose(scene.Spawns)
	ps, err := runCPU(cfg, scene, plugins(), "")
	if err != nil {
		t.Fatal(err)
	}
	// The first frame has a zero step; the second advances 20ms at 100px/s².
	want := float32(100 * 0.02)
	got := ps[0].Velocity.X
	if d := got - want; d > 1e-4 || d < -1e-4 {
		t.Errorf("velocity after 2 frames = %v, want %v", got, want)
	}
	if ps[0].Position.X <= start[0].Position.X {
		t.Error("particle did not move along the field")
	}
}

func TestRunCPUResolvesPlugins(t *testing.T) {
	cfg, err := config.Parse([]byte(`
spawns: [{text: "o", font_size: 24}]
fields: [{kind: plugin, key: orbit, params: {pull: 0, spin: 500, radius: 1000}}]
controls: {homing_enabled: false}
run: {frames: 10, fps: 60}
`), "")
	if err != nil {
		t.Fatal(err)
	}
	reg := plugins()
	if err := cfg.CheckPlugins(reg); err != nil {
		t.Fatal(err)
	}
	scene, err := cfg.Scene()
	if err != nil {
		t.Fatal(err)
	}
	start := particlize.Compose(scene.Spawns)
	ps, err := runCPU(cfg, scene, reg, "")
	if err != nil {
		t.Fatal(err)
	}
	moved := 0
	for i := range ps {
		if ps[i].Position != start[i].Position {
			moved++
		}
	}
	if moved == 0 {
		t.Error("orbit plugin field did not move any particle")
	}
}

func TestRunRejectsUnknownPlugin(t *testing.T) {
	scene := filepath.Join(t.TempDir(), "scene.yaml")
	data := "fields: [{kind: plugin, key: nebula}]\n"
	if err := os.WriteFile(scene, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	err := run([]string{"-config", scene, "-frames", "1"}, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, config.ErrUnknownPlugin) {
		t.Errorf("run err = %v, want %v", err, config.ErrUnknownPlugin)
	}
}

func TestSplat(t *testing.T) {
	ps := []particlize.Particle{{
		Position: geom.V2(0, 0),
		Color:    geom.Color{R: 1, A: 1},
		Size:     2,
	}}
	img := splat(ps, 10, 10, geom.Color{A: 1}, true)
	if c := img.NRGBAAt(5, 5); c.R != 255 || c.A != 255 {
		t.Errorf("center = %v, want red", c)
	}
	if c := img.NRGBAAt(0, 0); c.R != 0 || c.A != 255 {
		t.Errorf("corner = %v, want black", c)
	}

	hidden := splat(ps, 10, 10, geom.Color{A: 1}, false)
	if c := hidden.NRGBAAt(5, 5); c.R != 0 {
		t.Errorf("non-emitting center = %v, want black", c)
	}
}
