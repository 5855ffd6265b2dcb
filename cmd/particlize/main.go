// Command particlize turns a YAML scene into particles, simulates it
// headlessly and writes the result.
//
// Usage:
//
//	particlize [-config scene.yaml] [-frames N] [-csv out.csv] [-png out.png] [-gpu] [-v]
//
// Without -gpu the scene is stepped on the CPU. With -gpu it is rendered on
// an offscreen Vulkan target, and -png saves the last frame.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/particlize"
	"github.com/gogpu/particlize/engine"
	"github.com/gogpu/particlize/field"
	"github.com/gogpu/particlize/internal/config"
	"github.com/gogpu/particlize/internal/kernel"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("particlize failed", "err", err)
		os.Exit(1)
	}
}

type flags struct {
	config      string
	frames      int
	csv         string
	png         string
	gpu         bool
	verbose     bool
	printConfig bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("particlize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "scene YAML file (embedded defaults when empty)")
	fs.IntVar(&f.frames, "frames", -1, "frames to simulate (overrides run.frames)")
	fs.StringVar(&f.csv, "csv", "", "write the final particles as CSV")
	fs.StringVar(&f.png, "png", "", "save the last frame as PNG")
	fs.BoolVar(&f.gpu, "gpu", false, "simulate and render on the GPU")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")
	err := fs.Parse(args)
	return f, err
}

func run(args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	particlize.SetLogger(logger)

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	if f.frames >= 0 {
		cfg.Run.Frames = f.frames
	}
	if f.printConfig {
		return cfg.WriteYAML(stdout)
	}

	reg := plugins()
	if err := cfg.CheckPlugins(reg); err != nil {
		return err
	}
	scene, err := cfg.Scene()
	if err != nil {
		return err
	}
	logger.Info("scene loaded",
		"spawns", len(scene.Spawns), "fields", len(scene.Fields), "particles", scene.ParticleCount())

	start := time.Now()
	var ps []particlize.Particle
	if f.gpu {
		ps, err = runGPU(cfg, scene, reg, f.png)
	} else {
		ps, err = runCPU(cfg, scene, reg, f.png)
	}
	if err != nil {
		return err
	}
	logger.Info("simulation done",
		"frames", cfg.Run.Frames, "particles", len(ps), "elapsed", time.Since(start).Round(time.Millisecond))

	if f.csv != "" {
		if err := writeCSV(f.csv, ps); err != nil {
			return err
		}
		logger.Info("particles written", "path", f.csv)
	}
	return nil
}

// frameStep is the fixed time step of a headless run.
func frameStep(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// runCPU steps the scene with the reference kernel using the same timing as
// the engine: a zero first step, then fixed steps.
func runCPU(cfg *config.Config, scene particlize.Scene, reg *field.Registry, pngPath string) ([]particlize.Particle, error) {
	ps := particlize.Compose(scene.Spawns)
	descs := field.Build(scene.Fields, reg)
	c := scene.Controls

	sim := kernel.NewSimulator(0)
	defer sim.Close()

	dt := float32(frameStep(cfg.Run.FPS).Seconds())
	var elapsed float32
	for i := 0; i < cfg.Run.Frames; i++ {
		step := dt
		if i == 0 {
			step = 0
		}
		sim.Step(ps, descs, kernel.Params{
			DeltaTime:              step,
			Time:                   elapsed + step,
			HomingEnabled:          c.HomingEnabled,
			HomingOnlyWhenNoFields: c.HomingOnlyWhenNoFields,
			HomingStrength:         c.HomingStrength,
			HomingDamping:          c.HomingDamping,
			ParticleCount:          uint32(len(ps)),
		})
		elapsed += step
	}

	if pngPath != "" {
		img := splat(ps, cfg.View.Width, cfg.View.Height, scene.Background, c.Emitting)
		if err := writePNG(pngPath, img); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// runGPU renders the scene on an offscreen target with a synthetic clock.
func runGPU(cfg *config.Config, scene particlize.Scene, reg *field.Registry, pngPath string) ([]particlize.Particle, error) {
	e, err := engine.OpenDevice(engine.WithRegistry(reg))
	if err != nil {
		return nil, err
	}
	defer e.Close()

	surface, err := engine.NewOffscreenSurface(e.Device(), e.Queue(), cfg.View.Width, cfg.View.Height)
	if err != nil {
		return nil, err
	}
	defer surface.Destroy()
	if err := e.Attach(surface); err != nil {
		return nil, err
	}
	e.Apply(scene)

	step := frameStep(cfg.Run.FPS)
	now := time.Unix(0, 0)
	for i := 0; i < cfg.Run.Frames; i++ {
		if err := e.Frame(now); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		now = now.Add(step)
	}
	st := e.Stats()
	slog.Debug("engine stats",
		"frames", st.Frames, "dropped", st.Dropped, "dispatches", st.Dispatches,
		"fieldUploads", st.FieldUploads, "particleUploads", st.ParticleUploads)

	if pngPath != "" {
		buf, err := surface.ReadPixels()
		if err != nil {
			return nil, err
		}
		if err := writePNG(pngPath, buf); err != nil {
			return nil, err
		}
	}
	return e.Particles()
}
