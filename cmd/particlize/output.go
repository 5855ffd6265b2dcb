package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/gogpu/particlize"
	xdraw "golang.org/x/image/draw"
)

// particleRecord is one CSV row.
type particleRecord struct {
	Index    int     `csv:"index"`
	X        float32 `csv:"x"`
	Y        float32 `csv:"y"`
	VX       float32 `csv:"vx"`
	VY       float32 `csv:"vy"`
	HomeX    float32 `csv:"home_x"`
	HomeY    float32 `csv:"home_y"`
	R        float32 `csv:"r"`
	G        float32 `csv:"g"`
	B        float32 `csv:"b"`
	A        float32 `csv:"a"`
	Size     float32 `csv:"size"`
	Lifetime float32 `csv:"-"`
}

func records(ps []particlize.Particle) []particleRecord {
	out := make([]particleRecord, len(ps))
	for i, p := range ps {
		out[i] = particleRecord{
			Index: i,
			X:     p.Position.X, Y: p.Position.Y,
			VX: p.Velocity.X, VY: p.Velocity.Y,
			HomeX: p.Home.X, HomeY: p.Home.Y,
			R: p.Color.R, G: p.Color.G, B: p.Color.B, A: p.Color.A,
			Size:     p.Size,
			Lifetime: p.Lifetime,
		}
	}
	return out
}

func writeCSV(path string, ps []particlize.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := gocsv.Marshal(records(ps), f); err != nil {
		f.Close()
		return fmt.Errorf("writing particles: %w", err)
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// splat draws particles as squares over the background. View space has its
// origin at the image center with +Y up.
func splat(ps []particlize.Particle, width, height int, bg particlize.Color, emitting bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, xdraw.Src)
	if !emitting {
		return img
	}
	cx, cy := float32(width)/2, float32(height)/2
	for _, p := range ps {
		half := max(p.Size, 1) / 2
		x := cx + p.Position.X
		y := cy - p.Position.Y
		r := image.Rect(int(x-half), int(y-half), int(x+half+0.5), int(y+half+0.5))
		if r.Empty() {
			r.Max = r.Min.Add(image.Pt(1, 1))
		}
		xdraw.Draw(img, r, image.NewUniform(p.Color.NRGBA()), image.Point{}, xdraw.Over)
	}
	return img
}
