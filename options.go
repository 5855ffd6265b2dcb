package particlize

import "github.com/gogpu/particlize/text"

// ItemOption configures an item during creation.
//
// Example:
//
//	item, err := particlize.NewText("Hi",
//	    particlize.WithFontSize(120),
//	    particlize.WithTint(particlize.Color{R: 1, G: 0.4, B: 0, A: 1}),
//	    particlize.WithStride(2),
//	)
type ItemOption func(*itemOptions)

// itemOptions holds optional configuration for item creation.
type itemOptions struct {
	raster  RasterOptions
	text    []text.Option
	maxSize int
}

// defaultItemOptions returns the default item options.
func defaultItemOptions() itemOptions {
	return itemOptions{
		raster: RasterOptions{Stride: 1, ParticleSize: DefaultParticleSize},
	}
}

// WithStride samples every n-th pixel. Larger strides give fewer, sparser
// particles.
func WithStride(n int) ItemOption {
	return func(o *itemOptions) {
		o.raster.Stride = n
	}
}

// WithSkipChance drops roughly percent% of the sampled pixels.
func WithSkipChance(percent int) ItemOption {
	return func(o *itemOptions) {
		o.raster.SkipChance = percent
	}
}

// WithSeed changes the skip pattern.
func WithSeed(seed uint32) ItemOption {
	return func(o *itemOptions) {
		o.raster.Seed = seed
	}
}

// WithTint recolors the item. Text is drawn in the tint color; images keep
// their colors and have alpha scaled by the tint alpha.
func WithTint(c Color) ItemOption {
	return func(o *itemOptions) {
		o.raster.Tint = &c
	}
}

// WithParticleSize sets the sprite diameter in pixels.
func WithParticleSize(size float32) ItemOption {
	return func(o *itemOptions) {
		o.raster.ParticleSize = size
	}
}

// WithFontSize sets the text size in pixels. Ignored for images.
func WithFontSize(px float64) ItemOption {
	return func(o *itemOptions) {
		o.text = append(o.text, text.WithSize(px))
	}
}

// WithFont sets the text font. Ignored for images.
func WithFont(f *text.Font) ItemOption {
	return func(o *itemOptions) {
		o.text = append(o.text, text.WithFont(f))
	}
}

// WithTextOptions passes options straight to the text rasterizer.
func WithTextOptions(opts ...text.Option) ItemOption {
	return func(o *itemOptions) {
		o.text = append(o.text, opts...)
	}
}

// WithMaxSize scales images down so neither side exceeds px. Ignored for
// text.
func WithMaxSize(px int) ItemOption {
	return func(o *itemOptions) {
		o.maxSize = px
	}
}
