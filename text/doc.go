// Package text rasterizes strings into alpha masks for particle sampling.
//
// Text is shaped with HarfBuzz (go-text/typesetting), split into
// bidirectional runs (golang.org/x/text/unicode/bidi), and its glyph
// outlines are filled with an anti-aliasing vector rasterizer
// (golang.org/x/image/vector). Lines are centered horizontally.
//
// The result is a pixel.Buffer whose color channels are black and whose
// alpha channel carries glyph coverage; callers tint it.
//
//	buf, err := text.Rasterize("Hello\nworld", text.WithSize(96))
package text
