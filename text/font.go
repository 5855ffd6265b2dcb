package text

import (
	"bytes"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType/OpenType font. It is safe for concurrent use.
//
// The same font data backs both the shaper (go-text) and the outline
// loader (sfnt), so glyph IDs from shaping index outlines directly.
type Font struct {
	shaping *gtfont.Font
	outline *sfnt.Font
	name    string
}

// ParseFont parses TrueType or OpenType font data.
func ParseFont(data []byte) (*Font, error) {
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFont, err)
	}
	f := &Font{shaping: face.Font, outline: sf}
	if name, err := sf.Name(nil, sfnt.NameIDFamily); err == nil {
		f.name = name
	}
	return f, nil
}

// Name returns the font family name, if the font has one.
func (f *Font) Name() string {
	return f.name
}

// Metrics are vertical font metrics in pixels at a given size.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of a line.
	Ascent float64
	// Descent is the distance from the baseline to the bottom of a line.
	Descent float64
	// Height is the recommended baseline-to-baseline distance.
	Height float64
}

// Metrics returns the font's vertical metrics at size pixels per em.
func (f *Font) Metrics(size float64) Metrics {
	var buf sfnt.Buffer
	m, err := f.outline.Metrics(&buf, toFixed(size), font.HintingNone)
	if err != nil {
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2, Height: size * 1.2}
	}
	return Metrics{
		Ascent:  fromFixed(m.Ascent),
		Descent: fromFixed(m.Descent),
		Height:  fromFixed(m.Height),
	}
}

var (
	defaultFontOnce sync.Once
	defaultFont     *Font
	errDefaultFont  error
)

// DefaultFont returns the Go Regular font, parsed once.
func DefaultFont() (*Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, errDefaultFont = ParseFont(goregular.TTF)
	})
	return defaultFont, errDefaultFont
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
