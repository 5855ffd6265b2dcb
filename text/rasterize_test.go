package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
)

func coverage(t *testing.T, s string, opts ...Option) (w, h, lit int) {
	t.Helper()
	buf, err := Rasterize(s, opts...)
	if err != nil {
		t.Fatalf("Rasterize(%q) error: %v", s, err)
	}
	for y := range buf.Height {
		for x := range buf.Width {
			if buf.Alpha8(x, y) > 0 {
				lit++
			}
			if r, g, b, _ := buf.RGBA8(x, y); r|g|b != 0 {
				t.Fatalf("pixel (%d,%d) has color (%d,%d,%d), want black mask", x, y, r, g, b)
			}
		}
	}
	return buf.Width, buf.Height, lit
}

func TestRasterizeProducesCoverage(t *testing.T) {
	w, h, lit := coverage(t, "Hi", WithSize(48))
	if w <= 0 || h <= 0 {
		t.Fatalf("size = %dx%d, want positive", w, h)
	}
	if lit == 0 {
		t.Error("Rasterize(\"Hi\") produced no coverage")
	}
	if h < 48 {
		t.Errorf("height = %d, want at least the font size", h)
	}
}

func TestRasterizeEmpty(t *testing.T) {
	for _, s := range []string{"", "   ", "\n"} {
		_, _, lit := coverage(t, s)
		if lit != 0 {
			t.Errorf("Rasterize(%q) lit %d pixels, want 0", s, lit)
		}
	}
}

func TestRasterizeSizeScales(t *testing.T) {
	_, _, small := coverage(t, "O", WithSize(20))
	_, _, large := coverage(t, "O", WithSize(80))
	if large <= small*4 {
		t.Errorf("coverage at 80px = %d, want well above 4x the 20px coverage %d", large, small)
	}
}

func TestRasterizeMultiline(t *testing.T) {
	w1, h1, _ := coverage(t, "wide line", WithSize(32))
	w2, h2, _ := coverage(t, "wide line\nx", WithSize(32))
	if w2 != w1 {
		t.Errorf("width with short second line = %d, want %d", w2, w1)
	}
	if h2 <= h1 {
		t.Errorf("two-line height %d, want more than one-line height %d", h2, h1)
	}
}

func TestRasterizeLineSpacing(t *testing.T) {
	_, h1, _ := coverage(t, "a\nb", WithSize(32))
	_, h2, _ := coverage(t, "a\nb", WithSize(32), WithLineSpacing(2))
	if h2 <= h1 {
		t.Errorf("double-spaced height %d, want more than %d", h2, h1)
	}
}

func TestRasterizePadding(t *testing.T) {
	w0, h0, _ := coverage(t, "x", WithPadding(0))
	w1, h1, _ := coverage(t, "x", WithPadding(10))
	if w1-w0 < 19 || h1-h0 < 19 {
		t.Errorf("padding 10 grew size by %dx%d, want ~20x20", w1-w0, h1-h0)
	}
}

func TestRasterizeInvalidSize(t *testing.T) {
	for _, size := range []float64{0, -3} {
		if _, err := Rasterize("a", WithSize(size)); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Rasterize size %v error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestRasterizeTooLarge(t *testing.T) {
	if _, err := Rasterize("M", WithSize(MaxDimension*2)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Rasterize huge error = %v, want ErrTooLarge", err)
	}
}

func TestParseFont(t *testing.T) {
	f, err := ParseFont(gobold.TTF)
	if err != nil {
		t.Fatalf("ParseFont(gobold) error: %v", err)
	}
	if f.Name() == "" {
		t.Error("Name() is empty")
	}
	m := f.Metrics(32)
	if m.Ascent <= 0 || m.Height <= 0 {
		t.Errorf("Metrics(32) = %+v, want positive ascent and height", m)
	}
	if _, _, lit := coverage(t, "b", WithFont(f)); lit == 0 {
		t.Error("bold font produced no coverage")
	}

	if _, err := ParseFont([]byte("not a font")); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("ParseFont(garbage) error = %v, want ErrInvalidFont", err)
	}
}

func TestDefaultFontCached(t *testing.T) {
	a, err := DefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DefaultFont()
	if a != b {
		t.Error("DefaultFont() should return the same instance")
	}
}

func TestSplitRuns(t *testing.T) {
	runs := splitRuns("abc", DirectionAuto)
	if len(runs) != 1 || runs[0].rtl || string(runs[0].runes) != "abc" {
		t.Errorf("splitRuns(abc) = %+v, want one LTR run", runs)
	}

	runs = splitRuns("שלום", DirectionAuto)
	if len(runs) != 1 || !runs[0].rtl {
		t.Errorf("splitRuns(hebrew) = %+v, want one RTL run", runs)
	}
}
