package text

import (
	"slices"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// glyph is a positioned glyph on a line, in pixels, relative to the line
// start and baseline.
type glyph struct {
	id sfntGID
	x  float64
	y  float64
}

// sfntGID is a glyph index shared by the shaper and the outline loader.
type sfntGID uint16

// line is one shaped line of text.
type line struct {
	glyphs  []glyph
	advance float64
}

// run is a span of a line with a single direction, in visual order.
type run struct {
	runes []rune
	rtl   bool
}

// shapeLine shapes one line (no newlines) into glyphs laid out left to
// right in visual order.
func shapeLine(s string, f *Font, o *options) line {
	var out line
	if s == "" {
		return out
	}
	face := gtfont.NewFace(f.shaping)
	hb := &shaping.HarfbuzzShaper{}
	lang := language.NewLanguage(o.language)

	for _, r := range splitRuns(s, o.direction) {
		if len(r.runes) == 0 {
			continue
		}
		dir := di.DirectionLTR
		if r.rtl {
			dir = di.DirectionRTL
		}
		output := hb.Shape(shaping.Input{
			Text:      r.runes,
			RunStart:  0,
			RunEnd:    len(r.runes),
			Direction: dir,
			Face:      face,
			Size:      toFixed(o.size),
			Script:    detectScript(r.runes),
			Language:  lang,
		})
		for _, g := range output.Glyphs {
			out.glyphs = append(out.glyphs, glyph{
				id: sfntGID(g.GlyphID), //nolint:gosec // glyph indices fit in 16 bits
				x:  out.advance + fromFixed(g.XOffset),
				y:  -fromFixed(g.YOffset),
			})
			out.advance += fromFixed(g.Advance)
		}
	}
	return out
}

// splitRuns splits a line into directional runs in visual order. Runs are
// reordered for a single embedding level: right-to-left paragraphs read
// their runs back to front. When the bidi algorithm fails, the whole line
// is one run in the base direction.
func splitRuns(s string, base Direction) []run {
	def := bidi.Neutral
	switch base {
	case DirectionLTR:
		def = bidi.LeftToRight
	case DirectionRTL:
		def = bidi.RightToLeft
	}
	whole := []run{{runes: []rune(s), rtl: base == DirectionRTL}}

	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(def)); err != nil {
		return whole
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		slogger().Debug("text: bidi ordering failed", "err", err)
		return whole
	}
	runs := make([]run, 0, ordering.NumRuns())
	for i := range ordering.NumRuns() {
		r := ordering.Run(i)
		runs = append(runs, run{runes: []rune(r.String()), rtl: r.Direction() == bidi.RightToLeft})
	}

	rtlParagraph := base == DirectionRTL
	if base == DirectionAuto {
		rtlParagraph = runs[0].rtl
	}
	if rtlParagraph {
		slices.Reverse(runs)
	}
	return runs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
