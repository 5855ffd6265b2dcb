package text

// Direction is the base paragraph direction.
type Direction uint8

const (
	// DirectionAuto picks the direction from the first strong character.
	DirectionAuto Direction = iota
	// DirectionLTR forces left-to-right paragraphs.
	DirectionLTR
	// DirectionRTL forces right-to-left paragraphs.
	DirectionRTL
)

// DefaultSize is the font size in pixels used when none is given.
const DefaultSize = 64

// MaxDimension bounds the width and height of a rasterized buffer.
const MaxDimension = 8192

// Option configures Rasterize.
type Option func(*options)

type options struct {
	font        *Font
	size        float64
	lineSpacing float64
	padding     int
	direction   Direction
	language    string
}

func defaultOptions() options {
	return options{
		size:        DefaultSize,
		lineSpacing: 1,
		padding:     2,
		language:    "en",
	}
}

// WithFont sets the font. The default is Go Regular.
func WithFont(f *Font) Option {
	return func(o *options) {
		o.font = f
	}
}

// WithSize sets the font size in pixels per em.
func WithSize(px float64) Option {
	return func(o *options) {
		o.size = px
	}
}

// WithLineSpacing scales the distance between baselines. 1 uses the font's
// own line height.
func WithLineSpacing(mult float64) Option {
	return func(o *options) {
		if mult > 0 {
			o.lineSpacing = mult
		}
	}
}

// WithPadding adds transparent pixels around the text so anti-aliased edges
// are not clipped.
func WithPadding(px int) Option {
	return func(o *options) {
		o.padding = max(px, 0)
	}
}

// WithDirection sets the base paragraph direction.
func WithDirection(d Direction) Option {
	return func(o *options) {
		o.direction = d
	}
}

// WithLanguage sets the BCP 47 language used for shaping, e.g. "ar".
func WithLanguage(tag string) Option {
	return func(o *options) {
		o.language = tag
	}
}
