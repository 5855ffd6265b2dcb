package text

import "errors"

var (
	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("text: invalid font data")

	// ErrInvalidSize is returned for a non-positive or non-finite font size.
	ErrInvalidSize = errors.New("text: invalid font size")

	// ErrTooLarge is returned when the rasterized text would exceed
	// MaxDimension pixels on either side.
	ErrTooLarge = errors.New("text: rasterized text too large")
)
