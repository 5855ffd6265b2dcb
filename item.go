package particlize

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync/atomic"

	"github.com/gogpu/particlize/pixel"
	"github.com/gogpu/particlize/text"
)

// ItemKind tells what an item was built from.
type ItemKind uint8

const (
	// KindText is an item rasterized from a string.
	KindText ItemKind = iota + 1
	// KindImage is an item sampled from an image.
	KindImage
)

// String returns the kind name.
func (k ItemKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Errors returned by item constructors.
var (
	// ErrNilImage is returned when NewImage receives no image.
	ErrNilImage = errors.New("particlize: nil image")
)

// Item is immutable particle content that can be spawned any number of
// times. Implementations are TextItem and ImageItem.
type Item interface {
	// ID is unique per item within the process.
	ID() uint64

	// Kind reports the content type.
	Kind() ItemKind

	// Particles returns the item's particles centered on the origin. The
	// slice is shared; callers must not modify it.
	Particles() []Particle

	// Size is the width and height of the rasterized content.
	Size() (width, height int)
}

var nextItemID atomic.Uint64

type baseItem struct {
	id        uint64
	particles []Particle
	width     int
	height    int
}

func newBase(buf *pixel.Buffer, o RasterOptions) baseItem {
	return baseItem{
		id:        nextItemID.Add(1),
		particles: Rasterize(buf, o),
		width:     buf.Width,
		height:    buf.Height,
	}
}

func (b *baseItem) ID() uint64                { return b.id }
func (b *baseItem) Particles() []Particle     { return b.particles }
func (b *baseItem) Size() (width, height int) { return b.width, b.height }

// TextItem is a string rasterized into particles.
type TextItem struct {
	baseItem
	text string
}

// NewText rasterizes s into a TextItem. Text is white unless WithTint sets
// a color. Empty or whitespace-only text gives an item with no particles.
func NewText(s string, opts ...ItemOption) (*TextItem, error) {
	o := applyItemOptions(opts)
	if o.raster.Tint == nil {
		white := Color{R: 1, G: 1, B: 1, A: 1}
		o.raster.Tint = &white
	}
	buf, err := text.Rasterize(s, o.text...)
	if err != nil {
		return nil, fmt.Errorf("particlize: rasterize text: %w", err)
	}
	item := &TextItem{baseItem: newBase(buf, o.raster), text: s}
	Logger().Debug("particlize: text item",
		"id", item.id, "particles", len(item.particles), "size", fmt.Sprintf("%dx%d", buf.Width, buf.Height))
	return item, nil
}

// Kind implements Item.
func (*TextItem) Kind() ItemKind { return KindText }

// Text returns the source string.
func (t *TextItem) Text() string { return t.text }

// ImageItem is an image sampled into particles.
type ImageItem struct {
	baseItem
}

// NewImage samples img into an ImageItem.
func NewImage(img image.Image, opts ...ItemOption) (*ImageItem, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	o := applyItemOptions(opts)
	buf, err := pixel.FromImage(pixel.Fit(img, o.maxSize))
	if err != nil {
		return nil, fmt.Errorf("particlize: convert image: %w", err)
	}
	return newImageItem(buf, o), nil
}

// DecodeImage decodes a PNG, JPEG, GIF, WebP, BMP or TIFF image from r and
// samples it into an ImageItem.
func DecodeImage(r io.Reader, opts ...ItemOption) (*ImageItem, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("particlize: decode image: %w", err)
	}
	return NewImage(img, opts...)
}

// NewImageFromBuffer samples a pixel buffer directly, honoring its channel
// order and alpha mode. WithMaxSize is ignored.
func NewImageFromBuffer(buf *pixel.Buffer, opts ...ItemOption) (*ImageItem, error) {
	if buf == nil {
		return nil, ErrNilImage
	}
	return newImageItem(buf, applyItemOptions(opts)), nil
}

func newImageItem(buf *pixel.Buffer, o itemOptions) *ImageItem {
	item := &ImageItem{baseItem: newBase(buf, o.raster)}
	Logger().Debug("particlize: image item",
		"id", item.id, "particles", len(item.particles), "size", fmt.Sprintf("%dx%d", buf.Width, buf.Height))
	return item
}

// Kind implements Item.
func (*ImageItem) Kind() ItemKind { return KindImage }

func applyItemOptions(opts []ItemOption) itemOptions {
	o := defaultItemOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
