package portrait

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/arcanaland/tavernkeep/internal/card"
)

// ConvertPNG decodes a portrait and re-encodes it as non-premultiplied RGBA PNG.
func ConvertPNG(data []byte, w io.Writer) error {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: portrait: decode image: %w", card.ErrCorruptImage, err)
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("portrait: encode %s as png: %w", format, err)
	}
	return nil
}
