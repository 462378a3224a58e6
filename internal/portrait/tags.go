// Package portrait reads the character payload embedded in a card portrait
// and converts the portrait for local use.
package portrait

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/image/riff"

	"github.com/arcanaland/tavernkeep/internal/card"
)

// RecognizedTags are the metadata keys that may carry the payload, in
// lookup order. Different exporters use different names for the same field.
var RecognizedTags = []string{"chara", "UserComment", "Chara"}

// Tags maps metadata key names to their raw values. When a key appears more
// than once the first occurrence is kept.
type Tags map[string][]byte

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	jpegSOI      = []byte{0xFF, 0xD8}

	webpFourCC = riff.FourCC{'W', 'E', 'B', 'P'}
	exifFourCC = riff.FourCC{'E', 'X', 'I', 'F'}
)

// ReadTags collects the text and EXIF metadata of a WebP, PNG or JPEG image.
func ReadTags(data []byte) (Tags, error) {
	tags := Tags{}
	var err error
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		err = readWebP(tags, data)
	case bytes.HasPrefix(data, pngSignature):
		err = readPNG(tags, data)
	case bytes.HasPrefix(data, jpegSOI):
		// A JPEG without an APP1 block simply has no metadata.
		if exifErr := readEXIF(tags, data); exifErr != nil {
			err = fmt.Errorf("%w: jpeg: %w", card.ErrMissingPayload, exifErr)
		}
	default:
		return nil, fmt.Errorf("%w: unrecognized image container", card.ErrMissingPayload)
	}
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Lookup returns the first recognized tag present in tags.
func Lookup(tags Tags) (string, []byte, error) {
	for _, name := range RecognizedTags {
		if value, ok := tags[name]; ok {
			return name, value, nil
		}
	}
	return "", nil, fmt.Errorf("%w: none of %v present in image metadata", card.ErrMissingPayload, RecognizedTags)
}

func (t Tags) add(name string, value []byte) {
	if _, ok := t[name]; !ok {
		t[name] = value
	}
}

func readWebP(tags Tags, data []byte) error {
	formType, r, err := riff.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: webp: %w", card.ErrCorruptPayload, err)
	}
	if formType != webpFourCC {
		return fmt.Errorf("%w: webp: unexpected form type %q", card.ErrCorruptPayload, formType[:])
	}
	for {
		id, _, chunk, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: webp: %w", card.ErrCorruptPayload, err)
		}
		if id != exifFourCC {
			continue
		}
		raw, err := io.ReadAll(chunk)
		if err != nil {
			return fmt.Errorf("%w: webp exif chunk: %w", card.ErrCorruptPayload, err)
		}
		if err := readEXIF(tags, raw); err != nil {
			return fmt.Errorf("%w: webp: %w", card.ErrCorruptPayload, err)
		}
	}
}

func readPNG(tags Tags, data []byte) error {
	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return fmt.Errorf("%w: png: %w", card.ErrCorruptPayload, err)
	}
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok {
		return fmt.Errorf("%w: png: unexpected chunk container %T", card.ErrCorruptPayload, mc)
	}

	for _, chunk := range cs.Chunks() {
		if !chunk.CheckCrc32() {
			return fmt.Errorf("%w: png: bad checksum on %s chunk", card.ErrCorruptPayload, chunk.Type)
		}
		body := chunk.Data

		switch chunk.Type {
		case "tEXt":
			if key, text, ok := bytes.Cut(body, []byte{0}); ok {
				tags.add(string(key), text)
			}
		case "zTXt":
			key, compressed, ok := bytes.Cut(body, []byte{0})
			if !ok || len(compressed) < 1 {
				continue
			}
			text, err := inflate(compressed[1:])
			if err != nil {
				return fmt.Errorf("%w: png zTXt %q: %w", card.ErrCorruptPayload, key, err)
			}
			tags.add(string(key), text)
		case "iTXt":
			key, text, err := parseITXt(body)
			if err != nil {
				return fmt.Errorf("%w: png iTXt: %w", card.ErrCorruptPayload, err)
			}
			tags.add(key, text)
		case "eXIf":
			if err := readEXIF(tags, body); err != nil {
				return fmt.Errorf("%w: png: %w", card.ErrCorruptPayload, err)
			}
		case "IEND":
			return nil
		}
	}
	return nil
}

// parseITXt splits keyword, flags, language and translated keyword from
// the text of an international text chunk.
func parseITXt(body []byte) (string, []byte, error) {
	key, rest, ok := bytes.Cut(body, []byte{0})
	if !ok || len(rest) < 2 {
		return "", nil, errors.New("malformed chunk")
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	_, rest, ok = bytes.Cut(rest, []byte{0}) // language tag
	if !ok {
		return "", nil, fmt.Errorf("malformed chunk %q", key)
	}
	_, text, ok := bytes.Cut(rest, []byte{0}) // translated keyword
	if !ok {
		return "", nil, fmt.Errorf("malformed chunk %q", key)
	}
	if compressed {
		inflated, err := inflate(text)
		if err != nil {
			return "", nil, fmt.Errorf("chunk %q: %w", key, err)
		}
		text = inflated
	}
	return string(key), text, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// tagCollector gathers every EXIF field by its canonical name.
type tagCollector Tags

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	Tags(c).add(string(name), tag.Val)
	return nil
}

func readEXIF(tags Tags, raw []byte) error {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return fmt.Errorf("exif: %w", err)
	}
	if x == nil {
		return errors.New("exif: empty block")
	}
	return x.Walk(tagCollector(tags))
}
