// Package portraittest builds synthetic portraits carrying an embedded
// character payload.
package portraittest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"testing"
)

// CommentHeader is the EXIF character-code prefix used by the encoders.
const CommentHeader = "ASCII\x00\x00\x00"

// EncodeDecimal frames payload the way card exporters do: the comment
// header followed by each byte as a comma separated decimal number.
func EncodeDecimal(payload []byte) []byte {
	parts := make([]string, len(payload))
	for i, b := range payload {
		parts[i] = strconv.Itoa(int(b))
	}
	return []byte(CommentHeader + strings.Join(parts, ","))
}

// Chunk is a PNG ancillary chunk.
type Chunk struct {
	Type string
	Data []byte
}

// TextChunk builds a tEXt chunk.
func TextChunk(keyword string, value []byte) Chunk {
	data := append([]byte(keyword+"\x00"), value...)
	return Chunk{Type: "tEXt", Data: data}
}

// ExifChunk builds an eXIf chunk whose Exif sub-IFD holds a UserComment.
func ExifChunk(comment []byte) Chunk {
	return Chunk{Type: "eXIf", Data: UserCommentTIFF(comment)}
}

// UserCommentTIFF builds a little-endian TIFF block with IFD0 pointing to
// an Exif sub-IFD that contains a single UserComment entry.
func UserCommentTIFF(comment []byte) []byte {
	const (
		ifd0Offset = 8
		ifdSize    = 2 + 12 + 4
		subOffset  = ifd0Offset + ifdSize
		dataOffset = subOffset + ifdSize
	)
	le := binary.LittleEndian
	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, le, uint16(42))
	_ = binary.Write(&buf, le, uint32(ifd0Offset))

	// IFD0: ExifIFDPointer
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(0x8769))
	_ = binary.Write(&buf, le, uint16(4)) // LONG
	_ = binary.Write(&buf, le, uint32(1))
	_ = binary.Write(&buf, le, uint32(subOffset))
	_ = binary.Write(&buf, le, uint32(0))

	// Exif sub-IFD: UserComment
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(0x9286))
	_ = binary.Write(&buf, le, uint16(7)) // UNDEFINED
	_ = binary.Write(&buf, le, uint32(len(comment)))
	if len(comment) <= 4 {
		inline := make([]byte, 4)
		copy(inline, comment)
		buf.Write(inline)
		_ = binary.Write(&buf, le, uint32(0))
		return buf.Bytes()
	}
	_ = binary.Write(&buf, le, uint32(dataOffset))
	_ = binary.Write(&buf, le, uint32(0))
	buf.Write(comment)
	return buf.Bytes()
}

// PNG encodes a small opaque image and inserts chunks right after IHDR.
func PNG(tb testing.TB, chunks ...Chunk) []byte {
	tb.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 * x), G: uint8(30 * y), B: 200, A: 255})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		tb.Fatalf("encode png: %v", err)
	}
	raw := encoded.Bytes()

	// signature (8) + IHDR chunk (4 length + 4 type + 13 data + 4 crc)
	const ihdrEnd = 8 + 25
	var out bytes.Buffer
	out.Write(raw[:ihdrEnd])
	for _, c := range chunks {
		writeChunk(&out, c)
	}
	out.Write(raw[ihdrEnd:])
	return out.Bytes()
}

func writeChunk(buf *bytes.Buffer, c Chunk) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(c.Data)))
	typed := append([]byte(c.Type), c.Data...)
	buf.Write(typed)
	_ = binary.Write(buf, binary.BigEndian, crc32.ChecksumIEEE(typed))
}

// WebP wraps chunks in a RIFF WEBP container. Without a VP8/VP8L chunk the
// result carries no image data and is only useful for metadata tests.
func WebP(chunks ...Chunk) []byte {
	var body bytes.Buffer
	body.WriteString("WEBP")
	for _, c := range chunks {
		body.WriteString(c.Type)
		_ = binary.Write(&body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 == 1 {
			body.WriteByte(0)
		}
	}
	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// LosslessWebP builds an extended WebP: a VP8X header with the EXIF flag set,
// a VP8L bitstream filling width x height with fill, then chunks.
func LosslessWebP(width, height int, fill color.NRGBA, chunks ...Chunk) []byte {
	vp8x := make([]byte, 10)
	vp8x[0] = 1 << 3 // EXIF
	putUint24(vp8x[4:], uint32(width-1))
	putUint24(vp8x[7:], uint32(height-1))

	all := []Chunk{{Type: "VP8X", Data: vp8x}, {Type: "VP8L", Data: solidVP8L(width, height, fill)}}
	return WebP(append(all, chunks...)...)
}

func putUint24(b []byte, v uint32) {
	b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
}

// solidVP8L encodes a single-colour image. Every prefix code is a simple
// one-symbol code, so pixels take no bits at all.
func solidVP8L(width, height int, fill color.NRGBA) []byte {
	var w bitWriter
	w.write(0x2f, 8)
	w.write(uint32(width-1), 14)
	w.write(uint32(height-1), 14)
	if fill.A != 0xff {
		w.write(1, 1)
	} else {
		w.write(0, 1)
	}
	w.write(0, 3) // version
	w.write(0, 1) // no transforms
	w.write(0, 1) // no color cache
	w.write(0, 1) // no meta prefix codes
	for _, symbol := range []uint8{fill.G, fill.R, fill.B, fill.A, 0} {
		w.write(1, 1) // simple code
		w.write(0, 1) // one symbol
		if symbol < 2 {
			w.write(0, 1)
			w.write(uint32(symbol), 1)
		} else {
			w.write(1, 1)
			w.write(uint32(symbol), 8)
		}
	}
	return w.bytes()
}

// bitWriter packs values least significant bit first.
type bitWriter struct {
	buf  []byte
	acc  uint64
	bits uint
}

func (w *bitWriter) write(v uint32, n uint) {
	w.acc |= uint64(v) << w.bits
	w.bits += n
	for w.bits >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.bits -= 8
	}
}

func (w *bitWriter) bytes() []byte {
	if w.bits > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.bits = 0, 0
	}
	return w.buf
}
