// Package render draws portraits as terminal art.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// ImageToANSI converts an image to ANSI art of width x height cells. Each
// cell is an upper half block covering a 2x2 pixel square.
func ImageToANSI(img image.Image, width, height int, trueColor bool) string {
	// Resize image to desired dimensions (doubled for half-block characters)
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			// Top pixels as foreground, bottom pixels as background
			col1, _ := colorful.MakeColor(colorAt(resized, x, y))
			col2, _ := colorful.MakeColor(colorAt(resized, x+1, y))
			col3, _ := colorful.MakeColor(colorAt(resized, x, y+1))
			col4, _ := colorful.MakeColor(colorAt(resized, x+1, y+1))

			fg := toRGBA(averageColor(col1, col2))
			bg := toRGBA(averageColor(col3, col4))

			buffer.WriteString(cell('▀', fg, bg, trueColor))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// FitHeight returns the cell height that keeps img's aspect ratio at the
// given cell width. A terminal cell is about twice as tall as it is wide,
// so each half block is roughly square.
func FitHeight(img image.Image, width int) int {
	b := img.Bounds()
	if b.Dx() == 0 {
		return 0
	}
	h := width * b.Dy() / (2 * b.Dx())
	if h < 1 {
		h = 1
	}
	return h
}

func colorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255} // black outside the image
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func cell(char rune, fg, bg color.RGBA, trueColor bool) string {
	if trueColor {
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			fg.R, fg.G, fg.B, bg.R, bg.G, bg.B, char)
	}
	return string(char)
}

// StripANSI removes terminal escape sequences from s
func StripANSI(s string) string {
	return text.StripEscape(s)
}

// VisibleWidth is the number of terminal columns s occupies once escape
// sequences are removed.
func VisibleWidth(s string) int {
	return text.StringWidthWithoutEscSequences(s)
}

// WrapText wraps text to a specified width, keeping paragraph breaks
func WrapText(s string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Join(strings.Fields(paragraph), " ")
		if words == "" {
			result = append(result, "")
			continue
		}
		for _, line := range strings.Split(text.WrapSoft(words, width), "\n") {
			result = append(result, strings.TrimSpace(line))
		}
	}

	return result
}
