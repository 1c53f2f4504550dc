// Package symbol encodes codes as Code 128 and QR symbols.
//
// Encoding is delegated to github.com/boombuler/barcode. The resulting
// images are reduced to a [Matrix] of dark module runs so that every canvas
// backend can draw symbols as crisp vector rectangles instead of scaled
// bitmaps.
package symbol

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"

	"github.com/labmed/barcoder/pkg/errors"
)

// Kind identifies a symbology.
type Kind string

const (
	KindCode128 Kind = "code128"
	KindQR      Kind = "qr"
)

// DefaultMils is the narrow bar width, in thousandths of an inch, used to
// size printed Code 128 symbols.
const DefaultMils = 15

// Code128 encodes text as a Code 128 symbol.
func Code128(text string) (barcode.Barcode, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "cannot encode empty text")
	}
	bc, err := code128.Encode(text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding %q as code 128", text)
	}
	return bc, nil
}

// QR encodes text as a QR symbol at medium error correction.
func QR(text string) (barcode.Barcode, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "cannot encode empty text")
	}
	bc, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding %q as QR", text)
	}
	return bc, nil
}

// Encode encodes text with the given symbology and returns its modules.
func Encode(kind Kind, text string) (Matrix, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch kind {
	case KindCode128:
		bc, err = Code128(text)
	case KindQR:
		bc, err = QR(text)
	default:
		return Matrix{}, errors.New(errors.ErrCodeInvalidArgument, "unknown symbology %q", kind)
	}
	if err != nil {
		return Matrix{}, err
	}
	return Modules(bc), nil
}

// Run is a horizontal stretch of dark modules.
type Run struct {
	X, Y int // module coordinates, row 0 at the top
	Len  int
}

// Matrix is a symbol reduced to its dark module runs. Linear symbols have a
// single row.
type Matrix struct {
	Cols, Rows int
	Runs       []Run
}

// Modules extracts the dark module runs of bc.
func Modules(bc barcode.Barcode) Matrix {
	b := bc.Bounds()
	m := Matrix{Cols: b.Dx(), Rows: b.Dy()}
	for y := 0; y < m.Rows; y++ {
		start := -1
		for x := 0; x <= m.Cols; x++ {
			on := x < m.Cols && dark(bc.At(b.Min.X+x, b.Min.Y+y))
			switch {
			case on && start < 0:
				start = x
			case !on && start >= 0:
				m.Runs = append(m.Runs, Run{X: start, Y: y, Len: x - start})
				start = -1
			}
		}
	}
	return m
}

func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// Chunk splits text into groups of n characters joined by sep, for human
// readable lines such as "ABCD-EFGH-JKLM".
func Chunk(text string, n int, sep string) string {
	if n <= 0 || len(text) <= n {
		return text
	}
	parts := make([]string, 0, (len(text)+n-1)/n)
	for i := 0; i < len(text); i += n {
		end := min(i+n, len(text))
		parts = append(parts, text[i:end])
	}
	return strings.Join(parts, sep)
}

// Code128Width estimates the printed width, in points, of a Code 128 symbol
// for text at the given narrow bar width in mils. Letters take a full symbol
// character and digit pairs share one.
func Code128Width(text string, mils float64) float64 {
	text = strings.ReplaceAll(text, "-", "")
	alpha := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	num := len(text) - alpha
	return (11*float64(alpha) + 5.5*float64(num) + 35) * mils / 1000 * 72
}
