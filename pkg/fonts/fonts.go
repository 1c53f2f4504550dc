// Package fonts provides the Go font family for label text.
//
// The TTF data comes from golang.org/x/image/font/gofont, so the fonts are
// compiled into the binary and render identically on every backend. Parsed
// faces are cached per style, size and resolution.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Style selects a member of the font family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

// Styles lists every style in the family.
var Styles = []Style{Regular, Bold, Italic}

// String returns the family name used to register the style with a backend.
func (s Style) String() string {
	switch s {
	case Bold:
		return "gobold"
	case Italic:
		return "goitalic"
	default:
		return "goregular"
	}
}

// TTF returns the TrueType data for the style.
func TTF(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// FontFamily is the CSS font-family for SVG output. Viewers without the Go
// fonts fall back to a sans-serif face of similar metrics.
const FontFamily = `'Go', 'Helvetica', 'Arial', sans-serif`

type faceKey struct {
	style Style
	size  float64
	dpi   float64
}

var (
	parsed  = map[Style]*opentype.Font{}
	faces   = map[faceKey]font.Face{}
	facesMu sync.Mutex
)

// Face returns a font face for the style at size points and dpi.
func Face(s Style, size, dpi float64) (font.Face, error) {
	facesMu.Lock()
	defer facesMu.Unlock()

	key := faceKey{s, size, dpi}
	if f, ok := faces[key]; ok {
		return f, nil
	}

	fnt, ok := parsed[s]
	if !ok {
		var err error
		fnt, err = opentype.Parse(TTF(s))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", s, err)
		}
		parsed[s] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s %.1fpt: %w", s, size, err)
	}
	faces[key] = face
	return face, nil
}

// Width returns the advance width of text in points when set at size points.
func Width(s Style, size float64, text string) (float64, error) {
	face, err := Face(s, size, 72)
	if err != nil {
		return 0, err
	}
	return float64(font.MeasureString(face, text)) / 64, nil
}
