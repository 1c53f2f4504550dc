// Package canvas is the drawing surface label sheets are rendered onto.
//
// A [Canvas] accepts points with the origin at the bottom-left corner of the
// page, the convention used by layouts, and converts to the coordinate
// system of its backend:
//
//   - PDF: github.com/signintech/gopdf, one multi-page document
//   - SVG: github.com/ajstarks/svgo, one document per page
//   - PNG: github.com/fogleman/gg, one image per page
//
// Pages are opened lazily by the first drawing call and closed by
// [Canvas.EndPage]. [Canvas.Finish] closes the last page and returns the
// encoded output.
package canvas

import (
	"strings"
	"time"

	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

// Output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatPDF, FormatSVG, FormatPNG}

// Anchor is the horizontal alignment of text relative to its x coordinate.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// ParseAnchor parses "start", "middle" or "end".
func ParseAnchor(s string) Anchor {
	switch s {
	case "middle":
		return AnchorMiddle
	case "end":
		return AnchorEnd
	}
	return AnchorStart
}

// Font describes how a line of text is set.
type Font struct {
	Style  fonts.Style
	Size   float64 // points
	Anchor Anchor
}

// Canvas is a paged drawing surface measured in points.
type Canvas interface {
	// Size returns the page size.
	Size() (w, h float64)

	// DrawSymbol fills the box with lower-left corner (x, y) with the dark
	// modules of m.
	DrawSymbol(m symbol.Matrix, x, y, w, h float64) error

	// DrawText sets text with its baseline at y.
	DrawText(x, y float64, text string, f Font) error

	// DrawLine strokes a black line.
	DrawLine(x1, y1, x2, y2, width float64) error

	// EndPage closes the current page. A page with nothing drawn on it is
	// still emitted.
	EndPage() error

	// Finish closes any open page and returns the encoded document(s).
	Finish() ([][]byte, error)
}

type config struct {
	title   string
	author  string
	subject string
	created time.Time
	dpi     float64
}

// Option configures a canvas.
type Option func(*config)

// WithTitle sets the document title (PDF info, SVG title).
func WithTitle(s string) Option { return func(c *config) { c.title = s } }

// WithAuthor sets the document author.
func WithAuthor(s string) Option { return func(c *config) { c.author = s } }

// WithSubject sets the document subject.
func WithSubject(s string) Option { return func(c *config) { c.subject = s } }

// WithCreated sets the creation time recorded in the document.
func WithCreated(t time.Time) Option { return func(c *config) { c.created = t } }

// WithDPI sets the raster resolution for PNG output.
func WithDPI(dpi float64) Option {
	return func(c *config) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// DefaultDPI is the PNG resolution when none is given.
const DefaultDPI = 300

func newConfig(opts []Option) config {
	c := config{created: time.Now(), dpi: DefaultDPI}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// New creates a canvas for the named format.
func New(format string, w, h float64, opts ...Option) (Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "page size %.1fx%.1f is not positive", w, h)
	}
	switch strings.ToLower(format) {
	case FormatPDF:
		c, err := NewPDF(w, h, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case FormatSVG:
		return NewSVG(w, h, opts...), nil
	case FormatPNG:
		return NewPNG(w, h, opts...), nil
	}
	return nil, ValidateFormat(format)
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want %s)", format, strings.Join(Formats, ", "))
}

// MultiPage reports whether format stores every page in one document.
func MultiPage(format string) bool {
	return strings.EqualFold(format, FormatPDF)
}

// symbolRects converts the runs of m into rectangles inside the box at
// (x, y, w, h), top-left corners in bottom-left page coordinates.
func symbolRects(m symbol.Matrix, x, y, w, h float64, fn func(rx, top, rw, rh float64) error) error {
	if m.Cols == 0 || m.Rows == 0 {
		return errors.New(errors.ErrCodeRender, "empty symbol")
	}
	mw := w / float64(m.Cols)
	mh := h / float64(m.Rows)
	for _, r := range m.Runs {
		if err := fn(x+float64(r.X)*mw, y+h-float64(r.Y)*mh, float64(r.Len)*mw, mh); err != nil {
			return err
		}
	}
	return nil
}
