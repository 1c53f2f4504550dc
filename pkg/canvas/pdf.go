package canvas

import (
	"bytes"

	"github.com/signintech/gopdf"

	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

// PDF draws onto a single gopdf document. gopdf measures from the top-left
// corner, so every y coordinate is flipped against the page height.
type PDF struct {
	pdf  *gopdf.GoPdf
	w, h float64
	open bool
	font *Font
}

// NewPDF creates a PDF canvas with the Go fonts embedded.
func NewPDF(w, h float64, opts ...Option) (*PDF, error) {
	cfg := newConfig(opts)

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: w, H: h}, Unit: gopdf.UnitPT})
	for _, s := range fonts.Styles {
		if err := pdf.AddTTFFontData(s.String(), fonts.TTF(s)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "embedding font %s", s)
		}
	}
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        cfg.title,
		Author:       cfg.author,
		Subject:      cfg.subject,
		Creator:      "barcoder",
		Producer:     "barcoder",
		CreationDate: cfg.created,
	})

	return &PDF{pdf: pdf, w: w, h: h}, nil
}

// Size implements Canvas.
func (c *PDF) Size() (float64, float64) { return c.w, c.h }

func (c *PDF) page() {
	if !c.open {
		c.pdf.AddPage()
		c.open = true
		c.font = nil
	}
}

// DrawSymbol implements Canvas.
func (c *PDF) DrawSymbol(m symbol.Matrix, x, y, w, h float64) error {
	c.page()
	c.pdf.SetFillColor(0, 0, 0)
	return symbolRects(m, x, y, w, h, func(rx, top, rw, rh float64) error {
		c.pdf.RectFromUpperLeftWithStyle(rx, c.h-top, rw, rh, "F")
		return nil
	})
}

// DrawText implements Canvas.
func (c *PDF) DrawText(x, y float64, text string, f Font) error {
	if text == "" {
		return nil
	}
	c.page()
	if c.font == nil || c.font.Style != f.Style || c.font.Size != f.Size {
		if err := c.pdf.SetFont(f.Style.String(), "", f.Size); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "selecting font %s", f.Style)
		}
		c.font = &f
	}

	if f.Anchor != AnchorStart {
		tw, err := c.pdf.MeasureTextWidth(text)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "measuring %q", text)
		}
		if f.Anchor == AnchorMiddle {
			x -= tw / 2
		} else {
			x -= tw
		}
	}

	c.pdf.SetTextColor(0, 0, 0)
	c.pdf.SetXY(x, c.h-y)
	if err := c.pdf.Text(text); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "writing %q", text)
	}
	return nil
}

// DrawLine implements Canvas.
func (c *PDF) DrawLine(x1, y1, x2, y2, width float64) error {
	c.page()
	c.pdf.SetStrokeColor(0, 0, 0)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, c.h-y1, x2, c.h-y2)
	return nil
}

// EndPage implements Canvas.
func (c *PDF) EndPage() error {
	c.page()
	c.open = false
	return nil
}

// Finish implements Canvas. It returns a single document holding every page.
func (c *PDF) Finish() ([][]byte, error) {
	if c.open {
		c.open = false
	}
	var buf bytes.Buffer
	if _, err := c.pdf.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "writing pdf")
	}
	return [][]byte{buf.Bytes()}, nil
}

var _ Canvas = (*PDF)(nil)
