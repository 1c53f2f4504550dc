package canvas

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

// PNG rasterizes each page with gg at the configured resolution.
type PNG struct {
	w, h  float64
	dpi   float64
	scale float64 // pixels per point
	dc    *gg.Context
	pages [][]byte
}

// NewPNG creates a PNG canvas.
func NewPNG(w, h float64, opts ...Option) *PNG {
	cfg := newConfig(opts)
	return &PNG{w: w, h: h, dpi: cfg.dpi, scale: cfg.dpi / 72}
}

// Size implements Canvas.
func (c *PNG) Size() (float64, float64) { return c.w, c.h }

func (c *PNG) page() {
	if c.dc != nil {
		return
	}
	c.dc = gg.NewContext(int(math.Ceil(c.w*c.scale)), int(math.Ceil(c.h*c.scale)))
	c.dc.SetRGB(1, 1, 1)
	c.dc.Clear()
	c.dc.SetRGB(0, 0, 0)
}

func (c *PNG) px(x, y float64) (float64, float64) {
	return x * c.scale, (c.h - y) * c.scale
}

// DrawSymbol implements Canvas.
func (c *PNG) DrawSymbol(m symbol.Matrix, x, y, w, h float64) error {
	c.page()
	err := symbolRects(m, x, y, w, h, func(rx, top, rw, rh float64) error {
		px, py := c.px(rx, top)
		c.dc.DrawRectangle(px, py, rw*c.scale, rh*c.scale)
		return nil
	})
	if err != nil {
		return err
	}
	c.dc.Fill()
	return nil
}

// DrawText implements Canvas.
func (c *PNG) DrawText(x, y float64, text string, f Font) error {
	if text == "" {
		return nil
	}
	c.page()
	face, err := fonts.Face(f.Style, f.Size, c.dpi)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "loading font")
	}
	c.dc.SetFontFace(face)

	ax := 0.0
	switch f.Anchor {
	case AnchorMiddle:
		ax = 0.5
	case AnchorEnd:
		ax = 1
	}
	px, py := c.px(x, y)
	c.dc.DrawStringAnchored(text, px, py, ax, 0)
	return nil
}

// DrawLine implements Canvas.
func (c *PNG) DrawLine(x1, y1, x2, y2, width float64) error {
	c.page()
	ax, ay := c.px(x1, y1)
	bx, by := c.px(x2, y2)
	c.dc.SetLineWidth(math.Max(1, width*c.scale))
	c.dc.DrawLine(ax, ay, bx, by)
	c.dc.Stroke()
	return nil
}

// EndPage implements Canvas.
func (c *PNG) EndPage() error {
	c.page()
	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encoding png")
	}
	c.pages = append(c.pages, buf.Bytes())
	c.dc = nil
	return nil
}

// Finish implements Canvas. It returns one image per page.
func (c *PNG) Finish() ([][]byte, error) {
	if c.dc != nil {
		if err := c.EndPage(); err != nil {
			return nil, err
		}
	}
	return c.pages, nil
}

var _ Canvas = (*PNG)(nil)
