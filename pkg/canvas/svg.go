package canvas

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

// svgScale is the number of SVG user units per point. svgo takes integer
// coordinates, so points are scaled up to keep 1/100 pt resolution.
const svgScale = 100

// SVG draws each page as a standalone SVG document sized in points.
type SVG struct {
	w, h  float64
	cfg   config
	pages [][]byte
	buf   *bytes.Buffer
	doc   *svg.SVG
	bars  bool // inside the fill group for symbol modules
}

// NewSVG creates an SVG canvas.
func NewSVG(w, h float64, opts ...Option) *SVG {
	return &SVG{w: w, h: h, cfg: newConfig(opts)}
}

// Size implements Canvas.
func (c *SVG) Size() (float64, float64) { return c.w, c.h }

func u(v float64) int { return int(math.Round(v * svgScale)) }

func (c *SVG) page() {
	if c.doc != nil {
		return
	}
	c.buf = &bytes.Buffer{}
	c.doc = svg.New(c.buf)
	c.doc.StartviewUnit(int(math.Round(c.w)), int(math.Round(c.h)), "pt", 0, 0, u(c.w), u(c.h))
	if c.cfg.title != "" {
		c.doc.Title(fmt.Sprintf("%s (page %d)", c.cfg.title, len(c.pages)+1))
	}
	c.doc.Rect(0, 0, u(c.w), u(c.h), "fill:white")
}

// flip converts a bottom-left y to SVG's top-left origin.
func (c *SVG) flip(y float64) int { return u(c.h - y) }

func (c *SVG) endBars() {
	if c.bars {
		c.doc.Gend()
		c.bars = false
	}
}

// DrawSymbol implements Canvas.
func (c *SVG) DrawSymbol(m symbol.Matrix, x, y, w, h float64) error {
	c.page()
	if !c.bars {
		c.doc.Gstyle("fill:black;stroke:none")
		c.bars = true
	}
	return symbolRects(m, x, y, w, h, func(rx, top, rw, rh float64) error {
		c.doc.Rect(u(rx), c.flip(top), u(rw), u(rh))
		return nil
	})
}

// DrawText implements Canvas.
func (c *SVG) DrawText(x, y float64, text string, f Font) error {
	if text == "" {
		return nil
	}
	c.page()
	c.endBars()

	style := fmt.Sprintf("font-family:%s;font-size:%d;fill:black;text-anchor:%s",
		fonts.FontFamily, u(f.Size), svgAnchor(f.Anchor))
	switch f.Style {
	case fonts.Bold:
		style += ";font-weight:bold"
	case fonts.Italic:
		style += ";font-style:italic"
	}
	c.doc.Text(u(x), c.flip(y), text, style)
	return nil
}

func svgAnchor(a Anchor) string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	}
	return "start"
}

// DrawLine implements Canvas.
func (c *SVG) DrawLine(x1, y1, x2, y2, width float64) error {
	c.page()
	c.endBars()
	c.doc.Line(u(x1), c.flip(y1), u(x2), c.flip(y2), fmt.Sprintf("stroke:black;stroke-width:%d", max(1, u(width))))
	return nil
}

// EndPage implements Canvas.
func (c *SVG) EndPage() error {
	c.page()
	c.endBars()
	c.doc.End()
	c.pages = append(c.pages, c.buf.Bytes())
	c.doc, c.buf = nil, nil
	return nil
}

// Finish implements Canvas. It returns one document per page.
func (c *SVG) Finish() ([][]byte, error) {
	if c.doc != nil {
		if err := c.EndPage(); err != nil {
			return nil, err
		}
	}
	return c.pages, nil
}

var _ Canvas = (*SVG)(nil)
