package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/labmed/barcoder/pkg/buildinfo"
	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/label"
	"github.com/labmed/barcoder/pkg/layout"
	"github.com/labmed/barcoder/pkg/render"
	"github.com/labmed/barcoder/pkg/sheet"
)

const (
	gridLineWidth = 0.5
	footerSize    = 10
)

// pageRenderer draws labels onto a canvas and finalizes its pages.
type pageRenderer struct {
	ctx    context.Context
	canvas canvas.Canvas
	opts   *Options
	base   label.Vars
}

func newPageRenderer(ctx context.Context, c canvas.Canvas, opts *Options) *pageRenderer {
	return &pageRenderer{
		ctx:    ctx,
		canvas: c,
		opts:   opts,
		base: label.Vars{
			"batch":   opts.Batch,
			"date":    opts.date,
			"version": buildinfo.Version,
			"url":     opts.URL,
			"note":    opts.Note,
		},
	}
}

// DrawLabel implements sheet.PageRenderer.
func (p *pageRenderer) DrawLabel(page int, rec sheet.Record, cell layout.Cell) error {
	t := p.opts.templates[min(cell.Column, len(p.opts.templates)-1)]

	// Shared-row labels are numbered by row so every column agrees.
	n := cell.Index + 1
	if p.opts.preset.ShareRow {
		n = cell.Row + 1
	}
	counter := fmt.Sprintf("%d-%d", page, n)
	tag := "(" + counter + ")"
	if p.opts.Batch != "" {
		tag = p.opts.Batch + " " + tag
	}

	vars := label.NewVars(rec.Code, rec.Fields)
	for k, v := range p.base {
		vars[k] = v
	}
	vars["counter"] = counter
	vars["tag"] = tag

	if err := t.Draw(p.canvas, cell.X, cell.Y, vars); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "drawing %s label for %q", t.Name, rec.Code)
	}
	return nil
}

// FinishPage implements sheet.PageRenderer.
func (p *pageRenderer) FinishPage(page int, _ []string) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	if p.opts.Grid {
		for _, l := range layout.GridLines(p.opts.preset.Layout, p.opts.VLines) {
			if err := p.canvas.DrawLine(l.X1, l.Y1, l.X2, l.Y2, gridLineWidth); err != nil {
				return err
			}
		}
	}
	if !p.opts.NoFooter {
		f := canvas.Font{Style: fonts.Regular, Size: footerSize}
		if err := p.canvas.DrawText(10, 20, fmt.Sprint(page), f); err != nil {
			return err
		}
		if err := p.canvas.DrawText(30, 20, "barcoder version "+buildinfo.Version, f); err != nil {
			return err
		}
	}
	return p.canvas.EndPage()
}

// skipRenderer paginates without drawing, to advance a source past pages
// whose output is already cached.
type skipRenderer struct{}

func (skipRenderer) DrawLabel(int, sheet.Record, layout.Cell) error { return nil }
func (skipRenderer) FinishPage(int, []string) error                 { return nil }

// newCanvas creates the canvas the engine draws on.
func newCanvas(opts *Options, title string) (canvas.Canvas, error) {
	l := opts.preset.Layout
	format := opts.Format
	if opts.Engine == EngineRSVG {
		format = canvas.FormatSVG
	}
	return canvas.New(format, l.PageWidth, l.PageHeight,
		canvas.WithTitle(title),
		canvas.WithAuthor("barcoder "+buildinfo.Version),
		canvas.WithSubject(fmt.Sprintf("%s labels", opts.Layout)),
		canvas.WithCreated(opts.created()),
		canvas.WithDPI(opts.DPI),
	)
}

// created is the run time, truncated to the day for proof sheets so cached
// documents stay accurate.
func (o *Options) created() time.Time {
	now := o.Now()
	if o.Deterministic() {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	return now
}

// encode finishes the canvas and converts its pages when the rsvg engine
// drew them as SVG.
func encode(ctx context.Context, c canvas.Canvas, opts *Options) ([][]byte, error) {
	pages, err := c.Finish()
	if err != nil {
		return nil, err
	}
	if opts.Engine != EngineRSVG {
		return pages, nil
	}

	switch opts.Format {
	case canvas.FormatPDF:
		pdf, err := render.ToPDF(ctx, pages...)
		if err != nil {
			return nil, err
		}
		return [][]byte{pdf}, nil
	case canvas.FormatPNG:
		out := make([][]byte, len(pages))
		for i, svg := range pages {
			png, err := render.ToPNG(ctx, svg, opts.DPI/72)
			if err != nil {
				return nil, err
			}
			out[i] = png
		}
		return out, nil
	}
	return pages, nil
}
