// Package sheet places label records onto pages.
//
// A [Filler] pulls records from a [Source] and maps them onto the cells of a
// [layout.Layout], bottom row first. Every record pulled for a page is
// validated before the first label of that page is drawn, so a bad record
// never leaves a half-rendered page behind.
//
// [Filler.Paginate] repeats the fill for a fixed number of pages, pulling from
// the same source so codes continue across page boundaries:
//
//	f := sheet.NewFiller(preset)
//	pages, err := f.Paginate(3, sheet.NewGeneratorSource(gen), renderer)
package sheet

import (
	"errors"
	"io"

	bcerrors "github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/layout"
)

// MaxPages bounds both the pages per file and the files per run.
const MaxPages = 99

// RenderFunc draws one record into one cell.
type RenderFunc func(rec Record, cell layout.Cell) error

// PageRenderer receives the labels of each page and is told when a page is
// complete.
type PageRenderer interface {
	DrawLabel(page int, rec Record, cell layout.Cell) error
	FinishPage(page int, placed []string) error
}

// Page is a finalized page and the codes placed on it in placement order.
type Page struct {
	Number int
	Codes  []string
}

// Filler maps records onto the cells of a layout.
type Filler struct {
	Layout layout.Layout
	Order  layout.FillOrder

	// CodeLength rejects records whose code has a different length.
	// Zero accepts any length.
	CodeLength int

	// ShareRow pulls one record per row and draws it in every column.
	ShareRow bool
}

// NewFiller creates a filler with the preset's defaults.
func NewFiller(p layout.Preset) *Filler {
	return &Filler{
		Layout:     p.Layout,
		Order:      p.Order,
		CodeLength: p.CodeLength,
		ShareRow:   p.ShareRow,
	}
}

// PerPage returns how many records one page consumes.
func (f *Filler) PerPage() int {
	if f.ShareRow {
		return f.Layout.NumY
	}
	return f.Layout.Capacity()
}

// FillPage pulls up to one page of records from src and calls render for each
// non-empty record in placement order. It returns the codes placed.
//
// If the source ends early the page is left partly empty. Source errors and
// records of the wrong length are reported before render is called at all.
func (f *Filler) FillPage(src Source, render RenderFunc) ([]string, error) {
	if f.Layout.NumX < 1 || f.Layout.NumY < 1 {
		return nil, bcerrors.New(bcerrors.ErrCodeInvalidLayout, "layout %q has an empty grid", f.Layout.Name)
	}

	records, err := f.pull(src)
	if err != nil {
		return nil, err
	}

	cells := f.Layout.Cells(f.Order)
	placed := make([]string, 0, len(records))
	for i, rec := range records {
		if rec.Empty() {
			continue
		}
		if f.ShareRow {
			row := cells[i*f.Layout.NumX : (i+1)*f.Layout.NumX]
			for _, cell := range row {
				if err := render(rec, cell); err != nil {
					return placed, err
				}
			}
		} else if err := render(rec, cells[i]); err != nil {
			return placed, err
		}
		placed = append(placed, rec.Code)
	}
	return placed, nil
}

// pull reads and validates one page worth of records.
func (f *Filler) pull(src Source) ([]Record, error) {
	n := f.PerPage()
	records := make([]Record, 0, n)
	for len(records) < n {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !rec.Empty() && f.CodeLength > 0 && len(rec.Code) != f.CodeLength {
			return nil, bcerrors.New(bcerrors.ErrCodeLengthMismatch,
				"code %q in cell %d has length %d, want %d", rec.Code, len(records), len(rec.Code), f.CodeLength)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Paginate fills exactly totalPages pages from src, calling pr.FinishPage
// after each. totalPages must be within 1..MaxPages; this is checked before
// anything is drawn. On error the pages already finished are returned.
func (f *Filler) Paginate(totalPages int, src Source, pr PageRenderer) ([]Page, error) {
	if err := bcerrors.ValidateCount("page count", totalPages, 1, MaxPages); err != nil {
		return nil, err
	}

	pages := make([]Page, 0, totalPages)
	for n := 1; n <= totalPages; n++ {
		placed, err := f.FillPage(src, func(rec Record, cell layout.Cell) error {
			return pr.DrawLabel(n, rec, cell)
		})
		if err != nil {
			return pages, err
		}
		if err := pr.FinishPage(n, placed); err != nil {
			return pages, err
		}
		pages = append(pages, Page{Number: n, Codes: placed})
	}
	return pages, nil
}

// PagesFor returns how many pages hold n records, at least one.
func (f *Filler) PagesFor(n int) int {
	per := f.PerPage()
	if n <= 0 || per <= 0 {
		return 1
	}
	return (n + per - 1) / per
}

// FillPage fills one page of l in the given order.
func FillPage(l layout.Layout, order layout.FillOrder, src Source, render RenderFunc) ([]string, error) {
	f := &Filler{Layout: l, Order: order}
	return f.FillPage(src, render)
}

// Paginate fills totalPages pages of l in the given order.
func Paginate(l layout.Layout, order layout.FillOrder, totalPages int, src Source, pr PageRenderer) ([]Page, error) {
	f := &Filler{Layout: l, Order: order}
	return f.Paginate(totalPages, src, pr)
}

// ValidateCounts checks the page and file counts of a run.
func ValidateCounts(pages, files int) error {
	if err := bcerrors.ValidateCount("page count", pages, 1, MaxPages); err != nil {
		return err
	}
	return bcerrors.ValidateCount("file count", files, 1, MaxPages)
}
