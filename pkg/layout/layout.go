// Package layout describes the physical geometry of label sheets.
//
// All measurements are PDF points (1/72 inch) with the origin at the
// bottom-left corner of the page. A [Layout] is an immutable value; the
// named layouts matching commercial label stock are registered as
// [Preset]s and looked up by name.
//
// Labels fill a page bottom row first. Within a row, columns are visited
// left to right ([Forward]) or right to left ([Reversed]).
package layout

import (
	"fmt"
	"strings"

	"github.com/labmed/barcoder/pkg/errors"
)

// Unit is a length expressed in points.
type Unit = float64

// Length units in points.
const (
	Pt Unit = 1
	In Unit = 72
	Mm Unit = 72 / 25.4
)

// US Letter, the page size of every built-in layout.
const (
	LetterWidth  = 8.5 * In
	LetterHeight = 11 * In
)

// Layout is the geometry of one kind of label sheet.
type Layout struct {
	Name         string
	PageWidth    float64
	PageHeight   float64
	LabelWidth   float64
	LabelHeight  float64
	NumX         int // columns
	NumY         int // rows
	MarginLeft   float64
	MarginBottom float64
	HSpace       float64 // gap between columns
	VSpace       float64 // gap between rows
}

// Capacity is the number of cells on one page.
func (l Layout) Capacity() int { return l.NumX * l.NumY }

// Validate checks that the grid is non-empty and fits on the page.
func (l Layout) Validate() error {
	if l.NumX < 1 || l.NumY < 1 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout %q has an empty grid (%dx%d)", l.Name, l.NumX, l.NumY)
	}
	if l.LabelWidth <= 0 || l.LabelHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "layout %q has non-positive label size", l.Name)
	}
	right := l.MarginLeft + float64(l.NumX)*l.LabelWidth + float64(l.NumX-1)*l.HSpace
	top := l.MarginBottom + float64(l.NumY)*l.LabelHeight + float64(l.NumY-1)*l.VSpace
	const slack = 0.01
	if right > l.PageWidth+slack || top > l.PageHeight+slack {
		return errors.New(errors.ErrCodeInvalidLayout, "layout %q overflows the page (%.1f x %.1f > %.1f x %.1f)",
			l.Name, right, top, l.PageWidth, l.PageHeight)
	}
	return nil
}

// String describes the layout for listings.
func (l Layout) String() string {
	return fmt.Sprintf("%s %dx%d %.3gx%.3gin", l.Name, l.NumX, l.NumY, l.LabelWidth/In, l.LabelHeight/In)
}

// CellPosition returns the bottom-left corner of the label in column col and
// row row, counting rows from the bottom of the page.
func CellPosition(l Layout, col, row int) (x, y float64) {
	x = l.MarginLeft + float64(col)*(l.LabelWidth+l.HSpace)
	y = l.MarginBottom + float64(row)*(l.LabelHeight+l.VSpace)
	return x, y
}

// FillOrder selects the column direction used when filling a row.
type FillOrder int

const (
	// Forward fills each row left to right.
	Forward FillOrder = iota
	// Reversed fills each row right to left.
	Reversed
)

// String returns the flag spelling of the order.
func (o FillOrder) String() string {
	if o == Reversed {
		return "reversed"
	}
	return "forward"
}

// ParseFillOrder parses "forward" or "reversed".
func ParseFillOrder(s string) (FillOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "":
		return Forward, nil
	case "reversed", "reverse":
		return Reversed, nil
	}
	return Forward, errors.New(errors.ErrCodeInvalidInput, "unknown fill order %q (want forward or reversed)", s)
}

// Cell is one label position on a page.
type Cell struct {
	Index  int // placement order on the page, starting at 0
	Column int
	Row    int // counted from the bottom
	X, Y   float64
}

// Cells lists every cell of the page in placement order: rows bottom to top,
// and within a row columns in the given order.
func (l Layout) Cells(order FillOrder) []Cell {
	cells := make([]Cell, 0, l.Capacity())
	for row := 0; row < l.NumY; row++ {
		for i := 0; i < l.NumX; i++ {
			col := i
			if order == Reversed {
				col = l.NumX - 1 - i
			}
			x, y := CellPosition(l, col, row)
			cells = append(cells, Cell{Index: len(cells), Column: col, Row: row, X: x, Y: y})
		}
	}
	return cells
}

// Line is a straight segment in page coordinates.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// GridLines returns cutting guides for the layout: a horizontal line across
// the page at the bottom and top edge of every row, and when vertical is set,
// a line down the page at the left and right edge of every column.
func GridLines(l Layout, vertical bool) []Line {
	var lines []Line
	for row := 0; row < l.NumY; row++ {
		_, y := CellPosition(l, 0, row)
		lines = append(lines,
			Line{0, y, l.PageWidth, y},
			Line{0, y + l.LabelHeight, l.PageWidth, y + l.LabelHeight})
	}
	if vertical {
		for col := 0; col < l.NumX; col++ {
			x, _ := CellPosition(l, col, 0)
			lines = append(lines,
				Line{x, 0, x, l.PageHeight},
				Line{x + l.LabelWidth, 0, x + l.LabelWidth, l.PageHeight})
		}
	}
	return lines
}
