package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/labmed/barcoder/pkg/errors"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCellPosition(t *testing.T) {
	pool, err := Lookup("pool")
	if err != nil {
		t.Fatal(err)
	}
	l := pool.Layout

	tests := []struct {
		col, row int
		x, y     float64
	}{
		{0, 0, 18, 38.25},
		{1, 0, 18 + 126 + 20.25, 38.25},
		{3, 19, 18 + 3*(126+20.25), 38.25 + 19*36},
	}

	for _, tt := range tests {
		x, y := CellPosition(l, tt.col, tt.row)
		if !approx(x, tt.x) || !approx(y, tt.y) {
			t.Errorf("CellPosition(%d, %d) = (%v, %v), want (%v, %v)", tt.col, tt.row, x, y, tt.x, tt.y)
		}
	}
}

func TestCellsForward(t *testing.T) {
	l := Layout{Name: "t", NumX: 3, NumY: 2, LabelWidth: 10, LabelHeight: 5, HSpace: 1, VSpace: 2}
	cells := l.Cells(Forward)

	if len(cells) != 6 {
		t.Fatalf("len(cells) = %d, want 6", len(cells))
	}
	want := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i, c := range cells {
		if c.Index != i {
			t.Errorf("cells[%d].Index = %d", i, c.Index)
		}
		if c.Column != want[i][0] || c.Row != want[i][1] {
			t.Errorf("cells[%d] = (%d, %d), want %v", i, c.Column, c.Row, want[i])
		}
	}
	if !approx(cells[4].X, 11) || !approx(cells[4].Y, 7) {
		t.Errorf("cells[4] at (%v, %v), want (11, 7)", cells[4].X, cells[4].Y)
	}
}

func TestCellsReversed(t *testing.T) {
	l := Layout{Name: "t", NumX: 3, NumY: 2, LabelWidth: 10, LabelHeight: 5}
	cells := l.Cells(Reversed)

	cols := make([]int, len(cells))
	for i, c := range cells {
		cols[i] = c.Column
	}
	want := []int{2, 1, 0, 2, 1, 0}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("columns = %v, want %v", cols, want)
		}
	}
	if cells[0].Row != 0 || cells[3].Row != 1 {
		t.Error("rows must fill bottom to top")
	}
}

func TestGridLines(t *testing.T) {
	l := Layout{Name: "t", PageWidth: 100, PageHeight: 200, NumX: 2, NumY: 3, LabelWidth: 40, LabelHeight: 50, MarginLeft: 5, MarginBottom: 10}

	h := GridLines(l, false)
	if len(h) != 6 {
		t.Fatalf("horizontal lines = %d, want 6", len(h))
	}
	for _, ln := range h {
		if ln.Y1 != ln.Y2 || ln.X1 != 0 || ln.X2 != 100 {
			t.Errorf("line %+v is not a full-width horizontal", ln)
		}
	}
	if h[0].Y1 != 10 || h[1].Y1 != 60 {
		t.Errorf("first row edges = %v, %v, want 10, 60", h[0].Y1, h[1].Y1)
	}

	all := GridLines(l, true)
	if len(all) != 10 {
		t.Fatalf("lines with vertical = %d, want 10", len(all))
	}
	v := all[6]
	if v.X1 != 5 || v.X2 != 5 || v.Y1 != 0 || v.Y2 != 200 {
		t.Errorf("first vertical line = %+v", v)
	}
}

func TestPresetsFitOnPage(t *testing.T) {
	for _, p := range Presets() {
		t.Run(p.Name(), func(t *testing.T) {
			if err := p.Layout.Validate(); err != nil {
				t.Error(err)
			}
			if len(p.Templates) == 0 {
				t.Error("preset has no label template")
			}
		})
	}
}

func TestPresetCapacities(t *testing.T) {
	tests := []struct {
		name    string
		perPage int
	}{
		{"pool", 80},
		{"threecol", 30},
		{"onecol", 12},
		{"twocol", 7},
	}

	for _, tt := range tests {
		p, err := Lookup(tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.PerPage(); got != tt.perPage {
			t.Errorf("%s PerPage() = %d, want %d", tt.name, got, tt.perPage)
		}
	}
}

func TestPresetTemplate(t *testing.T) {
	p, _ := Lookup("twocol")
	if p.Template(0) != "lab" || p.Template(1) != "qr" {
		t.Errorf("twocol templates = %q, %q", p.Template(0), p.Template(1))
	}
	pool, _ := Lookup("pool")
	if pool.Template(3) != "pool" {
		t.Errorf("pool column 3 template = %q", pool.Template(3))
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("hexcol")
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Lookup(unknown) error = %v, want INVALID_LAYOUT", err)
	}
	if _, err := Lookup(" POOL "); err != nil {
		t.Errorf("Lookup should ignore case and spaces: %v", err)
	}
}

func TestValidateOverflow(t *testing.T) {
	l := Layout{Name: "big", PageWidth: 100, PageHeight: 100, NumX: 2, NumY: 1, LabelWidth: 60, LabelHeight: 10}
	if err := l.Validate(); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Validate() = %v, want INVALID_LAYOUT", err)
	}
	l.NumX = 0
	if err := l.Validate(); err == nil {
		t.Error("empty grid should fail")
	}
}

func TestParseFillOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    FillOrder
		wantErr bool
	}{
		{"forward", Forward, false},
		{"", Forward, false},
		{"Reversed", Reversed, false},
		{"reverse", Reversed, false},
		{"sideways", Forward, true},
	}

	for _, tt := range tests {
		got, err := ParseFillOrder(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFillOrder(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func ExampleCellPosition() {
	p, _ := Lookup("threecol")
	x, y := CellPosition(p.Layout, 1, 2)
	fmt.Printf("%.1f %.1f\n", x, y)
	// Output: 211.5 180.0
}
