package layout

import (
	"slices"
	"strings"

	"github.com/labmed/barcoder/pkg/errors"
)

// Preset is a named layout together with the rendering defaults that go
// with its label stock.
type Preset struct {
	Layout      Layout
	Description string

	// Templates names the label template drawn in each column. A single
	// entry applies to every column.
	Templates []string

	Order FillOrder

	// CodeLength is the default code length; zero accepts any length.
	CodeLength int

	// ShareRow places one code per row, drawn in every column.
	ShareRow bool

	NumericFirst bool
}

// Name returns the layout name.
func (p Preset) Name() string { return p.Layout.Name }

// Template returns the label template for column col.
func (p Preset) Template(col int) string {
	if len(p.Templates) == 0 {
		return ""
	}
	if col < len(p.Templates) {
		return p.Templates[col]
	}
	return p.Templates[len(p.Templates)-1]
}

// PerPage is the number of codes one page consumes.
func (p Preset) PerPage() int {
	if p.ShareRow {
		return p.Layout.NumY
	}
	return p.Layout.Capacity()
}

var presets = map[string]Preset{
	// Avery 94203, 4 x 20 pool labels.
	"pool": {
		Layout: Layout{
			Name:         "pool",
			PageWidth:    LetterWidth,
			PageHeight:   LetterHeight,
			LabelWidth:   1.75 * In,
			LabelHeight:  0.5 * In,
			NumX:         4,
			NumY:         20,
			MarginLeft:   In / 4,
			MarginBottom: 17 * In / 32,
			HSpace:       9 * In / 32,
		},
		Description:  "Avery 94203 pooled specimen labels",
		Templates:    []string{"pool"},
		CodeLength:   12,
		NumericFirst: true,
	},
	// Avery 94221, 3 x 10.
	"threecol": {
		Layout: Layout{
			Name:         "threecol",
			PageWidth:    LetterWidth,
			PageHeight:   LetterHeight,
			LabelWidth:   (2 + 5.0/8) * In,
			LabelHeight:  1 * In,
			NumX:         3,
			NumY:         10,
			MarginLeft:   3 * In / 16,
			MarginBottom: 0.5 * In,
			HSpace:       In / 8,
		},
		Description:  "Avery 94221 three column specimen labels",
		Templates:    []string{"specimen"},
		CodeLength:   12,
		NumericFirst: true,
	},
	// Plain paper, one column, filled from the bottom right.
	"onecol": {
		Layout: Layout{
			Name:         "onecol",
			PageWidth:    LetterWidth,
			PageHeight:   LetterHeight,
			LabelWidth:   (2 + 5.0/8) * In,
			LabelHeight:  0.8 * In,
			NumX:         1,
			NumY:         12,
			MarginLeft:   1 * In,
			MarginBottom: 1 * In,
		},
		Description:  "Plain paper plate labels with text fields",
		Templates:    []string{"specimen"},
		Order:        Reversed,
		NumericFirst: true,
	},
	// Avery 5162, lab label and QR label side by side for the same code.
	"twocol": {
		Layout: Layout{
			Name:         "twocol",
			PageWidth:    LetterWidth,
			PageHeight:   LetterHeight,
			LabelWidth:   LetterWidth / 2,
			LabelHeight:  (1 + 5.0/16) * In,
			NumX:         2,
			NumY:         7,
			MarginBottom: 1 * In,
		},
		Description: "Avery 5162 lab requisition and QR retrieval labels",
		Templates:   []string{"lab", "qr"},
		CodeLength:  16,
		ShareRow:    true,
	},
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Preset, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodeInvalidLayout,
			"unknown layout %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Presets returns every preset sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, name := range Names() {
		out = append(out, presets[name])
	}
	return out
}
