// Package label defines the printed content of a single label.
//
// A [Template] is a list of symbols and text lines positioned in points from
// the bottom-left corner of the label. Contents are templates themselves:
// "{code}" and friends are replaced from [Vars] when the label is drawn, so
// every label variant is data rather than code.
package label

import (
	"maps"
	"slices"
	"strings"

	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

// Symbol is a barcode placed on the label.
type Symbol struct {
	Kind    symbol.Kind
	Content string
	X, Y    float64
	W, H    float64

	// Mils, when set, sizes a Code 128 symbol from its content at this
	// narrow bar width instead of using W. The width never exceeds the
	// label.
	Mils float64
}

// Text is a line of text placed on the label. Lines that expand to the
// empty string are skipped.
type Text struct {
	Content string
	X, Y    float64 // baseline
	Font    canvas.Font
}

// Template is the layout of one kind of label.
type Template struct {
	Name        string
	Description string
	Width       float64
	Height      float64
	Symbols     []Symbol
	Texts       []Text
}

// Vars holds the values substituted into template contents.
type Vars map[string]string

// NewVars creates the variables every label has: the code itself, its
// chunked display form, and any record fields.
func NewVars(code string, fields map[string]string) Vars {
	v := Vars{
		"code":    code,
		"chunked": symbol.Chunk(code, 4, "-"),
	}
	for k, val := range fields {
		if _, reserved := v[k]; !reserved {
			v[k] = val
		}
	}
	return v
}

// With returns a copy of v with extra values set.
func (v Vars) With(kv ...string) Vars {
	out := maps.Clone(v)
	if out == nil {
		out = Vars{}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

// Expand replaces every {name} in s. Unknown names expand to "".
func Expand(s string, vars Vars) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(s[:open])
		b.WriteString(vars[s[open+1:open+end]])
		s = s[open+end+1:]
	}
	b.WriteString(s)
	return b.String()
}

// Draw renders the template with its bottom-left corner at (x, y).
func (t Template) Draw(c canvas.Canvas, x, y float64, vars Vars) error {
	for _, s := range t.Symbols {
		content := Expand(s.Content, vars)
		if content == "" || strings.TrimLeft(content, ";") == "" {
			continue
		}
		m, err := symbol.Encode(s.Kind, content)
		if err != nil {
			return err
		}
		w := s.W
		if s.Mils > 0 {
			w = min(symbol.Code128Width(content, s.Mils), t.Width-s.X)
		}
		if err := c.DrawSymbol(m, x+s.X, y+s.Y, w, s.H); err != nil {
			return err
		}
	}
	for _, tx := range t.Texts {
		if err := c.DrawText(x+tx.X, y+tx.Y, Expand(tx.Content, vars), tx.Font); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the built-in template with the given name.
func Lookup(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeInvalidLayout,
			"unknown label template %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names returns the built-in template names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(templates))
}

func font(style fonts.Style, size float64, anchor canvas.Anchor) canvas.Font {
	return canvas.Font{Style: style, Size: size, Anchor: anchor}
}
