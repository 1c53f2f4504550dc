package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/symbol"
)

type recorder struct {
	symbols [][4]float64
	texts   []string
	textAt  [][2]float64
}

func (r *recorder) Size() (float64, float64) { return 612, 792 }

func (r *recorder) DrawSymbol(_ symbol.Matrix, x, y, w, h float64) error {
	r.symbols = append(r.symbols, [4]float64{x, y, w, h})
	return nil
}

func (r *recorder) DrawText(x, y float64, text string, _ canvas.Font) error {
	if text != "" {
		r.texts = append(r.texts, text)
		r.textAt = append(r.textAt, [2]float64{x, y})
	}
	return nil
}

func (r *recorder) DrawLine(_, _, _, _, _ float64) error { return nil }
func (r *recorder) EndPage() error                       { return nil }
func (r *recorder) Finish() ([][]byte, error)            { return nil, nil }

func TestExpand(t *testing.T) {
	vars := Vars{"code": "2ABCDEFGHJKD", "url": "https://example.org"}
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"{code}", "2ABCDEFGHJKD"},
		{"{url}?code={code}", "https://example.org?code=2ABCDEFGHJKD"},
		{"{missing}x", "x"},
		{"open {brace", "open {brace"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Expand(tt.in, vars), tt.in)
	}
}

func TestNewVars(t *testing.T) {
	v := NewVars("ABCDEFGH", map[string]string{"label1": "Plate 1", "code": "ignored"})
	assert.Equal(t, "ABCDEFGH", v["code"])
	assert.Equal(t, "ABCD-EFGH", v["chunked"])
	assert.Equal(t, "Plate 1", v["label1"])

	w := v.With("batch", "b7")
	assert.Equal(t, "b7", w["batch"])
	_, ok := v["batch"]
	assert.False(t, ok, "With must not modify the receiver")
}

func TestDrawOffsetsByOrigin(t *testing.T) {
	tmpl, err := Lookup("pool")
	require.NoError(t, err)

	var r recorder
	require.NoError(t, tmpl.Draw(&r, 100, 200, NewVars("2ABCDEFGHJKD", nil)))
	require.Len(t, r.symbols, 1)
	assert.Equal(t, [4]float64{109, 210, 108, 24}, r.symbols[0])
	assert.Equal(t, []string{"2ABCDEFGHJKD"}, r.texts)
	assert.Equal(t, [2]float64{163, 202.5}, r.textAt[0])
}

func TestDrawSkipsEmptyFields(t *testing.T) {
	tmpl, err := Lookup("specimen")
	require.NoError(t, err)

	var r recorder
	require.NoError(t, tmpl.Draw(&r, 0, 0, NewVars("2ABCDEFGHJKD", map[string]string{"label2": "row B"})))
	assert.Equal(t, []string{"2ABCDEFGHJKD", "row B"}, r.texts)
	require.Len(t, r.symbols, 1)
	assert.InDelta(t, symbol.Code128Width("2ABCDEFGHJKD", symbol.DefaultMils), r.symbols[0][2], 1e-9)
}

func TestDrawSkipsEmptyCode(t *testing.T) {
	tmpl, err := Lookup("lab")
	require.NoError(t, err)

	var r recorder
	require.NoError(t, tmpl.Draw(&r, 0, 0, NewVars("", nil)))
	assert.Empty(t, r.symbols)
}

func TestQRTemplate(t *testing.T) {
	tmpl, err := Lookup("qr")
	require.NoError(t, err)

	var r recorder
	vars := NewVars("ABCDEFGHJKLMNPQR", nil).With("url", "https://example.org", "counter", "3")
	require.NoError(t, tmpl.Draw(&r, 0, 0, vars))
	require.Len(t, r.symbols, 1)
	assert.Contains(t, r.texts, "ABCD-EFGH-JKLM-NPQR")
	assert.Contains(t, r.texts, "(3)")
	assert.Contains(t, r.texts, "https://example.org")
}

func TestTemplatesFitTheirLabels(t *testing.T) {
	for _, name := range Names() {
		tmpl, _ := Lookup(name)
		for _, s := range tmpl.Symbols {
			assert.LessOrEqual(t, s.X+s.W, tmpl.Width, name)
			assert.LessOrEqual(t, s.Y+s.H, tmpl.Height, name)
		}
		for _, tx := range tmpl.Texts {
			assert.Less(t, tx.Y, tmpl.Height, name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLayout))
	assert.Equal(t, []string{"lab", "pool", "qr", "specimen"}, Names())
}
