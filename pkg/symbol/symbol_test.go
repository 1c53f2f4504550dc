package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmed/barcoder/pkg/errors"
)

func TestCode128Modules(t *testing.T) {
	bc, err := Code128("2ABCDEFGHJKD")
	require.NoError(t, err)

	m := Modules(bc)
	assert.Equal(t, 1, m.Rows)
	assert.Equal(t, bc.Bounds().Dx(), m.Cols)
	require.NotEmpty(t, m.Runs)

	// Code 128 starts with a two-module bar and ends with the stop pattern's
	// final two-module bar.
	assert.Equal(t, 0, m.Runs[0].X)
	assert.Equal(t, 2, m.Runs[0].Len)
	last := m.Runs[len(m.Runs)-1]
	assert.Equal(t, m.Cols, last.X+last.Len)

	for _, r := range m.Runs {
		assert.Equal(t, 0, r.Y)
		assert.Positive(t, r.Len)
	}
}

func TestQRModules(t *testing.T) {
	bc, err := QR("https://securelink.example.org?code=2ABCDEFGHJKLMNPD")
	require.NoError(t, err)

	m := Modules(bc)
	assert.Equal(t, m.Cols, m.Rows)
	assert.GreaterOrEqual(t, m.Rows, 21)

	// The top-left finder pattern starts with a run of seven dark modules.
	require.NotEmpty(t, m.Runs)
	assert.Equal(t, Run{X: 0, Y: 0, Len: 7}, m.Runs[0])
}

func TestEncode(t *testing.T) {
	m, err := Encode(KindCode128, ";ABCD")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Rows)

	_, err = Encode("ean13", "123")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))

	_, err = Encode(KindQR, "")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
}

func TestChunk(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"ABCDEFGHJKLMNPQR", 4, "ABCD-EFGH-JKLM-NPQR"},
		{"ABCDEF", 4, "ABCD-EF"},
		{"ABC", 4, "ABC"},
		{"", 4, ""},
		{"ABCDEF", 0, "ABCDEF"},
	}

	for _, tt := range tests {
		if got := Chunk(tt.text, tt.n, "-"); got != tt.want {
			t.Errorf("Chunk(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
		}
	}
}

func TestCode128Width(t *testing.T) {
	// 2 letters, 2 digits: (22 + 11 + 35) * 0.015in = 1.02in
	assert.InDelta(t, 1.02*72, Code128Width("AB12", DefaultMils), 1e-9)
	// Dashes are not encoded.
	assert.InDelta(t, Code128Width("AB12", DefaultMils), Code128Width("AB-12", DefaultMils), 1e-9)
}
