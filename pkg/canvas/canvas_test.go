package canvas

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/fonts"
	"github.com/labmed/barcoder/pkg/symbol"
)

func sampleSymbol(t *testing.T) symbol.Matrix {
	t.Helper()
	m, err := symbol.Encode(symbol.KindCode128, "2ABCDEFGHJKD")
	require.NoError(t, err)
	return m
}

func drawSample(t *testing.T, c Canvas, pages int) [][]byte {
	t.Helper()
	m := sampleSymbol(t)
	for i := 0; i < pages; i++ {
		require.NoError(t, c.DrawSymbol(m, 20, 20, 126, 28.8))
		require.NoError(t, c.DrawText(83, 10, "2ABC-DEFG-HJKD", Font{Style: fonts.Regular, Size: 7, Anchor: AnchorMiddle}))
		require.NoError(t, c.DrawText(10, 60, "bold", Font{Style: fonts.Bold, Size: 9}))
		require.NoError(t, c.DrawText(200, 60, "italic", Font{Style: fonts.Italic, Size: 9, Anchor: AnchorEnd}))
		require.NoError(t, c.DrawLine(0, 50, 216, 50, 0.5))
		require.NoError(t, c.EndPage())
	}
	out, err := c.Finish()
	require.NoError(t, err)
	return out
}

func TestPDF(t *testing.T) {
	c, err := New(FormatPDF, 216, 144, WithTitle("test sheet"), WithAuthor("tester"))
	require.NoError(t, err)

	out := drawSample(t, c, 2)
	require.Len(t, out, 1)
	assert.True(t, bytes.HasPrefix(out[0], []byte("%PDF")))
}

func TestSVG(t *testing.T) {
	c, err := New(FormatSVG, 216, 144, WithTitle("test sheet"))
	require.NoError(t, err)

	out := drawSample(t, c, 2)
	require.Len(t, out, 2)
	m := sampleSymbol(t)
	for _, page := range out {
		doc := string(page)
		assert.Contains(t, doc, "<svg")
		assert.Contains(t, doc, `width="216pt"`)
		assert.Contains(t, doc, "2ABC-DEFG-HJKD")
		assert.Contains(t, doc, "text-anchor:middle")
		assert.Contains(t, doc, "font-weight:bold")
		// One rect per module run plus the page background.
		assert.Equal(t, len(m.Runs)+1, strings.Count(doc, "<rect"))
	}
}

func TestSVGFlipsY(t *testing.T) {
	c := NewSVG(100, 100)
	require.NoError(t, c.DrawLine(0, 0, 100, 0, 1))
	out, err := c.Finish()
	require.NoError(t, err)
	// y=0 in page coordinates is the bottom edge: 100pt * 100 units.
	assert.Contains(t, string(out[0]), `y1="10000"`)
}

func TestPNG(t *testing.T) {
	c, err := New(FormatPNG, 216, 144, WithDPI(144))
	require.NoError(t, err)

	out := drawSample(t, c, 3)
	require.Len(t, out, 3)
	for _, page := range out {
		cfg, err := png.DecodeConfig(bytes.NewReader(page))
		require.NoError(t, err)
		assert.Equal(t, 432, cfg.Width)
		assert.Equal(t, 288, cfg.Height)
	}
}

func TestBlankPageStillEmitted(t *testing.T) {
	c := NewSVG(100, 100)
	require.NoError(t, c.EndPage())
	require.NoError(t, c.EndPage())
	out, err := c.Finish()
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestNewInvalid(t *testing.T) {
	_, err := New("tiff", 100, 100)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = New(FormatPDF, 0, 100)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument))
}

func TestDrawEmptySymbol(t *testing.T) {
	c := NewSVG(100, 100)
	err := c.DrawSymbol(symbol.Matrix{}, 0, 0, 10, 10)
	assert.True(t, errors.Is(err, errors.ErrCodeRender))
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"pdf", "svg", "png", "PDF"} {
		assert.NoError(t, ValidateFormat(f), f)
	}
	assert.Error(t, ValidateFormat("json"))
	assert.True(t, MultiPage("pdf"))
	assert.False(t, MultiPage("svg"))
}

func TestParseAnchor(t *testing.T) {
	assert.Equal(t, AnchorMiddle, ParseAnchor("middle"))
	assert.Equal(t, AnchorEnd, ParseAnchor("end"))
	assert.Equal(t, AnchorStart, ParseAnchor(""))
}
