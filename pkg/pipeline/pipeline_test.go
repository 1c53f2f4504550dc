package pipeline

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/cache"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/sheet"
	"github.com/labmed/barcoder/pkg/storage"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }

func testRunner(t *testing.T) *Runner {
	t.Helper()
	r := NewRunner(nil, nil)
	r.Rand = rand.NewChaCha8([32]byte{1, 2, 3})
	return r
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Now: fixedNow}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, "threecol", opts.Layout)
	assert.Equal(t, 12, opts.Length)
	assert.Equal(t, 1, opts.Pages)
	assert.Equal(t, 1, opts.Files)
	assert.Equal(t, "pdf", opts.Format)
	assert.Equal(t, EngineNative, opts.Engine)
	assert.Equal(t, "forward", opts.Order)
	assert.Equal(t, DefaultURL, opts.URL)
	assert.Equal(t, "2024-03-05-143000", opts.Timestamp)
	assert.Equal(t, code.DefaultMaxRetries, opts.MaxRetries)
	require.NotNil(t, opts.NumericFirst)
	assert.True(t, *opts.NumericFirst)

	onecol := Options{Layout: "onecol", Now: fixedNow}
	require.NoError(t, onecol.ValidateAndSetDefaults())
	assert.Equal(t, "reversed", onecol.Order)
	assert.Equal(t, code.DefaultLength, onecol.Length)

	twocol := Options{Layout: "TwoCol", Now: fixedNow}
	require.NoError(t, twocol.ValidateAndSetDefaults())
	assert.Equal(t, "twocol", twocol.Layout)
	assert.Equal(t, 16, twocol.Length)
	assert.False(t, *twocol.NumericFirst)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"unknown layout", Options{Layout: "sixcol"}, errors.ErrCodeInvalidInput},
		{"too many pages", Options{Pages: 100}, errors.ErrCodeOutOfRange},
		{"negative pages", Options{Pages: -1}, errors.ErrCodeOutOfRange},
		{"too many files", Options{Files: 100}, errors.ErrCodeOutOfRange},
		{"fake code length", Options{FakeCode: "2ABCDEFGHJKD", Length: 10}, errors.ErrCodeLengthMismatch},
		{"fake code shorter than layout", Options{Layout: "pool", FakeCode: "2ABCE"}, errors.ErrCodeLengthMismatch},
		{"fake code longer than layout", Options{Layout: "twocol", FakeCode: "2ABCDEFGHJKD"}, errors.ErrCodeLengthMismatch},
		{"fake and exhaustive", Options{FakeCode: "2ABCDEFGHJKD", Exhaustive: true}, errors.ErrCodeInvalidInput},
		{"exhaustive too short", Options{Exhaustive: true, Length: 2}, errors.ErrCodeInvalidArgument},
		{"exhaustive bad lead", Options{Exhaustive: true, Lead: "I"}, errors.ErrCodeInvalidArgument},
		{"short code", Options{Length: 1}, errors.ErrCodeInvalidArgument},
		{"format", Options{Format: "tiff"}, errors.ErrCodeInvalidFormat},
		{"engine", Options{Engine: "cairo"}, errors.ErrCodeInvalidInput},
		{"order", Options{Order: "sideways"}, errors.ErrCodeInvalidInput},
		{"url", Options{URL: "ftp://example.org"}, errors.ErrCodeInvalidInput},
		{"template", Options{OutputTemplate: "../{layout}"}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.GetCode(err), err.Error())
		})
	}
}

func TestFakeCodeLength(t *testing.T) {
	pool := Options{Layout: "pool", FakeCode: "2ABCDEFGHJKD"}
	require.NoError(t, pool.ValidateAndSetDefaults())
	assert.Equal(t, 12, pool.Length)

	// onecol takes codes of any length.
	onecol := Options{Layout: "onecol", FakeCode: "2ABCE"}
	require.NoError(t, onecol.ValidateAndSetDefaults())
	assert.Equal(t, 5, onecol.Length)
}

func TestDefaultPagesForFiniteSources(t *testing.T) {
	records := make([]sheet.Record, 25)
	for i := range records {
		records[i] = sheet.Record{Code: "X"}
	}
	opts := Options{Layout: "onecol", Records: records}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, 3, opts.Pages)

	ex := Options{Layout: "pool", Exhaustive: true, Lead: "AB"}
	require.NoError(t, ex.ValidateAndSetDefaults())
	assert.Equal(t, 1, ex.Pages)
}

func TestOutputName(t *testing.T) {
	name := OutputName(DefaultOutputTemplate, NameVars{Layout: "pool", Timestamp: "2024-03-05-143000", FileNo: 2, NPages: 3})
	assert.Equal(t, "pool-labels-2024-03-05-143000-f02-n03", name)
	assert.Equal(t, "nobatch-2024-03-05", OutputName("{batch}-{date}", NameVars{Date: "2024-03-05"}))
	assert.Equal(t, "x-{other}", OutputName("x-{other}", NameVars{}))

	assert.Equal(t, []string{"a.pdf"}, ArtifactNames("a", "pdf", 1))
	assert.Equal(t, []string{"a.svg"}, ArtifactNames("a", "svg", 1))
	assert.Equal(t, []string{"a-p01.png", "a-p02.png"}, ArtifactNames("a", "png", 2))
}

func TestExecuteGeneratedCodes(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	r.Store = storage.New()
	var log bytes.Buffer
	r.Audit = audit.NewWriter(&log)

	res, err := r.Execute(ctx, Options{
		Layout:    "pool",
		Pages:     2,
		Files:     2,
		Format:    "svg",
		Grid:      true,
		VLines:    true,
		OutputDir: "mem://localhost/barcoder-pipeline",
		Now:       fixedNow,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Files, 2)
	assert.Equal(t, 2*2*80, res.Placed)

	issued := map[string]bool{}
	for _, f := range res.Files {
		require.Len(t, f.Artifacts, 2)
		require.Len(t, f.Paths, 2)
		assert.True(t, strings.HasSuffix(f.Paths[1], "-p02.svg"), f.Paths[1])
		for _, p := range f.Pages {
			for _, c := range p.Codes {
				assert.False(t, issued[c], "code %s issued twice", c)
				issued[c] = true
				assert.NoError(t, code.ValidateCode(c, 12))
				assert.Contains(t, "23456789", c[:1])
			}
		}
		data, err := r.Store.Read(ctx, f.Paths[0])
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
	assert.Equal(t, 320, r.Seen.Len())

	entries, err := audit.ReadLog(&log)
	require.NoError(t, err)
	require.Len(t, entries, 320)
	assert.Equal(t, res.Files[0].Name, entries[0].File)
	assert.Equal(t, 1, entries[0].Page)
	assert.Equal(t, res.Files[0].Pages[0].Codes[0], entries[0].Code)
	assert.Equal(t, 2, entries[319].Page)
}

func TestExecuteSharedRows(t *testing.T) {
	r := testRunner(t)
	res, err := r.Execute(context.Background(), Options{Layout: "twocol", Format: "pdf", Batch: "b12", Now: fixedNow})
	require.NoError(t, err)

	require.Len(t, res.Files, 1)
	f := res.Files[0]
	require.Len(t, f.Artifacts, 1)
	assert.True(t, bytes.HasPrefix(f.Artifacts[0], []byte("%PDF")))
	assert.Empty(t, f.Paths)
	assert.Equal(t, 7, f.Placed())
	for _, c := range f.Pages[0].Codes {
		assert.Len(t, c, 16)
	}
}

func TestExecuteRecords(t *testing.T) {
	r := testRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Layout: "onecol",
		Format: "png",
		DPI:    36,
		Records: []sheet.Record{
			{Code: "2ABCDEFGHJKD", Fields: map[string]string{"label1": "plate 1"}},
			{},
			{Code: "3BCDEFGHJKLM"},
		},
		Now: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Placed)
	assert.Equal(t, []string{"2ABCDEFGHJKD", "3BCDEFGHJKLM"}, res.Files[0].Pages[0].Codes)
	assert.True(t, bytes.HasPrefix(res.Files[0].Artifacts[0], []byte("\x89PNG")))
	assert.Equal(t, 0, r.Seen.Len(), "records are not registered as issued")
}

func TestExecuteProofSheetCached(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	r.Cache = cache.NewMemoryCache(0)
	opts := Options{Layout: "pool", FakeCode: "2ABCDEFGHJKD", Format: "svg", Files: 2, Now: fixedNow}

	first, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	second, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	for i := range first.Files {
		assert.False(t, first.Files[i].Cached)
		assert.True(t, second.Files[i].Cached)
		assert.Equal(t, first.Files[i].Artifacts, second.Files[i].Artifacts)
		assert.Equal(t, first.Files[i].Pages, second.Files[i].Pages)
	}
	assert.Equal(t, 160, second.Placed)
}

func TestExecuteProofSheetCacheKeyedByName(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	r.Cache = cache.NewMemoryCache(0)
	opts := Options{Layout: "pool", FakeCode: "2ABCDEFGHJKD", Format: "svg", Timestamp: "T1", Now: fixedNow}

	_, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	opts.Timestamp = "T2"
	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Cached, "a new file name must not reuse a cached document")
	assert.Contains(t, string(res.Files[0].Artifacts[0]), "pool-labels-T2-f01-n01")
}

func TestProofSheetCreatedOnDay(t *testing.T) {
	proof := Options{FakeCode: "2ABCDEFGHJKD", Now: fixedNow}
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), proof.created())

	fresh := Options{Now: fixedNow}
	assert.Equal(t, fixedNow(), fresh.created())
}

func TestExecuteLeavesRunnerUnchanged(t *testing.T) {
	r := &Runner{Logger: testRunner(t).Logger}
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Execute(context.Background(), Options{FakeCode: "2ABCDEFGHJKD", Format: "svg", Now: fixedNow})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, r.CacheTTL)
	assert.Nil(t, r.Cache)
	assert.Nil(t, r.Seen)
	assert.Nil(t, r.Hooks)
}

func TestExecuteExhaustiveContinuesAcrossFiles(t *testing.T) {
	r := testRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Layout:     "threecol",
		Exhaustive: true,
		Lead:       "AB",
		Files:      3,
		Pages:      1,
		Format:     "svg",
		Now:        fixedNow,
	})
	require.NoError(t, err)

	// 64 codes over 30-cell pages: 30, 30, 4.
	require.Len(t, res.Files, 3)
	assert.Equal(t, 30, res.Files[0].Placed())
	assert.Equal(t, 30, res.Files[1].Placed())
	assert.Equal(t, 4, res.Files[2].Placed())
	assert.Equal(t, "AAAAAAAAAAA", res.Files[0].Pages[0].Codes[0][:11])
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testRunner(t).Execute(ctx, Options{Format: "svg"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteInvalidOptions(t *testing.T) {
	var log bytes.Buffer
	r := testRunner(t)
	r.Audit = audit.NewWriter(&log)
	_, err := r.Execute(context.Background(), Options{Pages: 0, Files: 120})
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfRange))
	assert.Zero(t, log.Len())
	assert.Zero(t, r.Seen.Len())
}
