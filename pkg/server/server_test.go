package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/cache"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *pipeline.Runner, *bytes.Buffer) {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, logger)
	runner.Cache = cache.NewMemoryCache(8)
	var auditLog bytes.Buffer
	runner.Audit = audit.NewWriter(&auditLog)
	return New(Config{MaxCodes: 500}, runner, logger), runner, &auditLog
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Processing-Time-Micros"))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
}

func TestLayouts(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/layouts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	names := map[string]layoutResponse{}
	for _, l := range body {
		names[l.Name] = l
	}
	assert.Equal(t, 80, names["pool"].PerPage)
	assert.Equal(t, 7, names["twocol"].PerPage)
	assert.True(t, names["twocol"].ShareRow)
}

func TestCodes(t *testing.T) {
	s, runner, auditLog := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/codes?n=50&length=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var first codesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	require.Len(t, first.Codes, 50)

	rec = do(t, s, http.MethodGet, "/codes?n=50&length=10&numeric_first=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second codesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	all := append(first.Codes, second.Codes...)
	distinct := map[string]bool{}
	for _, c := range all {
		assert.NoError(t, code.ValidateCode(c, 10))
		distinct[c] = true
	}
	assert.Len(t, distinct, 100)
	assert.Equal(t, 100, runner.Seen.Len())
	assert.Equal(t, 100, strings.Count(auditLog.String(), "\n"))
}

func TestCodesBadRequests(t *testing.T) {
	s, _, _ := newTestServer(t)
	for _, target := range []string{
		"/codes?n=0",
		"/codes?n=501",
		"/codes?n=abc",
		"/codes?length=1",
		"/codes?numeric_first=maybe",
	} {
		rec := do(t, s, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.NotEmpty(t, body.Error, target)
	}
}

func TestSheetsPDF(t *testing.T) {
	s, runner, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/sheets", `{"layout":"pool","pages":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
	assert.Equal(t, "80", rec.Header().Get("X-Codes-Placed"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, 80, runner.Seen.Len())
}

func TestSheetsFormatCaseInsensitive(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/sheets", `{"layout":"pool","format":"PDF","fake_code":"2ABCDEFGHJKD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasSuffix(rec.Header().Get("Content-Disposition"), `.pdf"`),
		rec.Header().Get("Content-Disposition"))
}

func TestSheetsMultiPageSVG(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/sheets", `{"layout":"threecol","pages":2,"format":"svg","fake_code":"2ABCDEFGHJKD"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body sheetsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Artifacts, 2)
	assert.Contains(t, string(body.Artifacts[0]), "<svg")
	assert.Len(t, body.Codes, 60)
}

func TestSheetsErrors(t *testing.T) {
	s, _, _ := newTestServer(t)
	tests := []struct {
		body string
		want int
	}{
		{`{"layout":`, http.StatusBadRequest},
		{`{"bogus":1}`, http.StatusBadRequest},
		{`{"layout":"sixcol"}`, http.StatusBadRequest},
		{`{"pages":100}`, http.StatusBadRequest},
		{`{"files":2}`, http.StatusBadRequest},
		{`{"format":"tiff"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodPost, "/sheets", tt.body)
		assert.Equal(t, tt.want, rec.Code, tt.body)
	}
}
