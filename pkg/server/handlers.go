package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/labmed/barcoder/pkg/buildinfo"
	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/layout"
	"github.com/labmed/barcoder/pkg/pipeline"
)

const maxBodyBytes = 1 << 20

var contentTypes = map[string]string{
	canvas.FormatPDF: "application/pdf",
	canvas.FormatSVG: "image/svg+xml",
	canvas.FormatPNG: "image/png",
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Issued    int    `json:"issued"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Version:   buildinfo.Version,
		Issued:    s.runner.Seen.Len(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type layoutResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Columns     int      `json:"columns"`
	Rows        int      `json:"rows"`
	LabelWidth  float64  `json:"label_width"`
	LabelHeight float64  `json:"label_height"`
	PerPage     int      `json:"per_page"`
	Templates   []string `json:"templates"`
	CodeLength  int      `json:"code_length,omitempty"`
	ShareRow    bool     `json:"share_row,omitempty"`
}

func (s *Server) handleLayouts(w http.ResponseWriter, _ *http.Request) {
	presets := layout.Presets()
	out := make([]layoutResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, layoutResponse{
			Name:        p.Name(),
			Description: p.Description,
			Columns:     p.Layout.NumX,
			Rows:        p.Layout.NumY,
			LabelWidth:  p.Layout.LabelWidth,
			LabelHeight: p.Layout.LabelHeight,
			PerPage:     p.PerPage(),
			Templates:   p.Templates,
			CodeLength:  p.CodeLength,
			ShareRow:    p.ShareRow,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type codesResponse struct {
	Codes  []string `json:"codes"`
	Length int      `json:"length"`
}

func (s *Server) handleCodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := intParam(q.Get("n"), 1)
	if err != nil {
		writeError(w, err)
		return
	}
	length, err := intParam(q.Get("length"), code.DefaultLength)
	if err != nil {
		writeError(w, err)
		return
	}
	numericFirst := true
	if v := q.Get("numeric_first"); v != "" {
		if numericFirst, err = strconv.ParseBool(v); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidArgument, "numeric_first must be a boolean"))
			return
		}
	}
	if err := errors.ValidateCount("n", n, 1, s.cfg.MaxCodes); err != nil {
		writeError(w, err)
		return
	}

	gen, err := code.NewGenerator(length,
		code.WithSeen(s.runner.Seen),
		code.WithRand(s.runner.Rand),
		code.WithLogger(s.logger),
		code.WithNumericFirst(numericFirst),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	codes, err := gen.Take(n)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.runner.Audit != nil {
		if err := s.runner.Audit.Record("codes:"+middleware.GetReqID(r.Context()), 0, codes); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, codesResponse{Codes: codes, Length: length})
}

type sheetsResponse struct {
	RunID     string   `json:"run_id"`
	Name      string   `json:"name"`
	Codes     []string `json:"codes"`
	Artifacts [][]byte `json:"artifacts"`
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	if opts.Files > 1 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "one file per request"))
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	f := res.Files[0]
	var placed []string
	for _, p := range f.Pages {
		placed = append(placed, p.Codes...)
	}

	w.Header().Set("X-Run-ID", res.RunID)
	w.Header().Set("X-Codes-Placed", strconv.Itoa(len(placed)))
	if len(f.Artifacts) > 1 {
		writeJSON(w, http.StatusOK, sheetsResponse{RunID: res.RunID, Name: f.Name, Codes: placed, Artifacts: f.Artifacts})
		return
	}

	format := res.Format
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+"."+format+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Artifacts[0])
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "%q is not an integer", s)
	}
	return n, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeDuplicateCode), errors.Is(err, errors.ErrCodeExhaustedKeyspace):
		return http.StatusConflict
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, statusFor(err), errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
