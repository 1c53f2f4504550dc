// Package pipeline runs a complete label sheet job.
//
// A job renders Files output files of Pages pages each. All files draw from
// one code source, so no code repeats anywhere in a run. The pipeline is
// shared by the CLI and the HTTP server.
//
// # Usage
//
//	runner := pipeline.NewRunner(storage.New(), logger)
//	runner.Audit = audit.NewWriter(auditFile)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Layout: "pool",
//	    Pages:  3,
//	    Files:  2,
//	})
//
// # Code sources
//
// Exactly one of these feeds a run, checked in this order:
//
//  1. Records: codes and text fields read from CSV
//  2. FakeCode: the same code in every cell, for printer proofs
//  3. Exhaustive: the deterministic test sequence
//  4. otherwise freshly generated codes, registered in the runner's seen set
//
// Proof sheets (2 and 3) render identically every time and are served from
// the runner's cache when one is configured.
package pipeline

import (
	"strings"
	"time"

	"github.com/labmed/barcoder/pkg/canvas"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/label"
	"github.com/labmed/barcoder/pkg/layout"
	"github.com/labmed/barcoder/pkg/sheet"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultLayout is the preset used when none is named.
	DefaultLayout = "threecol"

	// DefaultOutputTemplate names output files.
	DefaultOutputTemplate = "{layout}-labels-{timestamp}-f{fileno}-n{npages}"

	// DefaultURL is the results site encoded in QR labels.
	DefaultURL = "https://securelink.labmed.uw.edu"

	// TimestampFormat formats the {timestamp} placeholder.
	TimestampFormat = "2006-01-02-150405"

	// DateFormat formats the {date} placeholder and label dates.
	DateFormat = "2006-01-02"
)

// Rendering engines.
const (
	// EngineNative draws every format with its own canvas backend.
	EngineNative = "native"

	// EngineRSVG draws SVG pages and converts them with rsvg-convert.
	EngineRSVG = "rsvg"
)

// Engines lists the supported engines.
var Engines = []string{EngineNative, EngineRSVG}

// =============================================================================
// Options
// =============================================================================

// Options configures one run. Zero values take the preset's defaults.
type Options struct {
	Layout string `json:"layout"`
	Length int    `json:"length,omitempty"`
	Pages  int    `json:"pages,omitempty"`
	Files  int    `json:"files,omitempty"`

	// Code sources
	FakeCode     string         `json:"fake_code,omitempty"`
	Exhaustive   bool           `json:"exhaustive,omitempty"`
	Lead         string         `json:"lead,omitempty"` // exhaustive lead characters
	Records      []sheet.Record `json:"-"`
	NumericFirst *bool          `json:"numeric_first,omitempty"`
	StopIfSeen   bool           `json:"stop_if_seen,omitempty"`
	MaxRetries   int            `json:"max_retries,omitempty"` // negative removes the cap

	// Rendering
	Order    string  `json:"order,omitempty"`
	Format   string  `json:"format,omitempty"`
	Engine   string  `json:"engine,omitempty"`
	DPI      float64 `json:"dpi,omitempty"`
	Grid     bool    `json:"grid,omitempty"`
	VLines   bool    `json:"vlines,omitempty"`
	NoFooter bool    `json:"no_footer,omitempty"`

	// Label text
	Batch string `json:"batch,omitempty"`
	URL   string `json:"url,omitempty"`
	Note  string `json:"note,omitempty"`

	// Output naming
	OutputDir      string `json:"-"`
	OutputTemplate string `json:"-"`
	Timestamp      string `json:"-"`

	// Now stamps the run; defaults to time.Now.
	Now func() time.Time `json:"-"`

	preset    layout.Preset
	order     layout.FillOrder
	templates []label.Template
	date      string
	validated bool
}

// ValidateAndSetDefaults checks opts and fills in every default. It is
// idempotent and is called by [Runner.Execute].
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	p, err := layout.Lookup(o.Layout)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout")
	}
	o.preset = p
	o.Layout = p.Name()

	o.templates = o.templates[:0]
	for col := 0; col < p.Layout.NumX; col++ {
		t, err := label.Lookup(p.Template(col))
		if err != nil {
			return err
		}
		o.templates = append(o.templates, t)
	}

	if err := o.validateSource(); err != nil {
		return err
	}
	if err := o.validateRendering(); err != nil {
		return err
	}

	if o.Files == 0 {
		o.Files = 1
	}
	if o.Pages == 0 {
		o.Pages = o.defaultPages()
	}
	if err := sheet.ValidateCounts(o.Pages, o.Files); err != nil {
		return err
	}

	if o.URL == "" {
		o.URL = DefaultURL
	} else if err := errors.ValidateURL(o.URL); err != nil {
		return err
	}
	if o.OutputTemplate == "" {
		o.OutputTemplate = DefaultOutputTemplate
	}
	if err := errors.ValidateOutputTemplate(o.OutputTemplate); err != nil {
		return err
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	now := o.Now()
	if o.Timestamp == "" {
		o.Timestamp = now.Format(TimestampFormat)
	}
	o.date = now.Format(DateFormat)

	o.validated = true
	return nil
}

func (o *Options) validateSource() error {
	sources := 0
	for _, set := range []bool{o.Records != nil, o.FakeCode != "", o.Exhaustive} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "records, fake code and exhaustive are mutually exclusive")
	}
	if o.Length < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "code length %d is negative", o.Length)
	}

	switch {
	case o.Records != nil:
		// Records are checked against Length only when one was asked for.
	case o.FakeCode != "":
		if o.Length == 0 {
			o.Length = o.preset.CodeLength
		}
		// Layouts that take any length size to the fake code itself.
		if o.Length == 0 {
			o.Length = len(o.FakeCode)
		}
		if len(o.FakeCode) != o.Length {
			return errors.New(errors.ErrCodeLengthMismatch,
				"fake code %q has length %d, want %d", o.FakeCode, len(o.FakeCode), o.Length)
		}
	default:
		if o.Length == 0 {
			o.Length = o.preset.CodeLength
		}
		if o.Length == 0 {
			o.Length = code.DefaultLength
		}
		if o.Exhaustive {
			if _, err := code.Exhaustive(o.Length, o.Lead); err != nil {
				return err
			}
		} else if o.Length < code.MinLength {
			return errors.New(errors.ErrCodeInvalidArgument,
				"code length must be >= %d, got %d", code.MinLength, o.Length)
		}
	}
	if o.NumericFirst == nil {
		nf := o.preset.NumericFirst
		o.NumericFirst = &nf
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = code.DefaultMaxRetries
	}
	return nil
}

func (o *Options) validateRendering() error {
	if o.Format == "" {
		o.Format = canvas.FormatPDF
	}
	o.Format = strings.ToLower(o.Format)
	if err := canvas.ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Engine == "" {
		o.Engine = EngineNative
	}
	switch o.Engine {
	case EngineNative, EngineRSVG:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown engine %q (want %s)", o.Engine, strings.Join(Engines, ", "))
	}

	if o.Order == "" {
		o.order = o.preset.Order
		o.Order = o.order.String()
	} else {
		order, err := layout.ParseFillOrder(o.Order)
		if err != nil {
			return err
		}
		o.order = order
	}

	if o.DPI == 0 {
		o.DPI = canvas.DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "dpi %v is negative", o.DPI)
	}
	return nil
}

// defaultPages is one page, or as many as the finite sources need.
func (o *Options) defaultPages() int {
	f := o.filler()
	switch {
	case o.Records != nil:
		return min(f.PagesFor(len(o.Records)), sheet.MaxPages)
	case o.Exhaustive:
		return min(f.PagesFor(code.ExhaustiveCount(o.Lead)), sheet.MaxPages)
	}
	return 1
}

// Preset returns the resolved preset. Valid after ValidateAndSetDefaults.
func (o *Options) Preset() layout.Preset { return o.preset }

// Deterministic reports whether the run renders the same output every time.
func (o *Options) Deterministic() bool {
	return o.FakeCode != "" || o.Exhaustive
}

func (o *Options) filler() *sheet.Filler {
	f := sheet.NewFiller(o.preset)
	f.Order = o.order
	f.CodeLength = o.Length
	return f
}

// =============================================================================
// Results
// =============================================================================

// Result describes a finished run.
type Result struct {
	RunID    string
	Format   string // resolved output format
	Files    []FileResult
	Placed   int
	Duration time.Duration
}

// FileResult is one output file. Paged formats produce one artifact per
// page.
type FileResult struct {
	Name      string
	Paths     []string // where the artifacts were written; empty without a store
	Artifacts [][]byte
	Pages     []sheet.Page
	Cached    bool
}

// Placed returns the number of codes placed in the file.
func (f FileResult) Placed() int {
	n := 0
	for _, p := range f.Pages {
		n += len(p.Codes)
	}
	return n
}
