package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/buildinfo"
	"github.com/labmed/barcoder/pkg/cache"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
	"github.com/labmed/barcoder/pkg/observability"
	"github.com/labmed/barcoder/pkg/render"
	"github.com/labmed/barcoder/pkg/sheet"
	"github.com/labmed/barcoder/pkg/storage"
)

// TTLSheet is how long cached proof sheets live by default.
const TTLSheet = 24 * time.Hour

// Runner executes runs. Its seen set persists across runs, so a long-lived
// runner (the HTTP server) never issues the same code twice.
//
// A Runner may be used by several goroutines; the seen set, audit writer and
// caches synchronize internally.
type Runner struct {
	// Store receives the artifacts. When nil, artifacts are only returned.
	Store *storage.Store

	Logger *log.Logger

	// Audit, when set, receives one row per placed code after each file is
	// written.
	Audit *audit.Writer

	Seen  *code.Seen // nil gives each run a fresh set
	Rand  io.Reader  // nil uses crypto/rand; must be safe for concurrent use if the runner is shared
	Cache cache.Cache
	Hooks observability.PipelineHooks

	// CacheTTL overrides TTLSheet when positive.
	CacheTTL time.Duration
}

// NewRunner creates a runner with an empty seen set and no cache.
// If logger is nil, log.Default() is used.
func NewRunner(store *storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:    store,
		Logger:   logger,
		Seen:     code.NewSeen(),
		Cache:    cache.NewNullCache(),
		Hooks:    observability.Pipeline(),
		CacheTTL: TTLSheet,
	}
}

// withDefaults returns a copy of r with unset fields filled in. Execute
// works on the copy so concurrent runs never write to a shared runner.
func (r *Runner) withDefaults() *Runner {
	c := *r
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.Seen == nil {
		c.Seen = code.NewSeen()
	}
	if c.Cache == nil {
		c.Cache = cache.NewNullCache()
	}
	if c.Hooks == nil {
		c.Hooks = observability.Pipeline()
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = TTLSheet
	}
	return &c
}

// Execute validates opts and renders every file of the run. Files finished
// before an error are kept and returned with it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r = r.withDefaults()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString(), Format: opts.Format}
	logger := r.Logger.With("run", result.RunID[:8])

	if opts.FakeCode != "" && !code.Verify(opts.FakeCode) {
		logger.Warn("fake code has a bad checksum", "code", opts.FakeCode)
	}
	if opts.Engine == EngineRSVG && !render.Available() {
		logger.Warn("rsvg-convert not found, using native engine")
		opts.Engine = EngineNative
	}

	r.Hooks.OnRunStart(ctx, result.RunID, opts.Layout, opts.Files, opts.Pages)
	logger.Info("starting run",
		"layout", opts.Layout,
		"files", opts.Files,
		"pages", opts.Pages,
		"format", opts.Format,
		"length", opts.Length)

	err := r.run(ctx, &opts, result, logger)
	result.Duration = time.Since(start)
	r.Hooks.OnRunComplete(ctx, result.RunID, result.Placed, result.Duration, err)
	if err != nil {
		return result, err
	}

	logger.Info("run complete",
		"files", len(result.Files),
		"placed", result.Placed,
		"duration", result.Duration)
	return result, nil
}

func (r *Runner) run(ctx context.Context, opts *Options, result *Result, logger *log.Logger) error {
	src, closeSrc, err := r.source(opts, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	for fileno := 1; fileno <= opts.Files; fileno++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fileStart := time.Now()
		fr, err := r.renderFile(ctx, opts, fileno, src)
		r.Hooks.OnFileComplete(ctx, result.RunID, fr.Name, len(fr.Pages), fr.Placed(), time.Since(fileStart), err)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, fr)
		result.Placed += fr.Placed()

		logger.Info("wrote sheet",
			"name", fr.Name,
			"pages", len(fr.Pages),
			"placed", fr.Placed(),
			"cached", fr.Cached)
	}
	return nil
}

// source builds the single code source a run draws from.
func (r *Runner) source(opts *Options, logger *log.Logger) (sheet.Source, func(), error) {
	noop := func() {}
	switch {
	case opts.Records != nil:
		return sheet.NewListSource(opts.Records), noop, nil
	case opts.FakeCode != "":
		return sheet.FixedSource{Code: opts.FakeCode}, noop, nil
	case opts.Exhaustive:
		seq, err := code.Exhaustive(opts.Length, opts.Lead)
		if err != nil {
			return nil, nil, err
		}
		src := sheet.NewSeqSource(seq)
		return src, src.Close, nil
	}

	gen, err := code.NewGenerator(opts.Length,
		code.WithRand(r.Rand),
		code.WithSeen(r.Seen),
		code.WithLogger(logger),
		code.WithNumericFirst(*opts.NumericFirst),
		code.WithStopIfSeen(opts.StopIfSeen),
		code.WithMaxRetries(opts.MaxRetries),
	)
	if err != nil {
		return nil, nil, err
	}
	return sheet.NewGeneratorSource(gen), noop, nil
}

func (r *Runner) renderFile(ctx context.Context, opts *Options, fileno int, src sheet.Source) (FileResult, error) {
	fr := FileResult{Name: OutputName(opts.OutputTemplate, opts.nameVars(fileno))}
	filler := opts.filler()

	var key string
	if opts.Deterministic() {
		// The name is the document title and opts.date its creation day.
		key = cache.Key("sheet", opts, fileno, fr.Name, opts.date, buildinfo.Version)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var artifacts [][]byte
			if json.Unmarshal(data, &artifacts) == nil {
				pages, err := filler.Paginate(opts.Pages, src, skipRenderer{})
				if err != nil {
					return fr, err
				}
				fr.Pages, fr.Artifacts, fr.Cached = pages, artifacts, true
				observability.Cache().OnCacheHit(ctx, "sheet")
			}
		}
		if !fr.Cached {
			observability.Cache().OnCacheMiss(ctx, "sheet")
		}
	}

	if !fr.Cached {
		c, err := newCanvas(opts, fr.Name)
		if err != nil {
			return fr, err
		}
		pages, err := filler.Paginate(opts.Pages, src, newPageRenderer(ctx, c, opts))
		fr.Pages = pages
		if err != nil {
			return fr, err
		}
		if fr.Artifacts, err = encode(ctx, c, opts); err != nil {
			return fr, err
		}
		if key != "" {
			if data, err := json.Marshal(fr.Artifacts); err == nil {
				if r.Cache.Set(ctx, key, data, r.CacheTTL) == nil {
					observability.Cache().OnCacheSet(ctx, "sheet", len(data))
				}
			}
		}
	}

	if err := r.write(ctx, opts, &fr); err != nil {
		return fr, err
	}
	if r.Audit != nil {
		for _, p := range fr.Pages {
			if err := r.Audit.Record(fr.Name, p.Number, p.Codes); err != nil {
				return fr, err
			}
		}
	}
	return fr, nil
}

func (r *Runner) write(ctx context.Context, opts *Options, fr *FileResult) error {
	names := ArtifactNames(fr.Name, opts.Format, len(fr.Artifacts))
	if len(names) != len(fr.Artifacts) {
		return errors.New(errors.ErrCodeInternal, "%d artifacts for %d names", len(fr.Artifacts), len(names))
	}
	if r.Store == nil {
		return nil
	}
	for i, name := range names {
		p := storage.Join(opts.OutputDir, name)
		if err := r.Store.Write(ctx, p, fr.Artifacts[i]); err != nil {
			return err
		}
		fr.Paths = append(fr.Paths, p)
	}
	return nil
}
