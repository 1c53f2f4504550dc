package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/layout"
	"github.com/labmed/barcoder/pkg/pipeline"
	"github.com/labmed/barcoder/pkg/sheet"
)

// sheetOpts holds the flags of the sheet command that do not map directly
// onto pipeline.Options.
type sheetOpts struct {
	infile       string
	seen         []string
	audit        string
	numericFirst bool
	noCache      bool
	pick         bool
}

// sheetCommand creates the sheet command, which renders label sheets.
func (c *CLI) sheetCommand() *cobra.Command {
	var (
		opts  pipeline.Options
		extra sheetOpts
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Render label sheets",
		Long: `Render sheets of barcode labels. Every code on every page of every file is
distinct and is never one listed in a --seen file.

Codes come from exactly one source:
  generated      fresh random codes (default)
  --infile       a CSV file with a "barcode" column and optional label1..label4
  --fake-code    the same code in every cell, for printer alignment proofs
  --exhaustive   every code of the given length, for scanner testing

Layouts: ` + strings.Join(layout.Names(), ", ") + `.`,
		Example: `  barcoder sheet --layout pool --pages 5
  barcoder sheet --layout twocol --batch B12 --files 3 --audit issued.csv
  barcoder sheet --layout onecol --infile plates.csv --format svg
  barcoder sheet --fake-code 2ABCDEFGHJKD --grid --vlines`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applySheetDefaults(cmd, &opts, &extra)
			if cmd.Flags().Changed("numeric-first") {
				opts.NumericFirst = &extra.numericFirst
			}
			if extra.pick {
				name, ok, err := pickPreset(opts.Layout)
				if err != nil {
					return err
				}
				if !ok {
					printDetail("No layout selected")
					return nil
				}
				opts.Layout = name
			}
			return c.runSheet(cmd.Context(), opts, extra)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Layout, "layout", "L", pipeline.DefaultLayout, "sheet layout")
	f.IntVarP(&opts.Pages, "pages", "p", 0, "pages per file, 1-99 (default 1, or enough for --infile/--exhaustive)")
	f.IntVarP(&opts.Files, "files", "f", 1, "number of output files, 1-99")
	f.IntVarP(&opts.Length, "length", "l", 0, "code length including the checksum (default from the layout)")
	f.StringVarP(&opts.Batch, "batch", "b", "", "batch tag printed on lab labels and in file names")
	f.StringVar(&opts.FakeCode, "fake-code", "", "print this code in every cell")
	f.BoolVar(&opts.Exhaustive, "exhaustive", false, "print every code of the length, for scanner tests")
	f.StringVar(&opts.Lead, "lead", "", "restrict --exhaustive to codes starting with these characters")
	f.StringVarP(&extra.infile, "infile", "i", "", "CSV file of codes and label text")
	f.StringSliceVar(&extra.seen, "seen", nil, "files of previously issued codes (repeatable)")
	f.BoolVar(&opts.StopIfSeen, "strict", false, "fail on the first collision instead of retrying")
	f.IntVar(&opts.MaxRetries, "max-retries", 0, "consecutive collisions before giving up (negative for no limit)")
	f.BoolVar(&extra.numericFirst, "numeric-first", true, "start generated codes with a digit (default from the layout)")
	f.BoolVar(&opts.Grid, "grid", false, "draw cut lines between rows")
	f.BoolVar(&opts.VLines, "vlines", false, "also draw cut lines between columns (with --grid)")
	f.StringVar(&opts.Order, "order", "", "fill order within a row: forward or reversed (default from the layout)")
	f.StringVarP(&opts.Format, "format", "F", "", "output format: pdf, svg, png")
	f.StringVar(&opts.Engine, "engine", "", "rendering engine: native, rsvg")
	f.Float64Var(&opts.DPI, "dpi", 0, "raster resolution for png")
	f.BoolVar(&opts.NoFooter, "no-footer", false, "omit the page number and version footer")
	f.StringVarP(&opts.OutputDir, "outdir", "o", "", "output directory or URL")
	f.StringVar(&opts.OutputTemplate, "template", "", "output file name template")
	f.StringVar(&opts.Timestamp, "timestamp", "", "value of {timestamp} in file names (default now)")
	f.StringVar(&opts.URL, "url", "", "results site encoded in QR labels")
	f.StringVar(&opts.Note, "note", "", "note printed on QR labels")
	f.StringVar(&extra.audit, "audit", "", "append placed codes to this CSV file")
	f.BoolVar(&extra.noCache, "no-cache", false, "always re-render proof sheets")
	f.BoolVar(&extra.pick, "pick", false, "choose the layout interactively")

	_ = cmd.RegisterFlagCompletionFunc("layout", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return layout.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"pdf", "svg", "png"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(pipeline.Engines, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("order", cobra.FixedCompletions([]string{"forward", "reversed"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// applySheetDefaults fills every flag the user did not give from the
// config file.
func (c *CLI) applySheetDefaults(cmd *cobra.Command, opts *pipeline.Options, extra *sheetOpts) {
	d := c.Config.Defaults
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if !set("layout") && d.Layout != "" {
		opts.Layout = d.Layout
	}
	if !set("format") {
		opts.Format = d.Format
	}
	if !set("engine") {
		opts.Engine = d.Engine
	}
	if !set("outdir") {
		opts.OutputDir = d.OutputDir
	}
	if !set("template") {
		opts.OutputTemplate = d.OutputTemplate
	}
	if !set("url") {
		opts.URL = d.URL
	}
	if !set("note") {
		opts.Note = d.Note
	}
	if !set("grid") {
		opts.Grid = d.Grid
	}
	if !set("vlines") {
		opts.VLines = d.VLines
	}
	if !set("max-retries") {
		opts.MaxRetries = d.MaxRetries
	}
	if !set("dpi") {
		opts.DPI = d.DPI
	}
	if !set("audit") {
		extra.audit = d.Audit
	}
	if !set("seen") {
		extra.seen = d.Seen
	}
}

func (c *CLI) runSheet(ctx context.Context, opts pipeline.Options, extra sheetOpts) error {
	logger := loggerFromContext(ctx)

	if extra.infile != "" {
		data, err := c.Store.Read(ctx, extra.infile)
		if err != nil {
			return err
		}
		records, err := sheet.ReadRecords(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("read %s: %w", extra.infile, err)
		}
		opts.Records = records
		logger.Debug("read records", "path", extra.infile, "records", len(records))
	}

	// Fail before touching the seen files or the audit log.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(extra.noCache)
	defer runner.Cache.Close()

	seen, err := loadSeen(ctx, c.Store, extra.seen)
	if err != nil {
		return err
	}
	runner.Seen = seen

	if extra.audit != "" {
		f, err := os.OpenFile(extra.audit, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer f.Close()
		runner.Audit = audit.NewWriter(f)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s sheets...", opts.Layout))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		if result != nil {
			for _, fr := range result.Files {
				for _, p := range fr.Paths {
					printFile(p)
				}
			}
		}
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendered %d %s", len(result.Files), plural(len(result.Files), "file", "files"))
	for _, fr := range result.Files {
		for _, p := range fr.Paths {
			printFile(p)
		}
		printStats(len(fr.Pages), fr.Placed(), fr.Cached)
	}
	if extra.audit != "" {
		printDetail("Audit log: %s (%d codes)", extra.audit, runner.Audit.Count())
	}
	return nil
}

// pickPreset runs the interactive layout picker, starting on current.
func pickPreset(current string) (string, bool, error) {
	m := NewPresetListModel(layout.Presets(), current)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", false, err
	}
	fm, ok := final.(PresetListModel)
	if !ok || fm.Selected == nil {
		return "", false, nil
	}
	return fm.Selected.Name(), true, nil
}
