package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/buildinfo"
	"github.com/labmed/barcoder/pkg/cache"
	"github.com/labmed/barcoder/pkg/config"
	"github.com/labmed/barcoder/pkg/observability"
	"github.com/labmed/barcoder/pkg/pipeline"
	"github.com/labmed/barcoder/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "barcoder"

	// maxCodes caps a single codes invocation.
	maxCodes = 1_000_000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	// Store reads seen-code files and writes outputs; local paths and URLs.
	Store *storage.Store

	configPath string
	tracePath  string
	out        io.Writer
	closers    []func() error
}

// New creates a new CLI instance with a default logger. Command output goes
// to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		Store:  storage.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (codes, listings) to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Barcoder prints unique, checksummed specimen barcodes on label sheets",
		Long: `Barcoder generates random alphanumeric codes with a checksum character and
lays them out as Code 128 and QR labels on standard label sheets (PDF, SVG
or PNG), recording every placed code in an audit log.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if c.tracePath != "" {
				if err := c.startTracing(); err != nil {
					return err
				}
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/barcoder/config.toml)")
	root.PersistentFlags().StringVar(&c.tracePath, "trace", "", "write OpenTelemetry spans for runs and requests to this file")

	// Register all subcommands
	root.AddCommand(c.codesCommand())
	root.AddCommand(c.sheetCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Close releases what the commands opened, flushing traces.
func (c *CLI) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// startTracing exports pipeline and HTTP spans to the --trace file.
func (c *CLI) startTracing() error {
	f, err := os.Create(c.tracePath)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	shutdown, err := observability.InitTracing(f, appName, buildinfo.Version)
	if err != nil {
		f.Close()
		return fmt.Errorf("init tracing: %w", err)
	}
	observability.SetPipelineHooks(observability.NewTracingPipelineHooks(nil))
	observability.SetHTTPHooks(observability.NewTracingHTTPHooks(nil))
	c.closers = append(c.closers, f.Close, func() error {
		return shutdown(context.Background())
	})
	c.Logger.Debug("tracing enabled", "path", c.tracePath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Proof sheets are cached
// on disk unless noCache is set.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(c.Store, c.Logger)
	r.Cache = newCache(noCache, c.Logger)
	return r
}

func newCache(noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("sheet cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}
