package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/cache"
	"github.com/labmed/barcoder/pkg/config"
	"github.com/labmed/barcoder/pkg/pipeline"
	"github.com/labmed/barcoder/pkg/server"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	maxCodes int
	audit    string
	seen     []string
}

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve codes and label sheets over HTTP",
		Long: `Run the HTTP service. All requests share one set of issued codes, seeded
from the --seen files, so the service never hands out the same code twice.

Endpoints:
  GET  /health    service status
  GET  /layouts   sheet layouts
  GET  /codes     fresh codes (?n=, ?length=, ?numeric_first=)
  POST /sheets    render a sheet from JSON options`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.Server
			if !cmd.Flags().Changed("addr") {
				opts.addr = s.Addr
			}
			if !cmd.Flags().Changed("max-codes") {
				opts.maxCodes = s.MaxCodes
			}
			if !cmd.Flags().Changed("audit") {
				opts.audit = s.Audit
			}
			if !cmd.Flags().Changed("seen") {
				opts.seen = c.Config.Defaults.Seen
			}
			return c.runServe(cmd.Context(), opts, s)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&opts.maxCodes, "max-codes", 10000, "largest n accepted by /codes")
	cmd.Flags().StringVar(&opts.audit, "audit", "", "append issued codes to this CSV file")
	cmd.Flags().StringSliceVar(&opts.seen, "seen", nil, "files of previously issued codes (repeatable)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts, cfg config.Server) error {
	runner := pipeline.NewRunner(nil, c.Logger)
	runner.Cache = cache.NewMemoryCache(cfg.CacheEntries)
	runner.CacheTTL = cfg.CacheTTL
	defer runner.Cache.Close()

	seen, err := loadSeen(ctx, c.Store, opts.seen)
	if err != nil {
		return err
	}
	runner.Seen = seen

	if opts.audit != "" {
		f, err := os.OpenFile(opts.audit, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer f.Close()
		runner.Audit = audit.NewWriter(f)
	}

	srv := server.New(server.Config{
		Addr:            opts.addr,
		MaxCodes:        opts.maxCodes,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, runner, c.Logger)

	printKeyValue("Address", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printKeyValue("Issued", fmt.Sprint(seen.Len()))
	if opts.audit != "" {
		printKeyValue("Audit log", opts.audit)
	} else {
		printWarning("No audit log; issued codes are only kept in memory")
	}
	printNewline()
	printNextStep("Try", "curl '"+"http://"+displayAddr(opts.addr)+"/codes?n=5'")

	if err := srv.Run(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}

// displayAddr turns a listen address like ":8080" into one a browser can
// open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
