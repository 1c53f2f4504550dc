package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
)

// codesOpts holds the flags of the codes command.
type codesOpts struct {
	count        int
	length       int
	strict       bool
	numericFirst bool
	maxRetries   int
	output       string   // file or URL; stdout when empty
	seen         []string // previously issued codes
}

// codesCommand creates the codes command, which prints fresh codes.
func (c *CLI) codesCommand() *cobra.Command {
	opts := codesOpts{
		count:        1,
		length:       code.DefaultLength,
		numericFirst: true,
	}

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Print freshly generated codes",
		Long: `Print unique codes, one per line. Each code ends in a checksum character
derived from the rest of the code.

Codes listed in --seen files (plain lists or audit logs) are never issued.`,
		Example: `  barcoder codes -n 10
  barcoder codes -n 500 --length 16 --seen issued.csv -o batch7.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.Config.Defaults
			if !cmd.Flags().Changed("max-retries") {
				opts.maxRetries = d.MaxRetries
			}
			if !cmd.Flags().Changed("seen") {
				opts.seen = d.Seen
			}
			return c.runCodes(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of codes")
	cmd.Flags().IntVarP(&opts.length, "length", "l", opts.length, "code length including the checksum")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on the first collision instead of retrying")
	cmd.Flags().BoolVar(&opts.numericFirst, "numeric-first", opts.numericFirst, "start every code with a digit")
	cmd.Flags().IntVar(&opts.maxRetries, "max-retries", 0, "consecutive collisions before giving up (negative for no limit)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write codes to a file or URL instead of stdout")
	cmd.Flags().StringSliceVar(&opts.seen, "seen", nil, "files of previously issued codes (repeatable)")

	return cmd
}

func (c *CLI) runCodes(ctx context.Context, opts codesOpts) error {
	logger := loggerFromContext(ctx)
	if err := errors.ValidateCount("count", opts.count, 1, maxCodes); err != nil {
		return err
	}

	seen, err := loadSeen(ctx, c.Store, opts.seen)
	if err != nil {
		return err
	}
	preloaded := seen.Len()

	// Zero keeps the default cap, matching the sheet command.
	if opts.maxRetries == 0 {
		opts.maxRetries = code.DefaultMaxRetries
	}

	gen, err := code.NewGenerator(opts.length,
		code.WithSeen(seen),
		code.WithLogger(logger),
		code.WithNumericFirst(opts.numericFirst),
		code.WithStopIfSeen(opts.strict),
		code.WithMaxRetries(opts.maxRetries),
	)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	codes, err := gen.Take(opts.count)
	if err != nil {
		return err
	}
	logger.Debug("generated codes", "count", len(codes), "preloaded", preloaded)

	if opts.output == "" {
		for _, cd := range codes {
			fmt.Fprintln(c.stdout(), cd)
		}
		return nil
	}

	data := []byte(strings.Join(codes, "\n") + "\n")
	if err := c.Store.Write(ctx, opts.output, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d codes to %s", len(codes), opts.output))
	return nil
}
