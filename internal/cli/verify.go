package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/errors"
)

// verifyCommand creates the verify command, which checks code checksums.
func (c *CLI) verifyCommand() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "verify [code...]",
		Short: "Check codes for a valid checksum",
		Long: `Check that each code uses the code alphabet and ends in the right checksum
character. Codes are read from the arguments, or one per line from stdin.
A scanner's ';' prefix is ignored.

Exits non-zero if any code is invalid.`,
		Example: `  barcoder verify 2ABCDEFGHJK5
  barcoder codes -n 100 | barcoder verify --length 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := args
			if len(codes) == 0 {
				var err error
				if codes, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return c.runVerify(codes, length)
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 0, "also require this length")

	return cmd
}

func (c *CLI) runVerify(codes []string, length int) error {
	if len(codes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no codes to verify")
	}

	w := c.stdout()
	bad := 0
	for _, cd := range codes {
		cd = strings.TrimPrefix(strings.TrimSpace(cd), ";")
		err := code.ValidateCode(cd, length)
		if err != nil {
			bad++
		}
		printVerdict(w, cd, err)
	}

	if bad > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d codes invalid", bad, len(codes))
	}
	return nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read codes: %w", err)
	}
	return lines, nil
}
