package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/labmed/barcoder/pkg/errors"
)

// Binary is the converter executable looked up on PATH.
var Binary = "rsvg-convert"

const installHint = "install librsvg:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}

// ToPDF combines SVG pages into one PDF, one page per input.
func ToPDF(ctx context.Context, pages ...[]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "no pages to convert")
	}
	if len(pages) == 1 {
		return rsvgConvert(ctx, pages[0], "pdf")
	}

	dir, err := os.MkdirTemp("", "barcoder-rsvg-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "creating temp dir")
	}
	defer os.RemoveAll(dir)

	args := []string{"-f", "pdf"}
	for i, page := range pages {
		path := filepath.Join(dir, fmt.Sprintf("page-%02d.svg", i+1))
		if err := os.WriteFile(path, page, 0o600); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "writing page %d", i+1)
		}
		args = append(args, path)
	}
	return run(ctx, nil, args...)
}

// ToPNG rasterizes one SVG page. A scale of 2.0 doubles the resolution of
// the page's point size.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	args := append([]string{"-f", format}, extraArgs...)
	return run(ctx, svg, args...)
}

func run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s not found; %s", Binary, installHint)
	}

	cmd := exec.CommandContext(ctx, Binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRender, err, "%s: %s", Binary, errBuf.String())
	}
	return out.Bytes(), nil
}
