// Package pkg provides the core libraries for barcoder, a generator of
// unique, checksummed specimen codes printed on label sheets.
//
// # Overview
//
// A code is a random body drawn from an unambiguous alphabet (A-Z and 2-9
// without I and O) followed by one checksum character, the first hex digit
// of the MD5 of the body. Codes are laid out as Code 128 and QR labels on
// commercial label stock. The pkg directory is organized into four areas:
//
//  1. Codes: [code] generation and verification
//  2. Geometry: [layout] sheets, [label] templates, [sheet] pagination
//  3. Output: [symbol] matrices, [fonts], [canvas] backends, [render] conversion
//  4. Orchestration: [pipeline] runs, [server] HTTP, [storage], [audit], [cache]
//
// # Architecture
//
// The typical data flow of a run:
//
//	code.Generator / CSV records / fake code / exhaustive sequence
//	         ↓
//	    [sheet] Filler.Paginate (cells in fill order, 1..99 pages)
//	         ↓
//	    [label] Template.Draw (symbols + text, placeholders expanded)
//	         ↓
//	    [canvas] PDF (gopdf), SVG (svgo) or PNG (gg)
//	         ↓
//	    [storage] local files or afs URLs, [audit] one CSV row per code
//
// # Quick Start
//
// Render three pages of pool labels:
//
//	runner := pipeline.NewRunner(storage.New(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Layout: "pool",
//	    Pages:  3,
//	})
//
// Draw codes directly:
//
//	gen, _ := code.NewGenerator(12)
//	codes, _ := gen.Take(100)
//
// # Main Packages
//
// [code] - Checksums, verification, the unique Generator with its shared
// Seen set, and the exhaustive test sequence.
//
// [layout] - Page geometry in points with the origin at the bottom-left, and
// the built-in presets (pool, threecol, onecol, twocol).
//
// [label] - Label templates: symbol and text elements with {placeholder}
// fields, positioned relative to the label origin.
//
// [sheet] - Code sources and the Filler that places them page by page.
//
// [symbol] - Code 128 and QR module matrices from boombuler/barcode.
//
// [canvas] - The drawing surface and its PDF, SVG and PNG backends.
//
// [render] - SVG to PDF/PNG conversion through rsvg-convert.
//
// [pipeline] - A complete run (files × pages) shared by the CLI and the
// HTTP server.
//
// [errors] - Coded errors used throughout.
//
// [code]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/code
// [layout]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/layout
// [label]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/label
// [sheet]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/sheet
// [symbol]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/symbol
// [fonts]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/fonts
// [canvas]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/canvas
// [render]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/server
// [storage]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/storage
// [audit]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/audit
// [cache]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/cache
// [errors]: https://pkg.go.dev/github.com/labmed/barcoder/pkg/errors
package pkg
