// Package render converts SVG pages to PDF and PNG with the external
// rsvg-convert tool from librsvg.
//
// This is the "rsvg" engine of the pipeline: pages are drawn with the SVG
// canvas and rasterized or combined by librsvg, which gives the same vector
// output as the native PDF engine but with librsvg's text shaping.
//
//	pages, _ := c.Finish()            // one SVG per page
//	pdf, err := render.ToPDF(ctx, pages...)
//	png, err := render.ToPNG(ctx, pages[0], 300.0/72)
//
// [Available] reports whether rsvg-convert is on PATH; callers fall back to
// the native engine when it is not.
package render
