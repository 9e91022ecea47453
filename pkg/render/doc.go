// Package render converts generated SVG sheets to print formats.
//
// Conversion shells out to rsvg-convert from librsvg, which handles the
// full SVG feature set Inkscape templates use (text on paths, filters,
// embedded fonts). Install it with:
//
//	brew install librsvg          # macOS
//	apt install librsvg2-bin      # Debian/Ubuntu
//
// # Usage
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Callers that need to substitute the converter, such as tests, depend on the
// [Converter] interface instead.
package render
