package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/tagsheet/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// DefaultScale is the PNG scale factor; 2 gives a print-ready 2x raster.
const DefaultScale = 2.0

// Converter turns SVG bytes into another format.
type Converter interface {
	Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error)
}

// RSVG converts with the rsvg-convert binary. The zero value looks the
// binary up on PATH.
type RSVG struct {
	// Binary overrides the executable name or path.
	Binary string
}

// Convert implements Converter. scale is ignored for PDF output.
func (r RSVG) Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatPDF:
		return r.run(ctx, svg, format)
	case FormatPNG:
		if scale <= 0 {
			scale = DefaultScale
		}
		return r.run(ctx, svg, format, "-z", fmt.Sprintf("%.2f", scale))
	case FormatSVG:
		return svg, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot convert to %q (must be svg, pdf or png)", format)
	}
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return RSVG{}.Convert(ctx, svg, FormatPDF, 0)
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return RSVG{}.Convert(ctx, svg, FormatPNG, scale)
}

func (r RSVG) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return "rsvg-convert"
}

// run pipes svg through rsvg-convert.
func (r RSVG) run(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	bin := r.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPDF: true,
	FormatPNG: true,
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, pdf, png)", f)
		}
	}
	return nil
}
