// Package pipeline runs a complete tag sheet generation.
//
// A run loads the SVG template, finds the template group, reads the names,
// lays the tags out on the grid, and serializes the result. Extra output
// formats are converted from the generated SVG afterwards. The CLI and tests
// share this package so every entry point behaves the same.
//
// # Stages
//
//  1. Load: parse the template document and locate the template group
//  2. Generate: read the names, place one tag per name, assemble the layer
//  3. Render: serialize to SVG and convert to PDF/PNG if requested
//
// Nothing is written to disk during a run. [Result.Write] persists the
// artifacts once the whole run has succeeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{Formats: []string{"svg", "pdf"}})
//	if err != nil {
//	    return err
//	}
//	paths, err := result.Write(cfg.OutputPath)
package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/tagsheet/pkg/errors"
	"github.com/matzehuels/tagsheet/pkg/grid"
	"github.com/matzehuels/tagsheet/pkg/render"
	"github.com/matzehuels/tagsheet/pkg/svgdoc"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options controls the output side of a run. The grid and file paths come
// from config.Config.
type Options struct {
	Formats []string `json:"formats,omitempty"` // output formats, default svg
	Scale   float64  `json:"scale,omitempty"`   // PNG scale factor, default 2
	Refresh bool     `json:"refresh,omitempty"` // ignore cached conversions

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the formats and fills in defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	o.Formats = dedupe(o.Formats)
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = render.DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	o.validated = true
	return nil
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the assembled document.
	Document *svgdoc.Document

	// Formats lists the rendered formats in request order.
	Formats []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Placed are the placed tags in label order.
	Placed []grid.PlacedTag

	// Skipped are the labels that did not fit the grid.
	Skipped []grid.Skipped

	// Spacing is the gap used between tags.
	Spacing grid.Spacing

	// Stats contains counts and timings.
	Stats Stats

	// CacheInfo tracks which conversions came from the cache.
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Labels       int
	Placed       int
	Skipped      int
	LoadTime     time.Duration
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for converted formats.
type CacheInfo struct {
	Hits []string // formats served from the cache
}

// Hit reports whether format was served from the cache.
func (c CacheInfo) Hit(format string) bool {
	for _, h := range c.Hits {
		if h == format {
			return true
		}
	}
	return false
}

// Write stores every artifact next to basePath and returns the written
// paths in format order. The SVG goes to basePath itself; other formats
// replace its extension.
func (r *Result) Write(basePath string) ([]string, error) {
	if err := errors.ValidateOutputPath(basePath); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(basePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(r.Formats))
	for _, format := range r.Formats {
		data, ok := r.Artifacts[format]
		if !ok {
			continue
		}
		path := OutputPath(basePath, format)
		if err := svgdoc.WriteAtomic(path, data); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// OutputPath returns the file an artifact of the given format is written
// to, derived from the SVG output path.
func OutputPath(basePath, format string) string {
	if format == render.FormatSVG {
		return basePath
	}
	return strings.TrimSuffix(basePath, filepath.Ext(basePath)) + "." + format
}
