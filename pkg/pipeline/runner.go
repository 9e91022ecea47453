package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagsheet/pkg/cache"
	"github.com/matzehuels/tagsheet/pkg/config"
	"github.com/matzehuels/tagsheet/pkg/grid"
	"github.com/matzehuels/tagsheet/pkg/names"
	"github.com/matzehuels/tagsheet/pkg/observability"
	"github.com/matzehuels/tagsheet/pkg/render"
	"github.com/matzehuels/tagsheet/pkg/svgdoc"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators. It doesn't store
// results, so multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Converter render.Converter
	Logger    *log.Logger

	// Hooks and CacheHooks default to the registered observability hooks.
	Hooks      observability.PipelineHooks
	CacheHooks observability.CacheHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Converter: render.RSVG{},
		Logger:    logger,
	}
}

// Execute runs the complete load → generate → render pipeline.
func (r *Runner) Execute(ctx context.Context, cfg config.Config, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		r.Logger.Error("invalid configuration", "err", err)
		return nil, err
	}

	result := &Result{
		Formats:   opts.Formats,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := svgdoc.ParseFile(cfg.TemplatePath)
	if err != nil {
		r.Logger.Error("cannot load template", "path", cfg.TemplatePath, "err", err)
		return nil, fmt.Errorf("load: %w", err)
	}
	container, template, err := grid.LocateTemplate(doc.Root(), cfg.ContainerID)
	if err != nil {
		r.Logger.Error("cannot locate template group", "path", cfg.TemplatePath, "err", err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	r.Logger.Debug("loaded template", "path", cfg.TemplatePath, "duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Generate
	genStart := time.Now()
	res, err := r.generate(ctx, cfg, container, template)
	result.Stats.GenerateTime = time.Since(genStart)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Document = doc
	result.Placed = res.Tags
	result.Skipped = res.Skipped
	result.Spacing = res.Spacing
	result.Stats.Placed = len(res.Tags)
	result.Stats.Skipped = len(res.Skipped)
	result.Stats.Labels = len(res.Tags) + len(res.Skipped)

	r.Logger.Info("generated tags",
		"placed", result.Stats.Placed,
		"skipped", result.Stats.Skipped,
		"duration", result.Stats.GenerateTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	if err := r.render(ctx, doc, opts, result); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// generate reads the names and replaces the layer contents with one tag per
// name.
func (r *Runner) generate(ctx context.Context, cfg config.Config, container, template *svgdoc.Element) (res *grid.Result, err error) {
	hooks := r.hooks()
	start := time.Now()

	labels, err := names.Read(cfg.NamesPath)
	if err != nil {
		r.Logger.Error("cannot read names", "path", cfg.NamesPath, "err", err)
		hooks.OnGenerateComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	if len(labels) == 0 {
		r.Logger.Warn("names file is empty, the sheet will have no tags", "path", cfg.NamesPath)
	}
	hooks.OnGenerateStart(ctx, len(labels))
	defer func() {
		placed, skipped := 0, 0
		if res != nil {
			placed, skipped = len(res.Tags), len(res.Skipped)
		}
		hooks.OnGenerateComplete(ctx, placed, skipped, time.Since(start), err)
	}()

	engine, err := grid.NewEngine(cfg.Layout(), r.Logger)
	if err != nil {
		return nil, err
	}
	res, err = engine.Generate(template, labels)
	if err != nil {
		return nil, err
	}
	for _, s := range res.Skipped {
		hooks.OnLabelSkipped(ctx, s.Index, s.Label)
	}

	if err := grid.Assemble(container, template, res.Tags); err != nil {
		r.Logger.Error("cannot assemble sheet", "err", err)
		return nil, err
	}
	return res, nil
}

// render serializes doc and converts it to every requested format.
// Conversions are served from the cache unless opts.Refresh is set.
func (r *Runner) render(ctx context.Context, doc *svgdoc.Document, opts Options, result *Result) (err error) {
	svg, err := svgdoc.Marshal(doc)
	if err != nil {
		return err
	}
	result.Artifacts[render.FormatSVG] = svg

	var extra []string
	for _, f := range opts.Formats {
		if f != render.FormatSVG {
			extra = append(extra, f)
		}
	}
	if len(extra) == 0 {
		return nil
	}

	hooks, cacheHooks := r.hooks(), r.cacheHooks()
	start := time.Now()
	hooks.OnRenderStart(ctx, extra)
	defer func() { hooks.OnRenderComplete(ctx, extra, time.Since(start), err) }()

	svgHash := cache.Hash(svg)
	for _, format := range extra {
		if err := ctx.Err(); err != nil {
			return err
		}

		key := r.Keyer.ArtifactKey(svgHash, artifactKeyOpts(format, opts.Scale))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, format)
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			} else if err != nil {
				r.Logger.Debug("cache read failed", "format", format, "err", err)
			}
			cacheHooks.OnCacheMiss(ctx, format)
		}

		data, err := r.converter().Convert(ctx, svg, format, opts.Scale)
		if err != nil {
			r.Logger.Error("conversion failed", "format", format, "err", err)
			return err
		}
		result.Artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}
	return nil
}

func artifactKeyOpts(format string, scale float64) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == render.FormatPNG {
		opts.Scale = scale
	}
	return opts
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Pipeline()
}

func (r *Runner) cacheHooks() observability.CacheHooks {
	if r.CacheHooks != nil {
		return r.CacheHooks
	}
	return observability.Cache()
}

func (r *Runner) converter() render.Converter {
	if r.Converter != nil {
		return r.Converter
	}
	return render.RSVG{}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
