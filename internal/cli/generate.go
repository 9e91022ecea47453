package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagsheet/pkg/config"
	"github.com/matzehuels/tagsheet/pkg/pipeline"
	"github.com/matzehuels/tagsheet/pkg/render"
)

// generateOpts holds the flags of the generate command. Zero values leave
// the configuration file untouched.
type generateOpts struct {
	configPath string
	template   string
	names      string
	output     string
	columns    int
	rows       int
	formats    string
	scale      float64
	noCache    bool
	refresh    bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sheet of name tags",
		Long: `Generate a sheet of name tags.

The template group inside the layer is copied once per line of the names file.
Copies fill the grid row by row; names beyond the last cell are skipped with a
warning. Flags override the values read from the configuration file.`,
		Example: `  # Use config.json from the working directory
  tagsheet generate

  # Override paths and also write a PDF next to the SVG
  tagsheet generate --names guests.txt --output out/guests.svg --format svg,pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "configuration file (json, toml or yaml)")
	f.StringVar(&opts.template, "template", "", "SVG template (overrides template_path)")
	f.StringVar(&opts.names, "names", "", "names file, one per line (overrides names_path)")
	f.StringVarP(&opts.output, "output", "o", "", "output SVG (overrides output_path)")
	f.IntVar(&opts.columns, "columns", 0, "grid columns (overrides columns)")
	f.IntVar(&opts.rows, "rows", 0, "grid rows (overrides rows)")
	f.StringVarP(&opts.formats, "format", "f", render.FormatSVG, "output formats: svg, pdf, png (comma-separated)")
	f.Float64Var(&opts.scale, "scale", render.DefaultScale, "PNG scale factor")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")
	f.BoolVar(&opts.refresh, "refresh", false, "convert again even when cached")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	cfg, err := config.Load(opts.configPath, c.Logger)
	if err != nil {
		c.Logger.Error("cannot load configuration", "path", opts.configPath, "err", err)
		return err
	}
	opts.apply(&cfg)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Formats: parseFormats(opts.formats),
		Scale:   opts.scale,
		Refresh: opts.refresh,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var spin *Spinner
	if converts(popts.Formats) {
		spin = newSpinner(ctx, os.Stderr, "Converting sheet...")
		spin.Start()
	}
	result, err := runner.Execute(ctx, cfg, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := result.Write(cfg.OutputPath)
	if err != nil {
		c.Logger.Error("cannot write output", "path", cfg.OutputPath, "err", err)
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d tags", result.Stats.Placed))

	printSummary(result, paths)
	return nil
}

// apply copies the flags that were set onto cfg.
func (o generateOpts) apply(cfg *config.Config) {
	if o.template != "" {
		cfg.TemplatePath = o.template
	}
	if o.names != "" {
		cfg.NamesPath = o.names
	}
	if o.output != "" {
		cfg.OutputPath = o.output
	}
	if o.columns != 0 {
		cfg.Columns = o.columns
	}
	if o.rows != 0 {
		cfg.Rows = o.rows
	}
}

func printSummary(result *pipeline.Result, paths []string) {
	printSuccess("Generated %d of %d tags", result.Stats.Placed, result.Stats.Labels)
	if n := result.Stats.Skipped; n > 0 {
		printWarning("%d names did not fit the grid", n)
		for _, s := range result.Skipped {
			printDetail("%d: %s", s.Index+1, s.Label)
		}
	}
	printKeyValue("spacing", fmt.Sprintf("%.2f x %.2f", result.Spacing.Horizontal, result.Spacing.Vertical))
	for _, p := range paths {
		printFile(p)
	}
	if len(result.CacheInfo.Hits) > 0 {
		printDetail("cached: %s", strings.Join(result.CacheInfo.Hits, ", "))
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

func converts(formats []string) bool {
	for _, f := range formats {
		if f != render.FormatSVG {
			return true
		}
	}
	return false
}
