// Package cli implements the tagsheet command-line interface.
//
// The CLI is built with cobra. Logging goes through charmbracelet/log on
// stderr, and summaries are printed with lipgloss styles on stdout.
//
// # Commands
//
//   - generate: Fill the template with one tag per name and write the sheet
//   - config: Show the effective configuration or write a starter file
//   - cache: Manage the conversion cache
//   - completion: Generate shell completion scripts
//
// Running tagsheet without a subcommand behaves like "tagsheet generate"
// with config.json in the working directory.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagsheet/pkg/buildinfo"
	"github.com/matzehuels/tagsheet/pkg/cache"
	"github.com/matzehuels/tagsheet/pkg/observability"
	"github.com/matzehuels/tagsheet/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tagsheet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	gen := c.generateCommand()

	root := &cobra.Command{
		Use:   appName,
		Short: "Tagsheet lays out printable name tags from an SVG template",
		Long: `Tagsheet copies a name tag drawn in an SVG editor once per name, places the
copies on a grid, and writes a print-ready sheet.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gen.RunE(cmd, args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(gen)
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build version so upgrades never serve stale conversions.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	hooks := observability.NewLogHooks(c.Logger)
	r := pipeline.NewRunner(cache, newKeyer(), c.Logger)
	r.Hooks = hooks
	r.CacheHooks = hooks
	return r, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tagsheet/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
