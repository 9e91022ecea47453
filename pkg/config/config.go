// Package config loads tagsheet run configuration.
//
// A configuration names the input and output files and describes the tag
// grid. Files may be JSON, TOML or YAML; the format is picked from the file
// extension and any key left out keeps its default value:
//
//	{
//	  "template_path": "template.svg",
//	  "names_path": "names.txt",
//	  "output_path": "output.svg",
//	  "canvas_width": 700,
//	  "canvas_height": 400,
//	  "columns": 4,
//	  "rows": 10,
//	  "tag_width": 135.94,
//	  "tag_height": 29.82
//	}
//
// A missing configuration file is not an error: [Load] logs a warning and
// returns [Defaults].
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tagsheet/pkg/errors"
	"github.com/matzehuels/tagsheet/pkg/grid"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "config.json"

// Supported file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Default values.
const (
	DefaultTemplatePath = "template.svg"
	DefaultNamesPath    = "names.txt"
	DefaultOutputPath   = "output.svg"
	DefaultCanvasWidth  = 700.0
	DefaultCanvasHeight = 400.0
	DefaultColumns      = 4
	DefaultRows         = 10
	DefaultTagWidth     = 135.94
	DefaultTagHeight    = 29.82
)

// Config is the full configuration of one run.
type Config struct {
	TemplatePath string  `json:"template_path" toml:"template_path" yaml:"template_path"`
	NamesPath    string  `json:"names_path" toml:"names_path" yaml:"names_path"`
	OutputPath   string  `json:"output_path" toml:"output_path" yaml:"output_path"`
	CanvasWidth  float64 `json:"canvas_width" toml:"canvas_width" yaml:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height" toml:"canvas_height" yaml:"canvas_height"`
	Columns      int     `json:"columns" toml:"columns" yaml:"columns"`
	Rows         int     `json:"rows" toml:"rows" yaml:"rows"`
	TagWidth     float64 `json:"tag_width" toml:"tag_width" yaml:"tag_width"`
	TagHeight    float64 `json:"tag_height" toml:"tag_height" yaml:"tag_height"`

	// ContainerID is the id of the layer holding the template group.
	ContainerID string `json:"container_id,omitempty" toml:"container_id,omitempty" yaml:"container_id,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		TemplatePath: DefaultTemplatePath,
		NamesPath:    DefaultNamesPath,
		OutputPath:   DefaultOutputPath,
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
		Columns:      DefaultColumns,
		Rows:         DefaultRows,
		TagWidth:     DefaultTagWidth,
		TagHeight:    DefaultTagHeight,
		ContainerID:  grid.DefaultContainerID,
	}
}

// Layout returns the grid part of the configuration.
func (c Config) Layout() grid.Layout {
	return grid.Layout{
		CanvasWidth:  c.CanvasWidth,
		CanvasHeight: c.CanvasHeight,
		Columns:      c.Columns,
		Rows:         c.Rows,
		TagWidth:     c.TagWidth,
		TagHeight:    c.TagHeight,
	}
}

// Validate checks the grid and that every path is set.
func (c Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	for _, p := range [...]struct{ key, value string }{
		{"template_path", c.TemplatePath},
		{"names_path", c.NamesPath},
		{"output_path", c.OutputPath},
	} {
		if strings.TrimSpace(p.value) == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, "%s must not be empty", p.key)
		}
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "canvas size must be positive, got %gx%g", c.CanvasWidth, c.CanvasHeight)
	}
	if c.TagWidth <= 0 || c.TagHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "tag size must be positive, got %gx%g", c.TagWidth, c.TagHeight)
	}
	return errors.ValidateOutputPath(c.OutputPath)
}

// Load reads the configuration at path on top of [Defaults]. When the file
// does not exist the defaults are returned and a warning is logged.
func Load(path string, logger *log.Logger) (Config, error) {
	if logger == nil {
		logger = log.Default()
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(data, FormatFor(path), &cfg); err != nil {
		return Defaults(), errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "parse %s", path)
	}
	if cfg.ContainerID == "" {
		cfg.ContainerID = grid.DefaultContainerID
	}

	logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// FormatFor returns the file format implied by the extension of path.
// Unknown extensions are treated as JSON.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode unmarshals data in the given format into cfg. Keys absent from data
// leave the corresponding fields untouched.
func Decode(data []byte, format string, cfg *Config) error {
	switch format {
	case FormatTOML:
		_, err := toml.Decode(string(data), cfg)
		return err
	case FormatYAML:
		return yaml.Unmarshal(data, cfg)
	case FormatJSON:
		return json.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q (must be json, toml or yaml)", format)
	}
}

// Encode writes cfg to w in the given format.
func Encode(w io.Writer, cfg Config, format string) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q (must be json, toml or yaml)", format)
	}
}
