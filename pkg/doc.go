// Package pkg provides the libraries behind the tagsheet CLI.
//
// # Overview
//
// Tagsheet turns one name tag drawn in an SVG editor into a printable sheet:
// the tag group is copied once per name, each copy gets its label and a
// translate transform, and the copies replace the original inside its layer.
//
//  1. [svgdoc] - Namespace-preserving SVG document tree, parser and encoder
//  2. [grid] - Spacing, cell placement and sheet assembly
//  3. [names] - Names file decoding
//  4. [config] - Run configuration in JSON, TOML or YAML
//  5. [pipeline] - Orchestration (load → generate → render)
//
// # Architecture
//
// The typical data flow through tagsheet:
//
//	template.svg        names.txt
//	     ↓                  ↓
//	 [svgdoc]            [names]
//	     ↓                  ↓
//	     └──── [grid] ──────┘
//	             ↓
//	        [svgdoc] encode
//	             ↓
//	   [render] (PDF/PNG via rsvg-convert, cached by [cache])
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/tagsheet/pkg/config"
//	    "github.com/matzehuels/tagsheet/pkg/pipeline"
//	)
//
//	cfg, _ := config.Load("config.json", nil)
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), cfg, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	_, err = result.Write(cfg.OutputPath)
//
// # Supporting Packages
//
//   - [errors]: Coded errors shared by every package
//   - [observability]: Hooks for logging and metrics
//   - [buildinfo]: Version information set at build time
//
// [svgdoc]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/svgdoc
// [grid]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/grid
// [names]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/names
// [config]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tagsheet/pkg/buildinfo
package pkg
