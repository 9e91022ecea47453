package grid

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagsheet/pkg/svgdoc"
)

const (
	transformAttr = "transform"
	idAttr        = "id"
)

// PlacedTag is one generated copy of the template.
type PlacedTag struct {
	Index  int     // position in the label list
	Column int     // zero-based grid column
	Row    int     // zero-based grid row
	X      float64 // horizontal offset, unrounded
	Y      float64 // vertical offset, unrounded
	Label  string
	Node   *svgdoc.Element
}

// Skipped is a label that did not fit the grid.
type Skipped struct {
	Index int
	Label string
}

// Result is the output of [Engine.Generate].
type Result struct {
	Tags    []PlacedTag
	Skipped []Skipped
	Spacing Spacing
}

// Engine generates tags for a fixed layout. It holds no per-run state, so one
// engine can serve any number of Generate calls.
type Engine struct {
	layout  Layout
	spacing Spacing
	logger  *log.Logger
}

// NewEngine validates l and precomputes its spacing. A layout whose tags do
// not fit the canvas is accepted but logged as a warning.
func NewEngine(l Layout, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	spacing, err := ComputeSpacing(l)
	if err != nil {
		return nil, err
	}
	if spacing.Degenerate() {
		logger.Warn("tags do not fit the canvas and will overlap",
			"horizontal_gap", spacing.Horizontal,
			"vertical_gap", spacing.Vertical)
	}
	return &Engine{layout: l, spacing: spacing, logger: logger}, nil
}

// Layout returns the layout the engine was built with.
func (e *Engine) Layout() Layout { return e.layout }

// Spacing returns the precomputed gaps.
func (e *Engine) Spacing() Spacing { return e.spacing }

// Generate produces one positioned copy of template per label, in label
// order. template is only read.
func (e *Engine) Generate(template *svgdoc.Element, labels []string) (*Result, error) {
	if template == nil {
		return nil, fmt.Errorf("generate: nil template")
	}

	res := &Result{
		Tags:    make([]PlacedTag, 0, min(len(labels), e.layout.Cells())),
		Spacing: e.spacing,
	}

	for i, label := range labels {
		col, row := e.Cell(i)
		if row >= e.layout.Rows {
			e.logger.Warn("label not placed, grid is full", "label", label, "index", i, "cells", e.layout.Cells())
			res.Skipped = append(res.Skipped, Skipped{Index: i, Label: label})
			continue
		}

		x, y := e.Offset(col, row)
		node := template.DeepCopy()
		node.SetAttr(transformAttr, Translate(x, y))
		svgdoc.StripAttr(node, idAttr)
		if SetLabel(node, label) == 0 && len(res.Tags) == 0 {
			e.logger.Warn("template has no text spans, tags will not show their labels")
		}

		res.Tags = append(res.Tags, PlacedTag{
			Index:  i,
			Column: col,
			Row:    row,
			X:      x,
			Y:      y,
			Label:  label,
			Node:   node,
		})
		e.logger.Debug("placed tag", "label", label, "column", col, "row", row)
	}

	return res, nil
}

// Cell returns the grid cell of the label at index i in row-major order.
// The row may exceed the grid.
func (e *Engine) Cell(i int) (col, row int) {
	return i % e.layout.Columns, i / e.layout.Columns
}

// Offset returns the top-left corner of a cell.
func (e *Engine) Offset(col, row int) (x, y float64) {
	x = float64(col) * (e.layout.TagWidth + e.spacing.Horizontal)
	y = float64(row) * (e.layout.TagHeight + e.spacing.Vertical)
	return x, y
}

// Translate formats an SVG translate transform with two decimals.
func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%.2f,%.2f)", noNegZero(x), noNegZero(y))
}

// noNegZero maps -0 to 0 so the first column never prints as -0.00.
func noNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// SetLabel writes label into every tspan that is a direct child of a text
// element below node, and returns how many were set.
func SetLabel(node *svgdoc.Element, label string) int {
	n := 0
	for _, text := range svgdoc.Descendants(node, func(e *svgdoc.Element) bool { return e.IsSVG("text") }) {
		for _, ts := range text.ChildElements() {
			if ts.IsSVG("tspan") {
				ts.SetText(label)
				n++
			}
		}
	}
	return n
}
