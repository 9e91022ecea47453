package grid

import "github.com/matzehuels/tagsheet/pkg/errors"

// Layout describes the canvas and the tag grid drawn on it. Sizes are in user
// units of the template document.
type Layout struct {
	CanvasWidth  float64
	CanvasHeight float64
	Columns      int
	Rows         int
	TagWidth     float64
	TagHeight    float64
}

// Validate checks that the grid has at least one column and one row.
// Tags that do not fit the canvas are allowed; see [Spacing.Degenerate].
func (l Layout) Validate() error {
	if l.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "columns must be at least 1, got %d", l.Columns)
	}
	if l.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "rows must be at least 1, got %d", l.Rows)
	}
	return nil
}

// Cells returns the number of tags the grid can hold.
func (l Layout) Cells() int { return l.Columns * l.Rows }

// Fits reports whether all columns and rows fit on the canvas without
// overlapping.
func (l Layout) Fits() bool {
	return float64(l.Columns)*l.TagWidth <= l.CanvasWidth &&
		float64(l.Rows)*l.TagHeight <= l.CanvasHeight
}

// Spacing is the gap between adjacent tags.
type Spacing struct {
	Horizontal float64
	Vertical   float64
}

// Degenerate reports whether either gap is negative, meaning tags overlap.
func (s Spacing) Degenerate() bool {
	return s.Horizontal < 0 || s.Vertical < 0
}

// ComputeSpacing returns the gaps that spread the tags evenly across the
// canvas. A single column or row has no gap in that direction.
func ComputeSpacing(l Layout) (Spacing, error) {
	if err := l.Validate(); err != nil {
		return Spacing{}, err
	}
	return Spacing{
		Horizontal: gap(l.CanvasWidth, l.TagWidth, l.Columns),
		Vertical:   gap(l.CanvasHeight, l.TagHeight, l.Rows),
	}, nil
}

func gap(canvas, tag float64, n int) float64 {
	if n == 1 {
		return 0
	}
	return (canvas - float64(n)*tag) / float64(n-1)
}
