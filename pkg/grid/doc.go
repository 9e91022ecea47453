// Package grid lays out copies of a template group on a regular grid.
//
// A sheet is described by a [Layout]: the canvas size, the number of columns
// and rows, and the size of one tag. [ComputeSpacing] distributes the space
// left over by the tags evenly between them, so the first column touches the
// left edge of the canvas and the last column touches the right edge (and the
// same for rows).
//
// # Generation
//
// [Engine.Generate] walks the labels in order and assigns label i to column
// i mod Columns and row i div Columns. For each placeable label it deep-copies
// the template group, sets a translate transform for the cell, removes every
// id attribute from the copy and writes the label into each tspan that sits
// directly inside a text element. Labels that fall below the last row are
// reported in [Result.Skipped] rather than failing the run.
//
// The template itself is never modified. [Assemble] then replaces the
// container's groups with the generated tags.
//
// # Example
//
//	engine, err := grid.NewEngine(grid.Layout{
//	    CanvasWidth: 700, CanvasHeight: 400,
//	    Columns: 4, Rows: 10,
//	    TagWidth: 135.94, TagHeight: 29.82,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	container, tmpl, err := grid.LocateTemplate(doc.Root(), grid.DefaultContainerID)
//	if err != nil {
//	    return err
//	}
//	res, err := engine.Generate(tmpl, names)
//	if err != nil {
//	    return err
//	}
//	return grid.Assemble(container, tmpl, res.Tags)
package grid
