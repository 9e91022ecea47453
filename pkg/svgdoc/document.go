package svgdoc

// Document is a parsed XML document: the root element plus any top-level
// comments, processing instructions and directives around it.
type Document struct {
	Children []Node
}

// Root returns the document element, or nil if there is none.
func (d *Document) Root() *Element {
	for _, c := range d.Children {
		if e, ok := c.(*Element); ok {
			return e
		}
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Children: make([]Node, len(d.Children))}
	for i, c := range d.Children {
		out.Children[i] = c.Clone()
	}
	return out
}
