package svgdoc

// Walk visits n and every element below it in pre-order. Returning false from
// fn skips the children of the element just visited.
func Walk(n Node, fn func(*Element) bool) {
	e, ok := n.(*Element)
	if !ok {
		return
	}
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		Walk(c, fn)
	}
}

// Descendants returns every element below e, in document order, for which
// match returns true. e itself is never included.
func Descendants(e *Element, match func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.Children {
		Walk(c, func(el *Element) bool {
			if match(el) {
				out = append(out, el)
			}
			return true
		})
	}
	return out
}

// StripAttr removes the named attribute from n and all of its descendants
// and returns how many were removed.
func StripAttr(n Node, name string) int {
	removed := 0
	Walk(n, func(e *Element) bool {
		if e.RemoveAttr(name) {
			removed++
		}
		return true
	})
	return removed
}
