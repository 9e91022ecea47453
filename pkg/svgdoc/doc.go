// Package svgdoc provides a small mutable XML tree for SVG documents.
//
// The standard library's encoding/xml resolves namespace prefixes into URIs
// and cannot write them back, which breaks editor documents that rely on
// prefixed attributes (inkscape:label, sodipodi:docname). svgdoc reads raw
// tokens instead, so every prefix, attribute order, comment and processing
// instruction survives a parse/encode round trip. Each element additionally
// records the namespace URI its prefix resolved to, which is what lookups such
// as [Element.IsSVG] match against.
//
// # Node Model
//
// A document is a sequence of [Node] values. [Element] is the only node kind
// with attributes and children; [Text], [Comment], [ProcInst] and [Directive]
// are leaves. Every node can produce an independent deep copy with Clone, so
// a subtree can be replicated without aliasing its source.
//
// # Usage
//
//	doc, err := svgdoc.ParseFile("template.svg")
//	if err != nil {
//	    return err
//	}
//	svgdoc.Walk(doc.Root(), func(e *svgdoc.Element) bool {
//	    e.RemoveAttr("id")
//	    return true
//	})
//	err = svgdoc.WriteFile("output.svg", doc)
package svgdoc

// Namespace URIs recognised by the package.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)
