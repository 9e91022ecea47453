package svgdoc

import "strings"

// Kind identifies the concrete type of a [Node].
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindProcInst
	KindDirective
)

// Node is a single item in a document tree.
type Node interface {
	Kind() Kind
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() Node
}

// Text is character data. Entities are already decoded.
type Text struct {
	Data string
}

func (t *Text) Kind() Kind  { return KindText }
func (t *Text) Clone() Node { return &Text{Data: t.Data} }

// Comment is the body of an XML comment, without the delimiters.
type Comment struct {
	Data string
}

func (c *Comment) Kind() Kind  { return KindComment }
func (c *Comment) Clone() Node { return &Comment{Data: c.Data} }

// ProcInst is a processing instruction such as <?xml-stylesheet ...?>.
type ProcInst struct {
	Target string
	Inst   string
}

func (p *ProcInst) Kind() Kind  { return KindProcInst }
func (p *ProcInst) Clone() Node { return &ProcInst{Target: p.Target, Inst: p.Inst} }

// Directive is a <!...> declaration such as a DOCTYPE.
type Directive struct {
	Data string
}

func (d *Directive) Kind() Kind  { return KindDirective }
func (d *Directive) Clone() Node { return &Directive{Data: d.Data} }

// Attr is a single attribute. Prefix is the literal prefix from the source
// ("inkscape" in inkscape:label), not a resolved URI.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// Name returns the qualified attribute name.
func (a Attr) Name() string { return qualify(a.Prefix, a.Local) }

// Element is an XML element. Attribute names are unique within Attrs; the
// setters below maintain that.
type Element struct {
	Prefix   string
	Local    string
	URI      string // namespace the prefix resolved to at parse time
	Attrs    []Attr
	Children []Node
}

// NewElement creates an element in the given namespace.
func NewElement(prefix, local, uri string) *Element {
	return &Element{Prefix: prefix, Local: local, URI: uri}
}

func (e *Element) Kind() Kind { return KindElement }

// Clone returns a deep copy of e and its whole subtree.
func (e *Element) Clone() Node { return e.DeepCopy() }

// DeepCopy is Clone with a concrete return type.
func (e *Element) DeepCopy() *Element {
	out := &Element{Prefix: e.Prefix, Local: e.Local, URI: e.URI}
	if len(e.Attrs) > 0 {
		out.Attrs = make([]Attr, len(e.Attrs))
		copy(out.Attrs, e.Attrs)
	}
	if len(e.Children) > 0 {
		out.Children = make([]Node, len(e.Children))
		for i, c := range e.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Name returns the qualified element name.
func (e *Element) Name() string { return qualify(e.Prefix, e.Local) }

// IsSVG reports whether e is the SVG element with the given local name.
// Elements with no namespace at all are accepted too, since hand-written
// templates often omit the xmlns declaration.
func (e *Element) IsSVG(local string) bool {
	return e.Local == local && (e.URI == SVGNamespace || e.URI == "")
}

// Attr returns the value of the attribute with the given qualified name.
func (e *Element) Attr(name string) (string, bool) {
	if i := e.attrIndex(name); i >= 0 {
		return e.Attrs[i].Value, true
	}
	return "", false
}

// SetAttr sets an attribute, overwriting it in place if present and
// appending it otherwise.
func (e *Element) SetAttr(name, value string) {
	if i := e.attrIndex(name); i >= 0 {
		e.Attrs[i].Value = value
		return
	}
	prefix, local := split(name)
	e.Attrs = append(e.Attrs, Attr{Prefix: prefix, Local: local, Value: value})
}

// RemoveAttr deletes an attribute and reports whether it was present.
func (e *Element) RemoveAttr(name string) bool {
	i := e.attrIndex(name)
	if i < 0 {
		return false
	}
	e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
	return true
}

func (e *Element) attrIndex(name string) int {
	prefix, local := split(name)
	for i, a := range e.Attrs {
		if a.Local == local && a.Prefix == prefix {
			return i
		}
	}
	return -1
}

// ChildElements returns the direct element children in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Append adds nodes after the last child.
func (e *Element) Append(nodes ...Node) {
	e.Children = append(e.Children, nodes...)
}

// IndexOf returns the position of n among the direct children, comparing by
// identity, or -1.
func (e *Element) IndexOf(n Node) int {
	for i, c := range e.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Remove detaches the direct child n and reports whether it was found.
func (e *Element) Remove(n Node) bool {
	i := e.IndexOf(n)
	if i < 0 {
		return false
	}
	e.Children = append(e.Children[:i], e.Children[i+1:]...)
	return true
}

// Text returns the character data before the first non-text child.
func (e *Element) Text() string {
	var b strings.Builder
	for _, c := range e.Children {
		t, ok := c.(*Text)
		if !ok {
			break
		}
		b.WriteString(t.Data)
	}
	return b.String()
}

// SetText replaces the character data before the first non-text child.
// Child elements and the text between them are left alone.
func (e *Element) SetText(s string) {
	k := 0
	for k < len(e.Children) && e.Children[k].Kind() == KindText {
		k++
	}
	rest := e.Children[k:]
	children := make([]Node, 0, len(rest)+1)
	if s != "" {
		children = append(children, &Text{Data: s})
	}
	e.Children = append(children, rest...)
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func split(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
