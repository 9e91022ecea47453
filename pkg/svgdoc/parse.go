package svgdoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/tagsheet/pkg/errors"
)

// Parse reads an XML document from r.
//
// Documents declaring a non-UTF-8 encoding are transcoded on the fly. Tag
// balance is checked; namespace prefixes are kept verbatim and resolved
// against the in-scope xmlns declarations to fill [Element.URI]. Whitespace
// between top-level nodes is dropped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	p := parser{
		doc:    &Document{},
		scopes: []map[string]string{{"xml": XMLNamespace}},
	}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse document")
		}
		if err := p.token(tok, dec.InputOffset()); err != nil {
			return nil, err
		}
	}

	if n := len(p.stack); n > 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unclosed element <%s>", p.stack[n-1].Name())
	}
	if p.doc.Root() == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no root element")
	}
	return p.doc, nil
}

// ParseFile parses the document stored at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "template %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

type parser struct {
	doc    *Document
	stack  []*Element
	scopes []map[string]string
}

func (p *parser) token(tok xml.Token, offset int64) error {
	switch t := tok.(type) {
	case xml.StartElement:
		p.start(t)
	case xml.EndElement:
		n := len(p.stack)
		if n == 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "unexpected </%s> at offset %d", qualify(t.Name.Space, t.Name.Local), offset)
		}
		top := p.stack[n-1]
		if top.Prefix != t.Name.Space || top.Local != t.Name.Local {
			return errors.New(errors.ErrCodeInvalidDocument, "element <%s> closed by </%s> at offset %d",
				top.Name(), qualify(t.Name.Space, t.Name.Local), offset)
		}
		p.stack = p.stack[:n-1]
		p.scopes = p.scopes[:len(p.scopes)-1]
	case xml.CharData:
		if len(p.stack) == 0 {
			return nil
		}
		p.add(&Text{Data: string(t)})
	case xml.Comment:
		p.add(&Comment{Data: string(t)})
	case xml.ProcInst:
		p.add(&ProcInst{Target: t.Target, Inst: string(t.Inst)})
	case xml.Directive:
		p.add(&Directive{Data: string(t)})
	}
	return nil
}

func (p *parser) start(t xml.StartElement) {
	el := &Element{Prefix: t.Name.Space, Local: t.Name.Local}
	scope := make(map[string]string)
	if len(t.Attr) > 0 {
		el.Attrs = make([]Attr, 0, len(t.Attr))
	}
	for _, a := range t.Attr {
		el.Attrs = append(el.Attrs, Attr{Prefix: a.Name.Space, Local: a.Name.Local, Value: a.Value})
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope[""] = a.Value
		case a.Name.Space == "xmlns":
			scope[a.Name.Local] = a.Value
		}
	}
	p.scopes = append(p.scopes, scope)
	el.URI = p.resolve(el.Prefix)

	p.add(el)
	p.stack = append(p.stack, el)
}

// resolve looks prefix up from the innermost scope outwards. Unbound
// prefixes resolve to "".
func (p *parser) resolve(prefix string) string {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if uri, ok := p.scopes[i][prefix]; ok {
			return uri
		}
	}
	return ""
}

func (p *parser) add(n Node) {
	if k := len(p.stack); k > 0 {
		p.stack[k-1].Append(n)
		return
	}
	p.doc.Children = append(p.doc.Children, n)
}
