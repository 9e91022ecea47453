package svgdoc

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;",
	)
)

// Encode writes doc to w as UTF-8, preceded by a fresh XML declaration. Any
// declaration carried over from parsing is dropped since the output encoding
// may differ from the source.
func Encode(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(xml.Header)
	for _, n := range doc.Children {
		if pi, ok := n.(*ProcInst); ok && pi.Target == "xml" {
			continue
		}
		writeNode(bw, n)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Marshal returns the encoded form of doc.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes doc to path. The data goes to a temporary file in the
// same directory first, so a failed write never leaves a truncated document.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

// WriteAtomic writes data to path via a temporary file and rename.
func WriteAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeNode(w *bufio.Writer, n Node) {
	switch t := n.(type) {
	case *Element:
		writeElement(w, t)
	case *Text:
		textEscaper.WriteString(w, t.Data)
	case *Comment:
		w.WriteString("<!--")
		w.WriteString(t.Data)
		w.WriteString("-->")
	case *ProcInst:
		w.WriteString("<?")
		w.WriteString(t.Target)
		if t.Inst != "" {
			w.WriteByte(' ')
			w.WriteString(t.Inst)
		}
		w.WriteString("?>")
	case *Directive:
		w.WriteString("<!")
		w.WriteString(t.Data)
		w.WriteByte('>')
	}
}

func writeElement(w *bufio.Writer, e *Element) {
	w.WriteByte('<')
	w.WriteString(e.Name())
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name())
		w.WriteString(`="`)
		attrEscaper.WriteString(w, a.Value)
		w.WriteByte('"')
	}
	if len(e.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteByte('>')
	for _, c := range e.Children {
		writeNode(w, c)
	}
	w.WriteString("</")
	w.WriteString(e.Name())
	w.WriteByte('>')
}
