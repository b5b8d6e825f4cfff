package managers

import (
	"context"
	"encoding/xml"
	"io"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"
)

// xmlNode is a generic in-memory XML element. The XML dialects differ
// too much for per-manager structs, so traversal works on a plain
// tree.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Chardata string     `xml:",chardata"`
	Children []xmlNode  `xml:",any"`
}

// find returns the first direct child with the given tag, or nil.
func (n *xmlNode) find(tag string) *xmlNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == tag {
			return &n.Children[i]
		}
	}
	return nil
}

// findAll returns every direct child with the given tag.
func (n *xmlNode) findAll(tag string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		if n.Children[i].XMLName.Local == tag {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// text returns the character data of the first child with the given
// tag, or the empty string.
func (n *xmlNode) text(tag string) string {
	if c := n.find(tag); c != nil {
		return c.Chardata
	}
	return ""
}

// attr returns the value of the named attribute, or the empty string.
func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// xmlImporter is the shared machinery of the XML-tree managers. Each
// manager supplies its expected root tag, an optional root locator, a
// field-value lookup strategy, and a tree walk that emits entries.
type xmlImporter struct {
	name      string
	opts      Options
	keys      FieldMap
	keyslist  []string
	expectTag string
	getRoot   func(*xmlNode) *xmlNode
	getValue  func(*xmlNode, string) string
	walk      func(m *xmlImporter, root *xmlNode)

	batch *entry.Batch
}

func newXML(name string, opts Options, keys FieldMap) *xmlImporter {
	m := &xmlImporter{
		name:     name,
		opts:     opts,
		keys:     keys,
		keyslist: entry.CanonicalKeys,
		batch:    entry.NewBatch(opts.Separator),
	}
	m.getValue = func(el *xmlNode, native string) string {
		return el.text(native)
	}
	return m
}

func (m *xmlImporter) Batch() *entry.Batch {
	return m.batch
}

func (m *xmlImporter) Parse(_ context.Context, src *Source, _ *memguard.Enclave) error {
	data, err := io.ReadAll(src.Reader)
	if err != nil {
		return err
	}

	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return &pierrors.FormatError{Manager: m.name, Reason: "invalid XML"}
	}
	// The root tag is validated before any node traversal occurs.
	if root.XMLName.Local != m.expectTag {
		return &pierrors.FormatError{Manager: m.name, Reason: "unexpected root tag <" + root.XMLName.Local + ">"}
	}

	start := &root
	if m.getRoot != nil {
		if start = m.getRoot(&root); start == nil {
			return &pierrors.FormatError{Manager: m.name, Reason: "missing expected container element"}
		}
	}

	m.walk(m, start)
	return nil
}

// getEntry maps one entry element onto a canonical record and records
// any Binary child elements as binary-<ref> attachment references.
func (m *xmlImporter) getEntry(el *xmlNode) *entry.Entry {
	e := entry.New()
	for _, key := range m.keyslist {
		native, ok := m.keys[key]
		if !ok || native == "" {
			continue
		}
		e.Set(key, m.getValue(el, native))
	}
	for _, bin := range el.findAll("Binary") {
		if len(bin.Children) < 2 {
			continue
		}
		name := bin.Children[0].Chardata
		ref := bin.Children[1].attr("Ref")
		e.Set("binary-"+ref, name)
	}
	return e
}
