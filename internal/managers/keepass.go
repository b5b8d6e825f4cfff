package managers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/attachments"
	"github.com/systmms/passimport/internal/entry"
)

// keepassWalker descends a group/entry tree, accumulating the folder
// path one nesting level at a time. Group nodes extend the prefix,
// entry nodes terminate it.
type keepassWalker struct {
	groupTag string
	entryTag string
	getPath  func(el *xmlNode, path string) string
}

func (w *keepassWalker) walk(m *xmlImporter, el *xmlNode, path string) {
	path = w.getPath(el, path)
	for _, g := range el.findAll(w.groupTag) {
		w.walk(m, g, path)
	}
	for _, xe := range el.findAll(w.entryTag) {
		e := m.getEntry(xe)
		e.Set("title", w.getPath(xe, ""))
		e.Set("group", path)
		m.batch.Append(e)
	}
}

// keepassxPath derives the path contribution of a KeePassX node. The
// database root contributes nothing; untitled groups become
// "untitled".
func keepassxPath(el *xmlNode, path string) string {
	if el.XMLName.Local == "database" {
		return ""
	}
	title := el.text("title")
	if title == "" {
		title = "untitled"
	}
	return filepath.Join(path, title)
}

// keepassPath derives the path contribution of a KDBX-XML node.
func keepassPath(el *xmlNode, path string) string {
	var title string
	switch el.XMLName.Local {
	case "Entry":
		title = keepassValue(el, "Title")
	case "Group":
		title = el.text("Name")
	}
	return filepath.Join(path, title)
}

// keepassValue resolves a field in the schema-less KDBX layout by
// scanning sibling Key/Value element pairs for a matching key name.
func keepassValue(el *xmlNode, key string) string {
	value := ""
	for i := range el.Children {
		c := &el.Children[i]
		for _, k := range c.findAll("Key") {
			if k.Chardata == key {
				value = c.text("Value")
				break
			}
		}
	}
	return value
}

func newKeepassX(name string, opts Options, keys FieldMap) *xmlImporter {
	m := newXML(name, opts, keys)
	m.expectTag = "database"
	w := &keepassWalker{groupTag: "group", entryTag: "entry", getPath: keepassxPath}
	m.walk = func(m *xmlImporter, root *xmlNode) {
		w.walk(m, root, "")
	}
	return m
}

// keepassImporter wraps the KDBX-XML importer with best-effort
// attachment extraction through the external keepassxc-cli tool when
// a master password was supplied.
type keepassImporter struct {
	*xmlImporter
}

func newKeepass(opts Options) *keepassImporter {
	m := newXML("keepass", opts, FieldMap{
		"title": "Title", "password": "Password", "login": "UserName",
		"url": "URL", "comments": "Notes", "binary": "Binary",
	})
	m.expectTag = "KeePassFile"
	m.getRoot = func(root *xmlNode) *xmlNode {
		r := root.find("Root")
		if r == nil {
			return nil
		}
		return r.find("Group")
	}
	m.getValue = keepassValue
	w := &keepassWalker{groupTag: "Group", entryTag: "Entry", getPath: keepassPath}
	m.walk = func(m *xmlImporter, root *xmlNode) {
		w.walk(m, root, "")
	}
	return &keepassImporter{xmlImporter: m}
}

func (m *keepassImporter) Parse(ctx context.Context, src *Source, secret *memguard.Enclave) error {
	if err := m.xmlImporter.Parse(ctx, src, nil); err != nil {
		return err
	}
	if secret == nil || m.opts.Extractor == nil || src.Path == "" {
		return nil
	}

	// The XML export sits next to the encrypted database it was
	// dumped from.
	database := strings.TrimSuffix(src.Path, filepath.Ext(src.Path)) + ".kdbx"
	for _, e := range m.batch.Entries {
		for _, key := range e.Keys() {
			if !strings.HasPrefix(key, "binary-") {
				continue
			}
			name := e.Get(key)
			entryPath := filepath.Join(e.Get("group"), e.Get("title"))
			// The entry remembers where its files went so the store
			// can find them after path cleaning and deduplication.
			e.AttachDir = entry.CleanCmdline(e.Get("title"))
			destDir := filepath.Join(attachments.TempDir, e.AttachDir)
			// Extraction is best effort: a failed attachment never
			// blocks the entry import.
			_, _ = m.opts.Extractor.Extract(ctx, database, entryPath, name, destDir, secret)
		}
	}
	return nil
}
