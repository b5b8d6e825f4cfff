package managers

import (
	"os"
	"strings"

	"github.com/systmms/passimport/internal/entry"
)

// newPwsafe reads Password Safe XML exports. The canonical key set is
// extended with email, groups use dotted notation, and multi-line
// comments are folded with a per-file delimiter attribute.
func newPwsafe(opts Options) *xmlImporter {
	m := newXML("pwsafe", opts, FieldMap{
		"title": "title", "password": "password", "login": "username",
		"url": "url", "email": "email", "comments": "notes", "group": "group",
	})
	m.keyslist = []string{"title", "password", "login", "url", "email", "comments", "group"}
	m.expectTag = "passwordsafe"
	m.walk = func(m *xmlImporter, root *xmlNode) {
		delimiter := root.attr("delimiter")
		for _, xe := range root.findAll("entry") {
			e := m.getEntry(xe)
			e.Set("group", strings.ReplaceAll(e.Get("group"), ".", string(os.PathSeparator)))
			if delimiter != "" {
				e.Set("comments", strings.ReplaceAll(e.Get("comments"), delimiter, "\n"))
			}
			if m.opts.Extra {
				pwsafeHistory(e, xe)
			}
			m.batch.Append(e)
		}
	}
	return m
}

// pwsafeHistory preserves the password history as extra fields, one
// oldpassword<num> field per history entry.
func pwsafeHistory(e *entry.Entry, xe *xmlNode) {
	history := xe.find("pwhistory")
	if history == nil {
		return
	}
	entries := history.find("history_entries")
	if entries == nil {
		return
	}
	for _, h := range entries.findAll("history_entry") {
		key := "oldpassword" + h.attr("num")
		e.Set(key, h.text("changedx")+" "+h.text("oldpassword"))
	}
}
