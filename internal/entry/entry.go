// Package entry holds the canonical credential record, the string
// normalization transforms, and the path deduplication algorithm that
// every password-manager importer feeds into.
package entry

import "strings"

// CanonicalKeys is the fixed cross-manager key set, in serialization
// order. Individual managers may narrow or extend it (pwsafe adds
// email, networkmanager replaces url with ssid).
var CanonicalKeys = []string{"title", "password", "login", "url", "comments", "group", "binary"}

// Entry is one credential record as an ordered set of key/value
// fields. Field order is significant: it determines the line order of
// the serialized secret and the position of preserved extra fields.
type Entry struct {
	keys   []string
	values map[string]string

	// Path is the final store path, assigned by Batch.Clean.
	Path string

	// AttachDir is the subdirectory of the attachment temp dir that
	// extraction wrote this entry's files to. Empty when no
	// attachments were extracted.
	AttachDir string

	// prefix and leaf keep the path-derivation inputs so the
	// group-collision pass can re-derive paths after title and group
	// have been consumed.
	prefix string
	leaf   string
}

// New returns an empty entry.
func New() *Entry {
	return &Entry{values: make(map[string]string)}
}

// Set inserts or overwrites a field. An overwrite keeps the field's
// original position.
func (e *Entry) Set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns a field value, or the empty string when absent.
func (e *Entry) Get(key string) string {
	return e.values[key]
}

// Has reports whether a field is present.
func (e *Entry) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// Del removes a field. Removing an absent field is a no-op.
func (e *Entry) Del(key string) {
	if _, ok := e.values[key]; !ok {
		return
	}
	delete(e.values, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in record order.
func (e *Entry) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of fields.
func (e *Entry) Len() int {
	return len(e.keys)
}

// Secret renders the entry in the password-store layout: the password
// value alone on the first line (possibly empty), then one
// "key: value" line per remaining field in record order.
func (e *Entry) Secret() string {
	var b strings.Builder
	b.WriteString(e.values["password"])
	b.WriteByte('\n')
	for _, k := range e.keys {
		if k == "password" {
			continue
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.values[k])
		b.WriteByte('\n')
	}
	return b.String()
}

// dropEmpty removes every empty field except password, which may
// legitimately be empty and is always serialized.
func (e *Entry) dropEmpty() {
	kept := e.keys[:0]
	for _, k := range e.keys {
		if e.values[k] == "" && k != "password" {
			delete(e.values, k)
			continue
		}
		kept = append(kept, k)
	}
	e.keys = kept
}
