package managers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"
)

// pifMarker matches the separator lines between 1PIF record
// fragments, including the line break that follows them.
var pifMarker = regexp.MustCompile(`(?m)^\*\*\*.*\*\*\*\s+`)

// pifIgnore lists the top-level bookkeeping keys that never become
// extra fields.
var pifIgnore = map[string]bool{
	"keyID": true, "typeName": true, "uuid": true,
	"openContents": true, "folderUuid": true, "URLs": true,
}

// pifObject is a JSON object that remembers its key order, because
// unconsumed keys become extra fields in encounter order.
type pifObject struct {
	keys []string
	vals map[string]interface{}
}

func newPIFObject() *pifObject {
	return &pifObject{vals: make(map[string]interface{})}
}

func (o *pifObject) set(key string, value interface{}) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = value
}

func (o *pifObject) get(key string) interface{} {
	return o.vals[key]
}

func (o *pifObject) str(key string) string {
	s, _ := o.vals[key].(string)
	return s
}

// take removes and returns a key, preserving the order of the
// remaining ones.
func (o *pifObject) take(key string) (interface{}, bool) {
	v, ok := o.vals[key]
	if !ok {
		return nil, false
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// decodePIFValue reads one JSON value from the decoder, preserving
// object key order.
func decodePIFValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := newPIFObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, err := decodePIFValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, value)
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, err
		}
		return obj, nil
	case '[':
		var arr []interface{}
		for dec.More() {
			value, err := decodePIFValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil { // closing bracket
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// pifString renders a decoded JSON value the way it should appear in
// a secret line.
func pifString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return fmt.Sprintf("%.0f", t)
		}
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	case []interface{}:
		return pifJSON(t)
	case *pifObject:
		// Nested structures are kept as compact JSON.
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			b.Write(kb)
			b.WriteByte(':')
			b.WriteString(pifJSON(t.vals[k]))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return fmt.Sprint(t)
	}
}

func pifJSON(v interface{}) string {
	switch t := v.(type) {
	case *pifObject:
		return pifString(t)
	case []interface{}:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(pifJSON(item))
		}
		b.WriteByte(']')
		return b.String()
	default:
		out, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(out)
	}
}

// pifFolder is one folder record, resolved into its flattened group
// path in a second pass.
type pifFolder struct {
	group    string
	parent   string
	resolved bool
}

// pifImporter reads 1Password 4 "1PIF" exports: a sequence of
// marker-delimited JSON object fragments that must be stitched back
// into a well-formed array before decoding.
type pifImporter struct {
	opts  Options
	keys  FieldMap
	batch *entry.Batch
}

func newPIF(opts Options, keys FieldMap) *pifImporter {
	return &pifImporter{
		opts:  opts,
		keys:  keys,
		batch: entry.NewBatch(opts.Separator),
	}
}

func (m *pifImporter) Batch() *entry.Batch {
	return m.batch
}

// reconstitute strips the marker lines and joins the remaining
// fragments into one parseable JSON array.
func reconstitute(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cleaned := pifMarker.ReplaceAllString(string(data), "")
	joined := strings.Join(strings.Split(cleaned, "\n"), ",")
	joined = strings.TrimRight(joined, ",")
	return "[" + joined + "]"
}

func (m *pifImporter) Parse(_ context.Context, src *Source, _ *memguard.Enclave) error {
	data, err := io.ReadAll(src.Reader)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(strings.NewReader(reconstitute(data)))
	decoded, err := decodePIFValue(dec)
	if err != nil {
		return &pierrors.FormatError{Manager: "1password4pif", Reason: "invalid 1PIF content"}
	}
	items, ok := decoded.([]interface{})
	if !ok {
		return &pierrors.FormatError{Manager: "1password4pif", Reason: "invalid 1PIF content"}
	}

	folders := make(map[string]*pifFolder)
	for _, raw := range items {
		item, ok := raw.(*pifObject)
		if !ok {
			continue
		}
		switch item.str("typeName") {
		case "system.folder.Regular":
			folders[item.str("uuid")] = &pifFolder{
				group:  item.str("title"),
				parent: item.str("folderUuid"),
			}
		case "webforms.WebForm":
			m.batch.Append(m.getEntry(item))
		}
	}

	m.resolveGroups(folders)
	return nil
}

// getEntry maps one webform record onto a canonical entry. Each
// mapped key is looked up in the top-level object first, then the
// secureContents object, then the named field list; the first match
// wins and every probed source is consumed so the extra-field pass
// never double-counts a value.
func (m *pifImporter) getEntry(item *pifObject) *entry.Entry {
	e := entry.New()

	scontent := newPIFObject()
	if sc, ok := item.take("secureContents"); ok {
		if obj, ok := sc.(*pifObject); ok {
			scontent = obj
		}
	}
	var fields []*pifObject
	if fv, ok := scontent.take("fields"); ok {
		if arr, ok := fv.([]interface{}); ok {
			for _, f := range arr {
				if obj, ok := f.(*pifObject); ok {
					fields = append(fields, obj)
				}
			}
		}
	}

	for _, key := range entry.CanonicalKeys {
		native, ok := m.keys[key]
		if !ok {
			continue
		}
		value, found := item.take(native)
		if sv, ok := scontent.take(native); ok && !found {
			value, found = sv, true
		}
		if !found {
			for i, f := range fields {
				if f.str("name") == native {
					value, found = f.get("value"), true
					fields = append(fields[:i], fields[i+1:]...)
					break
				}
			}
		}
		if found && value != nil {
			e.Set(key, pifString(value))
		}
	}

	if m.opts.Extra {
		for _, f := range fields {
			e.Set(f.str("name"), pifString(f.get("value")))
		}
		merged := item
		for _, k := range scontent.keys {
			merged.set(k, scontent.vals[k])
		}
		for _, k := range merged.keys {
			if pifIgnore[k] {
				continue
			}
			e.Set(k, pifString(merged.vals[k]))
		}
	}

	return e
}

// resolveGroups flattens the parent-linked folder records and maps
// every entry's folder uuid through them.
func (m *pifImporter) resolveGroups(folders map[string]*pifFolder) {
	var resolve func(id string, seen map[string]bool) string
	resolve = func(id string, seen map[string]bool) string {
		f, ok := folders[id]
		if !ok || seen[id] {
			return ""
		}
		if f.resolved {
			return f.group
		}
		seen[id] = true
		f.group = filepath.Join(resolve(f.parent, seen), f.group)
		f.resolved = true
		return f.group
	}
	for id := range folders {
		resolve(id, make(map[string]bool))
	}

	for _, e := range m.batch.Entries {
		group := ""
		if f, ok := folders[e.Get("group")]; ok {
			group = f.group
		}
		e.Set("group", group)
	}
}
