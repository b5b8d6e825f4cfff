package managers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"
)

// csvImporter reads flat comma-separated exports. The first row is
// the header unless the dialect is headerless, in which case
// fieldnames supplies the fixed column names.
type csvImporter struct {
	name       string
	opts       Options
	keys       FieldMap
	fieldnames []string
	keyslist   []string
	// after runs once over the parsed batch, for dialects that need
	// a post-processing pass (gorilla's folder notation).
	after func(*entry.Batch)

	batch *entry.Batch
}

func newCSV(name string, opts Options, keys FieldMap) *csvImporter {
	return &csvImporter{
		name:     name,
		opts:     opts,
		keys:     keys,
		keyslist: entry.CanonicalKeys,
		batch:    entry.NewBatch(opts.Separator),
	}
}

func (m *csvImporter) Batch() *entry.Batch {
	return m.batch
}

func (m *csvImporter) Parse(_ context.Context, src *Source, _ *memguard.Enclave) error {
	r := csv.NewReader(src.Reader)
	r.FieldsPerRecord = -1

	header := m.fieldnames
	if header == nil {
		rec, err := r.Read()
		if err != nil {
			return &pierrors.FormatError{Manager: m.name, Reason: "missing header row"}
		}
		header = rec
	}
	if err := m.checkFormat(header); err != nil {
		return err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			m.batch = entry.NewBatch(m.opts.Separator)
			return &pierrors.FormatError{Manager: m.name, Reason: err.Error()}
		}

		e := entry.New()
		consumed := make(map[int]bool, len(m.keys))
		for _, key := range m.keyslist {
			native, ok := m.keys[key]
			if !ok {
				continue
			}
			i, ok := index[native]
			if !ok || i >= len(row) {
				continue
			}
			e.Set(key, row[i])
			consumed[i] = true
		}

		if m.opts.Extra {
			for i, name := range header {
				if consumed[i] || i >= len(row) {
					continue
				}
				e.Set(name, row[i])
			}
		}

		m.batch.Append(e)
	}

	if m.after != nil {
		m.after(m.batch)
	}
	return nil
}

// checkFormat validates that every native column the manager maps
// onto is present, so a wrong export is rejected before any record is
// emitted.
func (m *csvImporter) checkFormat(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, native := range m.keys {
		if !have[native] {
			return &pierrors.FormatError{
				Manager: m.name,
				Reason:  fmt.Sprintf("missing column %q", native),
			}
		}
	}
	return nil
}

// gorillaGroups rewrites Password Gorilla's dot-separated folder
// notation: an unescaped dot separates folders, `\.` is a literal dot.
func gorillaGroups(b *entry.Batch) {
	for _, e := range b.Entries {
		if !e.Has("group") {
			continue
		}
		e.Set("group", gorillaGroup(e.Get("group")))
	}
}

func gorillaGroup(g string) string {
	var sb strings.Builder
	for i := 0; i < len(g); i++ {
		c := g[i]
		switch {
		case c == '\\' && i+1 < len(g) && g[i+1] == '.':
			sb.WriteByte('.')
			i++
		case c == '.':
			sb.WriteRune(os.PathSeparator)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
