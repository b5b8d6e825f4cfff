package managers

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"
)

// enpassHeader is the literal first line of an Enpass CSV export.
const enpassHeader = `"Title","Field","Value","Field","Value",.........,"Note"`

// enpassImporter reads the Enpass "wide" dialect: every row is
// title, then a variable number of interleaved field-name/value
// pairs, then a trailing note. Fields are located by positional
// scanning, not by named columns.
type enpassImporter struct {
	opts  Options
	keys  FieldMap
	batch *entry.Batch
}

func newEnpass(opts Options, keys FieldMap) *enpassImporter {
	return &enpassImporter{
		opts:  opts,
		keys:  keys,
		batch: entry.NewBatch(opts.Separator),
	}
}

func (m *enpassImporter) Batch() *entry.Batch {
	return m.batch
}

func (m *enpassImporter) Parse(_ context.Context, src *Source, _ *memguard.Enclave) error {
	br := bufio.NewReader(src.Reader)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return &pierrors.FormatError{Manager: "enpass", Reason: "unreadable header line"}
	}
	if len(line) < len(enpassHeader) || line[:len(enpassHeader)] != enpassHeader {
		return &pierrors.FormatError{Manager: "enpass", Reason: "unexpected header line"}
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			m.batch = entry.NewBatch(m.opts.Separator)
			return &pierrors.FormatError{Manager: "enpass", Reason: err.Error()}
		}
		if len(row) < 2 {
			continue
		}

		e := entry.New()
		e.Set("title", row[0])
		note := row[len(row)-1]
		fields := append([]string(nil), row[1:len(row)-1]...)

		for _, key := range entry.CanonicalKeys {
			native, ok := m.keys[key]
			if !ok {
				continue
			}
			for i, v := range fields {
				if v != native {
					continue
				}
				if i+1 < len(fields) {
					e.Set(key, fields[i+1])
					fields = append(fields[:i], fields[i+2:]...)
				}
				break
			}
		}
		e.Set("comments", note)

		if m.opts.Extra {
			for i := 0; i+2 <= len(fields); i += 2 {
				e.Set(fields[i], fields[i+1])
			}
		}

		m.batch.Append(e)
	}
	return nil
}
