// Package managers implements the per-password-manager import
// formats. Every manager is a thin variant of one of four parsing
// strategies (CSV, XML tree, 1PIF JSON fragments, INI sections) plus
// an immutable field mapping table; variants are composed, never
// subclassed.
package managers

import (
	"context"
	"io"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/attachments"
	"github.com/systmms/passimport/internal/entry"
)

// Source describes one export to import: a stream, a file, or a
// directory of files for directory-based formats.
type Source struct {
	// Name is the display name used in messages ("read from stdin"
	// or the file path).
	Name string
	// Path is the filesystem path, empty when reading a pure stream.
	Path string
	// Reader is the export content. Nil only for directory sources.
	Reader io.Reader
	// IsDir marks a directory source (networkmanager).
	IsDir bool
}

// Options configure an importer for one run.
type Options struct {
	// Extra preserves manager-native fields that are not part of the
	// canonical key set.
	Extra bool
	// Separator is the operator-chosen replacement character, also
	// used for numeric suffixing.
	Separator string
	// Extractor exports KeePass attachments through an external tool
	// when a master password is supplied. Optional.
	Extractor attachments.Extractor
}

// Importer parses one export format into an ordered batch of
// canonical entries.
type Importer interface {
	// Parse populates the batch from the source. The optional secret
	// is the master password used by attachment extraction for
	// KeePass-family databases. A structural mismatch yields a
	// *errors.FormatError and an empty batch.
	Parse(ctx context.Context, src *Source, secret *memguard.Enclave) error

	// Batch returns the parsed entries in file order.
	Batch() *entry.Batch
}

// FieldMap translates canonical keys to a manager's native field
// names. It is immutable per manager.
type FieldMap map[string]string
