// Package pipeline orchestrates one import run: parse the export,
// normalize and deduplicate the batch, then insert every entry into
// the store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/awnumar/memguard"

	pierrors "github.com/systmms/passimport/internal/errors"
	"github.com/systmms/passimport/internal/logging"
	"github.com/systmms/passimport/internal/managers"
	"github.com/systmms/passimport/internal/store"
)

// Options select the behavior of one run.
type Options struct {
	// Root is the store subfolder entries are imported under.
	Root string
	// Clean applies the character substitution table to path leaves.
	Clean bool
	// Convert replaces forbidden path characters.
	Convert bool
	// Force overwrites existing store entries.
	Force bool
	// Binaries also inserts extracted KeePass attachments.
	Binaries bool
}

// Result summarizes what one run inserted.
type Result struct {
	// Paths are the store paths inserted, in import order.
	Paths []string
	// Binaries are the attachment store paths inserted.
	Binaries []string
	// BinaryErrors are the attachment paths that failed.
	BinaryErrors []string
}

// Run parses src with the importer and inserts the resulting batch
// into st. Store-setup failures abort before any insert; per-entry
// insert failures are reported as warnings and skip only that entry.
func Run(ctx context.Context, logger *logging.Logger, imp managers.Importer,
	src *managers.Source, secret *memguard.Enclave, st store.Store, opts Options) (*Result, error) {

	if err := imp.Parse(ctx, src, secret); err != nil {
		var formatErr *pierrors.FormatError
		if errors.As(err, &formatErr) {
			return nil, pierrors.UserError{
				Message: fmt.Sprintf("%s is not a valid exported %s file", src.Name, formatErr.Manager),
				Details: formatErr.Reason,
				Err:     err,
			}
		}
		return nil, err
	}

	batch := imp.Batch()
	batch.Clean(opts.Clean, opts.Convert)

	if !st.Exists() {
		return nil, pierrors.UserError{
			Message:    "password store is not initialized",
			Suggestion: "Initialize it first with 'pass init <gpg-id>'",
			Details:    fmt.Sprintf("no .gpg-id under %s", st.Prefix()),
		}
	}
	if !st.ValidRecipients(ctx) {
		return nil, pierrors.UserError{
			Message:    "invalid store recipients",
			Suggestion: "Check that the .gpg-id keys are present in your GPG keyring",
			Details:    "imported entries would not be readable",
		}
	}

	result := &Result{}
	for _, e := range batch.Entries {
		path := filepath.Join(opts.Root, e.Path)
		data := e.Secret()
		logger.Verbose("Path", path)
		logger.Verbose("Data", strings.ReplaceAll(data, "\n", "\n           "))

		if err := st.Insert(ctx, path, data, opts.Force); err != nil {
			logger.Warning("Impossible to insert %s into the store: %s", path, err)
			continue
		}
		result.Paths = append(result.Paths, path)

		if opts.Binaries {
			inserted, err := st.InsertBinary(ctx, path, e.AttachDir, data, opts.Force)
			result.Binaries = append(result.Binaries, inserted...)
			if err != nil {
				result.BinaryErrors = append(result.BinaryErrors, path)
				logger.Warning("Impossible to insert attachments of %s: %s", path, err)
			}
		}
	}
	return result, nil
}
