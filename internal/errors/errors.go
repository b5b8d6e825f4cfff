// Package errors defines the error taxonomy of passimport.
//
// Parse-time and store-setup failures are fatal and abort the run;
// per-entry store failures are recoverable and only skip the entry.
package errors

import (
	"fmt"
	"strings"
)

// FormatError reports that a source file's structural signature does
// not match the schema exported by the requested password manager.
// No partial records are ever emitted alongside a FormatError.
type FormatError struct {
	Manager string
	Reason  string
}

func (e *FormatError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("not an exported %s file: %s", e.Manager, e.Reason)
	}
	return fmt.Sprintf("not an exported %s file", e.Manager)
}

// DuplicateEntryError is returned by the store when the insert target
// already exists and force was not given.
type DuplicateEntryError struct {
	Path string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("an entry already exists for %s", e.Path)
}

// StoreError wraps a failed call into the external password store.
type StoreError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("pass %s failed", e.Op)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user with
// helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}
