// Package store adapts the external pass(1) password store. It only
// knows how to check the store's health and insert entries; reading
// and listing stay with pass itself.
package store

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"github.com/systmms/passimport/internal/attachments"
	pierrors "github.com/systmms/passimport/internal/errors"
	"github.com/systmms/passimport/pkg/exec"
)

// Store is the insertion surface of an encrypted password store.
type Store interface {
	// Prefix returns the store's root directory.
	Prefix() string
	// Exists reports whether the store is initialized.
	Exists() bool
	// ValidRecipients reports whether the GPG keyring can encrypt to
	// every store recipient and decrypt with at least one.
	ValidRecipients(ctx context.Context) bool
	// Insert writes one multiline secret at path. Without force an
	// existing entry yields a *errors.DuplicateEntryError.
	Insert(ctx context.Context, path, data string, force bool) error
	// InsertBinary inserts the extracted attachment files referenced
	// by the binary-* lines of data under <path>_attach/, reading them
	// from the attachDir subdirectory of the temp attachment dir. It
	// returns the store paths that were inserted.
	InsertBinary(ctx context.Context, path, attachDir, data string, force bool) ([]string, error)
}

// envAliases maps pass environment variables onto the alternate names
// pass itself accepts them under.
var envAliases = []struct{ target, source string }{
	{"PASSWORD_STORE_GIT", "GIT_DIR"},
	{"PASSWORD_STORE_X_SELECTION", "X_SELECTION"},
	{"PASSWORD_STORE_CLIP_TIME", "CLIP_TIME"},
	{"PASSWORD_STORE_GENERATED_LENGTH", "GENERATED_LENGTH"},
	{"PASSWORD_STORE_CHARACTER_SET", "CHARACTER_SET"},
	{"PASSWORD_STORE_CHARACTER_SET_NO_SYMBOLS", "CHARACTER_SET_NO_SYMBOLS"},
	{"PASSWORD_STORE_EXTENSIONS_DIR", "EXTENSIONS"},
}

// PassStore drives the pass CLI through a mockable executor.
type PassStore struct {
	prefix   string
	gpg      string
	env      []string
	executor exec.CommandExecutor
}

// NewPassStore builds a store rooted at $PASSWORD_STORE_DIR.
func NewPassStore() (*PassStore, error) {
	return NewPassStoreWithExecutor(exec.DefaultExecutor())
}

// NewPassStoreWithExecutor is NewPassStore with command execution
// injected, primarily for tests.
func NewPassStoreWithExecutor(executor exec.CommandExecutor) (*PassStore, error) {
	prefix, ok := os.LookupEnv("PASSWORD_STORE_DIR")
	if !ok || prefix == "" {
		return nil, pierrors.UserError{
			Message:    "pass prefix unknown",
			Suggestion: "Set PASSWORD_STORE_DIR to the location of your password store",
			Details:    "The password store location must be explicit so entries land in the right store",
		}
	}

	gpg := "gpg"
	if _, err := osexec.LookPath("gpg2"); err == nil {
		gpg = "gpg2"
	}

	env := os.Environ()
	for _, alias := range envAliases {
		if v, ok := os.LookupEnv(alias.source); ok {
			env = append(env, alias.target+"="+v)
		}
	}

	return &PassStore{
		prefix:   prefix,
		gpg:      gpg,
		env:      env,
		executor: executor,
	}, nil
}

func (s *PassStore) Prefix() string {
	return s.prefix
}

// Exists reports whether the store has been initialized with pass init.
func (s *PassStore) Exists() bool {
	info, err := os.Stat(filepath.Join(s.prefix, ".gpg-id"))
	return err == nil && !info.IsDir()
}

// ValidRecipients checks the GPG keyring against the store's .gpg-id
// file: every recipient needs a public key, and at least one needs a
// private key, or nothing inserted now could ever be read back.
func (s *PassStore) ValidRecipients(ctx context.Context) bool {
	raw, err := os.ReadFile(filepath.Join(s.prefix, ".gpg-id"))
	if err != nil {
		return false
	}
	var gpgIDs []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			gpgIDs = append(gpgIDs, line)
		}
	}
	if len(gpgIDs) == 0 {
		return false
	}

	for _, id := range gpgIDs {
		if _, _, err := s.gpgList(ctx, "--list-keys", id); err != nil {
			return false
		}
	}
	for _, id := range gpgIDs {
		if _, _, err := s.gpgList(ctx, "--list-secret-keys", id); err == nil {
			return true
		}
	}
	return false
}

func (s *PassStore) gpgList(ctx context.Context, op, id string) ([]byte, []byte, error) {
	return s.executor.Execute(ctx, exec.Command{
		Name: s.gpg,
		Args: []string{"--with-colons", "--batch", op, id},
		Env:  s.env,
	})
}

// Insert writes one entry with pass insert --multiline, the data fed
// on stdin so the secret never appears in process arguments.
func (s *PassStore) Insert(ctx context.Context, path, data string, force bool) error {
	if !force {
		if _, err := os.Stat(filepath.Join(s.prefix, path+".gpg")); err == nil {
			return &pierrors.DuplicateEntryError{Path: path}
		}
	}

	args := []string{"insert", "--multiline"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, stderr, err := s.executor.Execute(ctx, exec.Command{
		Name:  "pass",
		Args:  args,
		Stdin: data,
		Env:   s.env,
	})
	if err != nil {
		return &pierrors.StoreError{Op: "insert", Stderr: string(stderr), Err: err}
	}
	return nil
}

// InsertBinary stores the attachments referenced by data. Each
// binary-* line names an attachment file that extraction left in the
// attachDir subdirectory of the temp attachment dir. An empty
// attachDir falls back to the entry's leaf name.
func (s *PassStore) InsertBinary(ctx context.Context, path, attachDir, data string, force bool) ([]string, error) {
	var filenames []string
	for _, line := range strings.Split(data, "\n") {
		if !strings.HasPrefix(line, "binary") {
			continue
		}
		if _, name, ok := strings.Cut(line, ": "); ok {
			filenames = append(filenames, name)
		}
	}
	if len(filenames) == 0 {
		return nil, nil
	}

	if attachDir == "" {
		attachDir = path[strings.LastIndex(path, "/")+1:]
	}
	var inserted []string
	for _, filename := range filenames {
		target := path + "_attach/" + filename
		if !force {
			if _, err := os.Stat(filepath.Join(s.prefix, target+".gpg")); err == nil {
				return inserted, &pierrors.DuplicateEntryError{Path: target}
			}
		}
		content, err := os.ReadFile(filepath.Join(attachments.TempDir, attachDir, filename))
		if err != nil {
			return inserted, &pierrors.StoreError{Op: "insert", Err: err}
		}
		if err := s.Insert(ctx, target, string(content), force); err != nil {
			return inserted, err
		}
		inserted = append(inserted, target)
	}
	return inserted, nil
}
