// Package attachments exports file attachments from encrypted KeePass
// databases alongside the regular entry import.
package attachments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awnumar/memguard"

	"github.com/systmms/passimport/pkg/exec"
)

// TempDir is the working directory attachments are exported into
// before insertion into the password store.
const TempDir = "tmp_attachment_files"

// Extractor pulls a named attachment out of an encrypted database into
// destDir and returns the path of the written file.
type Extractor interface {
	Extract(ctx context.Context, database, entryPath, name, destDir string, secret *memguard.Enclave) (string, error)
}

// KeepassXC extracts attachments by driving keepassxc-cli, feeding the
// master password on stdin so it never hits the process arguments.
type KeepassXC struct {
	executor exec.CommandExecutor
}

// NewKeepassXC returns an extractor backed by the given executor.
func NewKeepassXC(executor exec.CommandExecutor) *KeepassXC {
	if executor == nil {
		executor = exec.DefaultExecutor()
	}
	return &KeepassXC{executor: executor}
}

// Extract runs `keepassxc-cli attachment-export` for one attachment.
// The destination directory is created if needed.
func (k *KeepassXC) Extract(ctx context.Context, database, entryPath, name, destDir string, secret *memguard.Enclave) (string, error) {
	if secret == nil {
		return "", fmt.Errorf("no database password available")
	}
	buf, err := secret.Open()
	if err != nil {
		return "", fmt.Errorf("opening database password: %w", err)
	}
	defer buf.Destroy()

	if err := os.MkdirAll(destDir, 0o700); err != nil {
		return "", fmt.Errorf("creating attachment directory: %w", err)
	}

	dest := filepath.Join(destDir, name)
	cmd := exec.Command{
		Name:  "keepassxc-cli",
		Args:  []string{"attachment-export", database, entryPath, name, dest},
		Stdin: buf.String() + "\n",
	}
	_, stderr, err := k.executor.Execute(ctx, cmd)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("exporting attachment %s from %s: %s", name, entryPath, msg)
	}
	return dest, nil
}
