package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"

	"github.com/systmms/passimport/cmd/passimport/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks command-line mistakes so they exit 2 while
// recoverable runtime failures exit 1.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run())
}

func run() int {
	// Wipe every enclave before the process exits, whatever the path
	// out was.
	defer memguard.Purge()

	rootCmd := commands.NewRootCommand(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: err}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			return 2
		}
		return 1
	}
	return 0
}
