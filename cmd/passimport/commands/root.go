// Package commands builds the passimport command line.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/systmms/passimport/internal/attachments"
	"github.com/systmms/passimport/internal/config"
	pierrors "github.com/systmms/passimport/internal/errors"
	"github.com/systmms/passimport/internal/logging"
	"github.com/systmms/passimport/internal/managers"
	"github.com/systmms/passimport/internal/pipeline"
	"github.com/systmms/passimport/internal/store"
	"github.com/systmms/passimport/pkg/exec"
)

// keyringService is the OS keyring service name used by --keyring.
const keyringService = "passimport"

// NewRootCommand builds the root command. All behavior hangs off the
// single `passimport [flags] [manager] [file]` invocation.
func NewRootCommand(version string) *cobra.Command {
	var (
		root       string
		extra      bool
		binaries   string
		useKeyring bool
		clean      bool
		convert    bool
		separator  string
		force      bool
		list       bool
		quiet      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "passimport [flags] [manager] [file]",
		Short: "Import passwords from other password managers into pass",
		Long: `Import data from most password managers. Passwords are imported into
the existing default password store, so the password store must have
been initialised before with 'pass init'.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(verbose, quiet)

			if list {
				listManagers(logger)
				return nil
			}

			if len(args) == 0 {
				return pierrors.UserError{
					Message:    "password manager not present",
					Suggestion: "See 'passimport --help' or 'passimport --list'",
				}
			}
			manager := args[0]
			def, ok := managers.Lookup(manager)
			if !ok {
				return pierrors.UserError{
					Message:    fmt.Sprintf("%s is not a supported password manager", manager),
					Suggestion: "Run 'passimport --list' for the supported managers",
				}
			}

			file := ""
			if len(args) == 2 {
				file = args[1]
			}
			src, closeSrc, err := openSource(manager, file)
			if err != nil {
				return err
			}
			defer closeSrc()

			secret, err := resolveSecret(manager, binaries, useKeyring)
			if err != nil {
				return err
			}

			defaults, err := config.LoadDefaults(config.DefaultsPath())
			if err != nil {
				return pierrors.UserError{
					Message: "cannot read the defaults file",
					Details: config.DefaultsPath(),
					Err:     err,
				}
			}
			if !cmd.Flags().Changed("clean") {
				clean = clean || defaults.Clean
			}
			if !cmd.Flags().Changed("convert") {
				convert = convert || defaults.Convert
			}
			if !cmd.Flags().Changed("path") && root == "" {
				root = defaults.Root
			}
			cfg := &config.Config{
				Logger:    logger,
				Manager:   manager,
				File:      src.Name,
				Root:      root,
				Extra:     extra,
				Clean:     clean,
				Convert:   convert,
				Force:     force,
				Binaries:  secret != nil,
				Separator: config.ResolveSeparator(separator, os.Getenv("PASSWORD_STORE_DIR"), root, defaults),
			}

			opts := managers.Options{Extra: cfg.Extra, Separator: cfg.Separator}
			if secret != nil {
				opts.Extractor = attachments.NewKeepassXC(exec.DefaultExecutor())
			}
			imp := def.New(opts)

			st, err := store.NewPassStore()
			if err != nil {
				return err
			}

			stop := startSpinner(logger, "Importing passwords...")
			result, err := pipeline.Run(cmd.Context(), logger, imp, src, secret, st, pipeline.Options{
				Root:     cfg.Root,
				Clean:    cfg.Clean,
				Convert:  cfg.Convert,
				Force:    cfg.Force,
				Binaries: cfg.Binaries,
			})
			stop()
			if err != nil {
				return err
			}

			report(logger, cfg, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "path", "p", "", "Import the passwords to a specific subfolder")
	cmd.Flags().BoolVarP(&extra, "extra", "e", false, "Also import all the extra data present")
	cmd.Flags().StringVarP(&binaries, "binaries", "b", "", "Also import binary attachments; takes the KeePass file password")
	cmd.Flags().BoolVarP(&useKeyring, "keyring", "k", false, "Read the KeePass file password from the OS keyring")
	cmd.Flags().BoolVarP(&clean, "clean", "c", false, "Make the paths more command line friendly")
	cmd.Flags().BoolVarP(&convert, "convert", "C", false, "Convert the invalid characters present in the paths")
	cmd.Flags().StringVarP(&separator, "separator", "s", "", "Character replacing the path separator (default \"-\")")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing paths")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the supported password managers")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Be quiet")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Be verbose")
	cmd.Flags().BoolP("version", "V", false, "Show the program version and exit")
	cmd.MarkFlagsMutuallyExclusive("binaries", "keyring")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

// openSource resolves the manager/file arguments into a Source.
// NetworkManager reads a directory (or its system default) instead of
// a stream; everything else falls back to stdin.
func openSource(manager, file string) (*managers.Source, func(), error) {
	noop := func() {}

	if manager == "networkmanager" {
		if file == "" {
			return &managers.Source{Name: "NetworkManager", IsDir: true}, noop, nil
		}
		if info, err := os.Stat(file); err == nil && info.IsDir() {
			return &managers.Source{Name: file, Path: file, IsDir: true}, noop, nil
		}
	}

	if file == "" {
		return &managers.Source{Name: "read from stdin", Reader: os.Stdin}, noop, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, noop, pierrors.UserError{
			Message:    fmt.Sprintf("%s is not a file", file),
			Suggestion: "Check the path of the export file",
			Err:        err,
		}
	}
	src := &managers.Source{Name: file, Path: file, Reader: f}
	return src, func() { f.Close() }, nil
}

// resolveSecret turns the --binaries / --keyring flags into a sealed
// master password, or nil when attachments were not requested.
func resolveSecret(manager, password string, useKeyring bool) (*memguard.Enclave, error) {
	if password != "" {
		return memguard.NewEnclave([]byte(password)), nil
	}
	if !useKeyring {
		return nil, nil
	}
	stored, err := keyring.Get(keyringService, manager)
	if err != nil {
		return nil, pierrors.UserError{
			Message:    "no KeePass password in the OS keyring",
			Suggestion: fmt.Sprintf("Store it with: secret-tool or keyring set %s %s", keyringService, manager),
			Err:        err,
		}
	}
	return memguard.NewEnclave([]byte(stored)), nil
}

// startSpinner shows progress during the insert loop. Verbose runs
// print per-entry lines instead and quiet runs print nothing, so the
// spinner only appears between the two.
func startSpinner(logger *logging.Logger, message string) func() {
	if logger.IsQuiet() || logger.IsVerbose() {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}

// listManagers prints the registry. Quiet mode emits bare names for
// scripting.
func listManagers(logger *logging.Logger) {
	if logger.IsQuiet() {
		for _, name := range managers.Names() {
			fmt.Println(name)
		}
		return
	}
	logger.Success("The %d supported password managers are:", managers.Count())
	for _, name := range managers.Names() {
		def, _ := managers.Lookup(name)
		logger.Message("%s - %s", name, def.URL)
	}
}
