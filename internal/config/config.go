// Package config holds the runtime options of one import run and the
// optional on-disk defaults they fall back to.
package config

import (
	"os"
	"path/filepath"

	"github.com/systmms/passimport/internal/logging"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// defaultSeparator replaces characters that cannot appear in a store
// path when nothing else is configured.
const defaultSeparator = "-"

// Config holds the runtime configuration of one import run.
type Config struct {
	Logger *logging.Logger

	// Manager is the registry name of the source password manager.
	Manager string
	// File is the export to read, empty for stdin.
	File string

	// Root is the subfolder of the store entries are imported under.
	Root string
	// Extra keeps manager-native fields beyond the canonical set.
	Extra bool
	// Clean applies the character substitution table to path leaves.
	Clean bool
	// Convert replaces forbidden path characters with Separator.
	Convert bool
	// Separator is the replacement character for Convert and the
	// numeric-suffix separator.
	Separator string
	// Force overwrites existing store entries.
	Force bool
	// Binaries also imports KeePass attachments.
	Binaries bool
}

// Defaults is the optional user-level defaults file
// ($XDG_CONFIG_HOME/passimport/config.yml).
type Defaults struct {
	Separator string `yaml:"separator,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"`
	Convert   bool   `yaml:"convert,omitempty"`
	Root      string `yaml:"root,omitempty"`
}

// DefaultsPath returns the location of the defaults file, honoring
// XDG_CONFIG_HOME.
func DefaultsPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "passimport", "config.yml")
}

// LoadDefaults reads the defaults file at path. A missing file yields
// zero defaults; a malformed one is an error.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, err
	}
	return d, nil
}

// importFileSeparator reads the per-subfolder .import file
// (`[convert] separator=…`) under the store root being imported into.
// Absence or malformation yields "".
func importFileSeparator(storeDir, root string) string {
	path := filepath.Join(storeDir, root, ".import")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return ""
	}
	section, err := cfg.GetSection("convert")
	if err != nil {
		return ""
	}
	return section.Key("separator").String()
}

// ResolveSeparator picks the effective separator: the command-line
// flag wins, then the store's .import file, then the defaults file,
// then "-".
func ResolveSeparator(flag string, storeDir, root string, defaults Defaults) string {
	if flag != "" {
		return flag
	}
	if s := importFileSeparator(storeDir, root); s != "" {
		return s
	}
	if defaults.Separator != "" {
		return defaults.Separator
	}
	return defaultSeparator
}
