package commands

import (
	"sort"

	"github.com/systmms/passimport/internal/config"
	"github.com/systmms/passimport/internal/logging"
	"github.com/systmms/passimport/internal/pipeline"
)

// report prints the final success summary: what was imported, from
// where, and which normalization settings were in effect.
func report(logger *logging.Logger, cfg *config.Config, result *pipeline.Result) {
	logger.Success("Importing passwords from %s", cfg.Manager)
	logger.Message("File: %s", cfg.File)
	if cfg.Root != "" {
		logger.Message("Root path: %s", cfg.Root)
	}
	logger.Message("Number of passwords imported: %d", len(result.Paths))
	if cfg.Convert {
		logger.Message("Forbidden chars converted")
		logger.Message("Path separator used: %s", cfg.Separator)
	}
	if cfg.Clean {
		logger.Message("Imported data cleaned")
	}
	if cfg.Extra {
		logger.Message("Extra data conserved")
	}

	if len(result.Paths) > 0 {
		logger.Message("Passwords imported:")
		paths := append([]string(nil), result.Paths...)
		sort.Strings(paths)
		for _, path := range paths {
			logger.Echo("%s", path)
		}
	}

	if cfg.Binaries {
		logger.Message("Number of attachments imported: %d", len(result.Binaries))
		for _, path := range result.Binaries {
			logger.Echo("%s", path)
		}
		if len(result.BinaryErrors) > 0 {
			logger.Message("Number of attachments not imported: %d", len(result.BinaryErrors))
			for _, path := range result.BinaryErrors {
				logger.Echo("%s", path)
			}
		}
	}
}
