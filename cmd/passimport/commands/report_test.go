package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/passimport/internal/config"
	"github.com/systmms/passimport/internal/logging"
	"github.com/systmms/passimport/internal/pipeline"
)

func TestReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriters(false, false, &buf, &buf)

	cfg := &config.Config{
		Logger:    logger,
		Manager:   "lastpass",
		File:      "export.csv",
		Root:      "imported",
		Clean:     true,
		Convert:   true,
		Extra:     true,
		Separator: "_",
	}
	result := &pipeline.Result{Paths: []string{"imported/web/Twitter", "imported/Example"}}

	report(logger, cfg, result)

	out := buf.String()
	assert.Contains(t, out, "Importing passwords from lastpass")
	assert.Contains(t, out, "File: export.csv")
	assert.Contains(t, out, "Root path: imported")
	assert.Contains(t, out, "Number of passwords imported: 2")
	assert.Contains(t, out, "Forbidden chars converted")
	assert.Contains(t, out, "Path separator used: _")
	assert.Contains(t, out, "Imported data cleaned")
	assert.Contains(t, out, "Extra data conserved")
	// Paths are listed sorted.
	assert.Less(t,
		bytes.Index(buf.Bytes(), []byte("imported/Example")),
		bytes.Index(buf.Bytes(), []byte("imported/web/Twitter")))
}

func TestReportPercentInPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriters(false, false, &buf, &buf)

	cfg := &config.Config{Manager: "lastpass", File: "export.csv", Separator: "-"}
	result := &pipeline.Result{Paths: []string{"web/100%s discount"}}

	report(logger, cfg, result)

	// Entry titles may contain format verbs; they are data, not
	// format strings.
	assert.Contains(t, buf.String(), "web/100%s discount")
}

func TestReportBinaries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriters(false, false, &buf, &buf)

	cfg := &config.Config{Manager: "keepass", File: "vault.xml", Binaries: true, Separator: "-"}
	result := &pipeline.Result{
		Paths:        []string{"Root/server key"},
		Binaries:     []string{"Root/server key_attach/id_rsa"},
		BinaryErrors: []string{"Root/broken"},
	}

	report(logger, cfg, result)

	out := buf.String()
	assert.Contains(t, out, "Number of attachments imported: 1")
	assert.Contains(t, out, "Root/server key_attach/id_rsa")
	assert.Contains(t, out, "Number of attachments not imported: 1")
	assert.Contains(t, out, "Root/broken")
}
