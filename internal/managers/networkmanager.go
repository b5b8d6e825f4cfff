package managers

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"
	"gopkg.in/ini.v1"
)

// nmSystemDir is where NetworkManager keeps its connection profiles.
const nmSystemDir = "/etc/NetworkManager/system-connections"

// nmImporter reads NetworkManager connection profiles: one INI file
// per entry, addressed by dotted section.option keys. The secret's
// location depends on which authentication schema the file uses, so
// the password key is resolved per file.
type nmImporter struct {
	opts  Options
	batch *entry.Batch
}

func newNetworkManager(opts Options) *nmImporter {
	return &nmImporter{
		opts:  opts,
		batch: entry.NewBatch(opts.Separator),
	}
}

func (m *nmImporter) Batch() *entry.Batch {
	return m.batch
}

var nmKeyslist = []string{"title", "password", "login", "ssid"}

func (m *nmImporter) Parse(_ context.Context, src *Source, _ *memguard.Enclave) error {
	if src != nil && src.Reader != nil && !src.IsDir {
		data, err := io.ReadAll(src.Reader)
		if err != nil {
			return err
		}
		return m.parseProfile(data)
	}

	dir := nmSystemDir
	if src != nil && src.Path != "" {
		dir = src.Path
	}
	files, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		return err
	}
	for _, file := range files {
		cfg, err := ini.Load(file)
		if err != nil {
			return &pierrors.FormatError{Manager: "networkmanager", Reason: err.Error()}
		}
		m.addProfile(cfg)
	}
	return nil
}

func (m *nmImporter) parseProfile(data []byte) error {
	cfg, err := ini.Load(data)
	if err != nil {
		return &pierrors.FormatError{Manager: "networkmanager", Reason: err.Error()}
	}
	m.addProfile(cfg)
	return nil
}

func (m *nmImporter) addProfile(cfg *ini.File) {
	keys := FieldMap{
		"title":    "connection.id",
		"password": "wifi-security.psk",
		"login":    "802-1x.identity",
		"ssid":     "wifi.ssid",
	}
	if _, err := cfg.GetSection("802-1x"); err == nil {
		keys["password"] = "802-1x.password"
	}

	e := entry.New()
	for _, key := range nmKeyslist {
		section, option, _ := strings.Cut(keys[key], ".")
		sec, err := cfg.GetSection(section)
		if err != nil || !sec.HasKey(option) {
			continue
		}
		e.Set(key, sec.Key(option).String())
	}

	if m.opts.Extra {
		for _, section := range cfg.Sections() {
			if section.Name() == ini.DefaultSection {
				continue
			}
			for _, k := range section.Keys() {
				e.Set(k.Name(), k.Value())
			}
		}
	}

	// Profiles without a stored secret are not importable.
	if e.Has("password") {
		m.batch.Append(e)
	}
}
