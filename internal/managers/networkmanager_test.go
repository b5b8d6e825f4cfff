package managers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nmWifiProfile = `[connection]
id=HomeWifi
type=wifi

[wifi]
ssid=HomeWifi
mode=infrastructure

[wifi-security]
key-mgmt=wpa-psk
psk=grond531
`

const nmEapProfile = `[connection]
id=CorpWifi
type=wifi

[wifi]
ssid=CorpWifi

[802-1x]
eap=peap
identity=john
password=5Staple
`

func TestNetworkManagerPSK(t *testing.T) {
	t.Parallel()

	def, ok := Lookup("networkmanager")
	require.True(t, ok)
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, nmWifiProfile))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "HomeWifi", entries[0].Get("title"))
	assert.Equal(t, "grond531", entries[0].Get("password"))
	assert.Equal(t, "HomeWifi", entries[0].Get("ssid"))
	assert.False(t, entries[0].Has("login"))
}

func TestNetworkManagerEAP(t *testing.T) {
	t.Parallel()

	def, _ := Lookup("networkmanager")
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, nmEapProfile))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "CorpWifi", entries[0].Get("title"))
	assert.Equal(t, "5Staple", entries[0].Get("password"))
	assert.Equal(t, "john", entries[0].Get("login"))
}

func TestNetworkManagerDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home"), []byte(nmWifiProfile), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corp"), []byte(nmEapProfile), 0o600))
	// A profile without a secret is skipped.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "open"),
		[]byte("[connection]\nid=CoffeeShop\n[wifi]\nssid=CoffeeShop\n"), 0o600))

	def, _ := Lookup("networkmanager")
	m := def.New(Options{Separator: "-"})
	err := m.Parse(context.Background(), &Source{Name: dir, Path: dir, IsDir: true}, nil)
	require.NoError(t, err)

	entries := m.Batch().Entries
	require.Len(t, entries, 2)
	titles := []string{entries[0].Get("title"), entries[1].Get("title")}
	assert.ElementsMatch(t, []string{"HomeWifi", "CorpWifi"}, titles)
}

func TestNetworkManagerExtra(t *testing.T) {
	t.Parallel()

	def, _ := Lookup("networkmanager")
	m := def.New(Options{Separator: "-", Extra: true})
	require.NoError(t, parseString(t, m, nmWifiProfile))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "wpa-psk", entries[0].Get("key-mgmt"))
	assert.Equal(t, "infrastructure", entries[0].Get("mode"))
}
