package managers

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLoginData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Login Data")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE logins (
		origin_url TEXT,
		username_value TEXT,
		password_value TEXT,
		display_name TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO logins (origin_url, username_value, password_value, display_name) VALUES
		('https://example.com', 'john', 'secret', 'Example'),
		('https://twitter.com', 'lnqY', 'UuQHbg', 'Twitter')`)
	require.NoError(t, err)
	return path
}

func TestChromeSQLiteDatabase(t *testing.T) {
	t.Parallel()

	path := writeLoginData(t)
	f, err := os.Open(path)
	require.NoError(t, err)

	def, ok := Lookup("chromesqlite")
	require.True(t, ok)
	m := def.New(Options{Separator: "-"})
	err = m.Parse(context.Background(), &Source{Name: path, Path: path, Reader: f}, nil)
	f.Close()
	require.NoError(t, err)

	entries := m.Batch().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "Example", entries[0].Get("title"))
	assert.Equal(t, "secret", entries[0].Get("password"))
	assert.Equal(t, "john", entries[0].Get("login"))
	assert.Equal(t, "https://example.com", entries[0].Get("url"))
	assert.Equal(t, "Twitter", entries[1].Get("title"))
}

func TestChromeSQLiteCSVFallback(t *testing.T) {
	t.Parallel()

	data := "origin_url,username_value,password_value,display_name\n" +
		"https://example.com,john,secret,Example\n"
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	def, _ := Lookup("chromesqlite")
	m := def.New(Options{Separator: "-"})
	require.NoError(t, m.Parse(context.Background(), &Source{Name: path, Path: path, Reader: f}, nil))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "Example", entries[0].Get("title"))
	assert.Equal(t, "secret", entries[0].Get("password"))
}

func TestIsSQLite(t *testing.T) {
	t.Parallel()

	assert.True(t, isSQLite(writeLoginData(t)))

	csvPath := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b,c\n"), 0o600))
	assert.False(t, isSQLite(csvPath))
	assert.False(t, isSQLite(filepath.Join(t.TempDir(), "missing")))
}

func TestRegistryNames(t *testing.T) {
	t.Parallel()

	names := Names()
	assert.Len(t, names, 23)
	assert.Equal(t, Count(), len(names))
	// Sorted output, stable for list mode.
	assert.IsType(t, []string{}, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}

	for _, name := range []string{"1password", "bitwarden", "keepass", "lastpass", "networkmanager", "upm"} {
		def, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.URL)
		assert.NotNil(t, def.New(Options{Separator: "-"}))
	}

	_, ok := Lookup("unknown")
	assert.False(t, ok)
}
