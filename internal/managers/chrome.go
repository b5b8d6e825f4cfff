package managers

import (
	"context"
	"database/sql"
	"os"

	"github.com/awnumar/memguard"
	"github.com/systmms/passimport/internal/entry"
	pierrors "github.com/systmms/passimport/internal/errors"

	// Chrome stores credentials in an SQLite "Login Data" database.
	_ "github.com/mattn/go-sqlite3"
)

// sqliteMagic is the 16-byte header of every SQLite 3 database file.
const sqliteMagic = "SQLite format 3\x00"

// chromeSQLiteImporter accepts either a raw Chrome "Login Data"
// SQLite database or the CSV dump of it.
type chromeSQLiteImporter struct {
	csv *csvImporter
}

func newChromeSQLite(opts Options) *chromeSQLiteImporter {
	return &chromeSQLiteImporter{
		csv: newCSV("chromesqlite", opts, FieldMap{
			"title": "display_name", "password": "password_value",
			"login": "username_value", "url": "origin_url",
		}),
	}
}

func (m *chromeSQLiteImporter) Batch() *entry.Batch {
	return m.csv.batch
}

func (m *chromeSQLiteImporter) Parse(ctx context.Context, src *Source, secret *memguard.Enclave) error {
	if src.Path != "" && isSQLite(src.Path) {
		return m.parseDatabase(ctx, src.Path)
	}
	return m.csv.Parse(ctx, src, secret)
}

func isSQLite(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, len(sqliteMagic))
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header) == sqliteMagic
}

func (m *chromeSQLiteImporter) parseDatabase(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return &pierrors.FormatError{Manager: "chromesqlite", Reason: err.Error()}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT display_name, password_value, username_value, origin_url
		 FROM logins ORDER BY rowid`)
	if err != nil {
		return &pierrors.FormatError{Manager: "chromesqlite", Reason: "missing logins table"}
	}
	defer rows.Close()

	for rows.Next() {
		var title, password, login, url sql.NullString
		if err := rows.Scan(&title, &password, &login, &url); err != nil {
			m.csv.batch = entry.NewBatch(m.csv.opts.Separator)
			return &pierrors.FormatError{Manager: "chromesqlite", Reason: err.Error()}
		}
		e := entry.New()
		e.Set("title", title.String)
		e.Set("password", password.String)
		e.Set("login", login.String)
		e.Set("url", url.String)
		m.csv.batch.Append(e)
	}
	return rows.Err()
}
