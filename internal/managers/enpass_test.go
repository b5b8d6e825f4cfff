package managers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "github.com/systmms/passimport/internal/errors"
)

func TestEnpassParse(t *testing.T) {
	t.Parallel()

	data := enpassHeader + "\n" +
		"\"Example\",\"Username\",\"john\",\"Password\",\"d4;1Sw\",\"URL\",\"https://example.com\",\"a note\"\n" +
		"\"Bank\",\"Password\",\"pin1234\",\"\"\n"

	def, ok := Lookup("enpass")
	require.True(t, ok)
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "Example", entries[0].Get("title"))
	assert.Equal(t, "john", entries[0].Get("login"))
	assert.Equal(t, "d4;1Sw", entries[0].Get("password"))
	assert.Equal(t, "https://example.com", entries[0].Get("url"))
	assert.Equal(t, "a note", entries[0].Get("comments"))
	assert.Equal(t, "Bank", entries[1].Get("title"))
	assert.Equal(t, "pin1234", entries[1].Get("password"))
}

func TestEnpassExtraPairs(t *testing.T) {
	t.Parallel()

	data := enpassHeader + "\n" +
		"\"Example\",\"Password\",\"secret\",\"TOTP\",\"JBSWY3DP\",\"\"\n"

	def, _ := Lookup("enpass")
	m := def.New(Options{Separator: "-", Extra: true})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "JBSWY3DP", entries[0].Get("TOTP"))
}

func TestEnpassWrongHeader(t *testing.T) {
	t.Parallel()

	def, _ := Lookup("enpass")
	m := def.New(Options{Separator: "-"})
	err := parseString(t, m, "name,password,username\nExample,secret,user\n")

	var formatErr *pierrors.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "enpass", formatErr.Manager)
	assert.Empty(t, m.Batch().Entries)
}
