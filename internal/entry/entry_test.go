package entry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryOrderPreserved(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("title", "Bank")
	e.Set("password", "hunter2")
	e.Set("login", "alice")
	e.Set("custom", "value")
	e.Set("password", "hunter3") // overwrite keeps position

	assert.Equal(t, []string{"title", "password", "login", "custom"}, e.Keys())
	assert.Equal(t, "hunter3", e.Get("password"))

	e.Del("login")
	assert.Equal(t, []string{"title", "password", "custom"}, e.Keys())
	assert.False(t, e.Has("login"))
}

func TestSecretLayout(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("password", "s3cret")
	e.Set("login", "alice")
	e.Set("url", "example.com")
	e.Set("binary-0", "scan.pdf")

	want := "s3cret\nlogin: alice\nurl: example.com\nbinary-0: scan.pdf\n"
	assert.Equal(t, want, e.Secret())
}

func TestSecretEmptyPassword(t *testing.T) {
	t.Parallel()

	e := New()
	e.Set("password", "")
	e.Set("login", "bob")

	assert.Equal(t, "\nlogin: bob\n", e.Secret())
}

// The serialized form must be splittable back into the exact password
// and login values, including embedded whitespace.
func TestSecretRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		login    string
	}{
		{"plain", "hunter2", "alice"},
		{"embedded spaces", "  pass with  spaces ", "user name"},
		{"empty password", "", "alice"},
		{"colon in login", "pw", "user: with: colons"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New()
			e.Set("password", tt.password)
			e.Set("login", tt.login)

			data := e.Secret()
			lines := strings.Split(data, "\n")
			require.GreaterOrEqual(t, len(lines), 2)

			assert.Equal(t, tt.password, lines[0])

			key, value, found := strings.Cut(lines[1], ": ")
			require.True(t, found)
			assert.Equal(t, "login", key)
			assert.Equal(t, tt.login, value)
		})
	}
}
