package managers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pierrors "github.com/systmms/passimport/internal/errors"
)

func TestKeepassXNestedGroups(t *testing.T) {
	t.Parallel()

	data := `<database>
  <group>
    <title>Internet</title>
    <group>
      <title>Social</title>
      <entry>
        <title>Twitter</title>
        <username>lnqY</username>
        <password>UuQHbg</password>
        <url>https://twitter.com</url>
        <comment>main account</comment>
      </entry>
    </group>
    <entry>
      <title>Example</title>
      <username>john</username>
      <password>secret</password>
      <url>https://example.com</url>
      <comment></comment>
    </entry>
  </group>
</database>`

	def, ok := Lookup("keepassx")
	require.True(t, ok)
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "Twitter", entries[0].Get("title"))
	assert.Equal(t, "Internet/Social", entries[0].Get("group"))
	assert.Equal(t, "main account", entries[0].Get("comments"))
	assert.Equal(t, "Example", entries[1].Get("title"))
	assert.Equal(t, "Internet", entries[1].Get("group"))
}

func TestKeepassKeyValuePairs(t *testing.T) {
	t.Parallel()

	data := `<KeePassFile>
  <Root>
    <Group>
      <Name>Root</Name>
      <Group>
        <Name>Servers</Name>
        <Entry>
          <String><Key>Title</Key><Value>proxy</Value></String>
          <String><Key>UserName</Key><Value>admin</Value></String>
          <String><Key>Password</Key><Value>d4;1Sw</Value></String>
          <String><Key>URL</Key><Value>https://proxy.example.com</Value></String>
          <String><Key>Notes</Key><Value></Value></String>
          <Binary><Key>id_rsa</Key><Value Ref="2"/></Binary>
        </Entry>
      </Group>
    </Group>
  </Root>
</KeePassFile>`

	def, _ := Lookup("keepass")
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "proxy", e.Get("title"))
	assert.Equal(t, "admin", e.Get("login"))
	assert.Equal(t, "d4;1Sw", e.Get("password"))
	assert.Equal(t, "Root/Servers", e.Get("group"))
	assert.Equal(t, "id_rsa", e.Get("binary-2"))
}

func TestXMLRootMismatch(t *testing.T) {
	t.Parallel()

	// A Revelation export fed to the KeePassX importer is rejected
	// before any traversal happens.
	data := `<revelationdata><entry type="folder"><name>X</name></entry></revelationdata>`

	def, _ := Lookup("keepassx")
	m := def.New(Options{Separator: "-"})
	err := parseString(t, m, data)

	var formatErr *pierrors.FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "keepassx", formatErr.Manager)
	assert.Empty(t, m.Batch().Entries)
}

func TestXMLInvalidDocument(t *testing.T) {
	t.Parallel()

	def, _ := Lookup("fpm")
	m := def.New(Options{Separator: "-"})
	err := parseString(t, m, "name,password\nExample,secret\n")

	var formatErr *pierrors.FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestPwsafeDelimiterAndGroups(t *testing.T) {
	t.Parallel()

	data := `<passwordsafe delimiter="|">
  <entry>
    <title>Example</title>
    <username>john</username>
    <password>secret</password>
    <url>https://example.com</url>
    <email>john@example.com</email>
    <notes>line one|line two</notes>
    <group>web.prod</group>
  </entry>
</passwordsafe>`

	def, _ := Lookup("pwsafe")
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "line one\nline two", e.Get("comments"))
	assert.Equal(t, "web/prod", e.Get("group"))
	assert.Equal(t, "john@example.com", e.Get("email"))
}

func TestPwsafePasswordHistory(t *testing.T) {
	t.Parallel()

	data := `<passwordsafe>
  <entry>
    <title>Example</title>
    <password>current</password>
    <pwhistory>
      <history_entries>
        <history_entry num="1">
          <changedx>2019-01-01</changedx>
          <oldpassword>old1</oldpassword>
        </history_entry>
      </history_entries>
    </pwhistory>
  </entry>
</passwordsafe>`

	def, _ := Lookup("pwsafe")

	withExtra := def.New(Options{Separator: "-", Extra: true})
	require.NoError(t, parseString(t, withExtra, data))
	require.Len(t, withExtra.Batch().Entries, 1)
	assert.Equal(t, "2019-01-01 old1", withExtra.Batch().Entries[0].Get("oldpassword1"))

	without := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, without, data))
	assert.False(t, without.Batch().Entries[0].Has("oldpassword1"))
}

func TestRevelationFoldersAndFields(t *testing.T) {
	t.Parallel()

	data := `<revelationdata>
  <entry type="folder">
    <name>Internet</name>
    <entry type="website">
      <name>Example</name>
      <notes>a note</notes>
      <field id="generic-hostname">https://example.com</field>
      <field id="generic-username">john</field>
      <field id="generic-password">secret</field>
    </entry>
  </entry>
  <entry type="generic">
    <name>Top</name>
    <field id="generic-password">p</field>
  </entry>
</revelationdata>`

	def, _ := Lookup("revelation")
	m := def.New(Options{Separator: "-"})
	require.NoError(t, parseString(t, m, data))

	entries := m.Batch().Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "Example", entries[0].Get("title"))
	assert.Equal(t, "Internet", entries[0].Get("group"))
	assert.Equal(t, "https://example.com", entries[0].Get("url"))
	assert.Equal(t, "john", entries[0].Get("login"))
	assert.Equal(t, "secret", entries[0].Get("password"))
	assert.Equal(t, "Top", entries[1].Get("title"))
	assert.Equal(t, "", entries[1].Get("group"))
}

func TestFigaroPM(t *testing.T) {
	t.Parallel()

	data := `<FPM full_version="00.58.00">
  <KeyInfo salt="x" vstring="y"/>
  <PasswordList>
    <PasswordItem>
      <title>Example</title>
      <user>john</user>
      <password>secret</password>
      <url>https://example.com</url>
      <notes>a note</notes>
      <category>Web</category>
    </PasswordItem>
  </PasswordList>
</FPM>`

	for _, name := range []string{"fpm", "kedpm"} {
		def, ok := Lookup(name)
		require.True(t, ok)
		m := def.New(Options{Separator: "-"})
		require.NoError(t, parseString(t, m, data))

		entries := m.Batch().Entries
		require.Len(t, entries, 1)
		assert.Equal(t, "Example", entries[0].Get("title"))
		assert.Equal(t, "Web", entries[0].Get("group"))
		assert.Equal(t, "john", entries[0].Get("login"))
	}
}
