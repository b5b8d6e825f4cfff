package entry

import (
	"os"
	"strings"
)

// replacement is one literal substitution. Substitution tables are
// slices, not maps: they are applied as an ordered left-to-right
// sequence and changing the order changes the output.
type replacement struct {
	old string
	new string
}

var protocols = []replacement{
	{"http://", ""},
	{"https://", ""},
}

// cleans makes a string command-line friendly.
var cleans = []replacement{
	{" ", "_"},
	{"&", "and"},
	{"@", "At"},
	{"'", ""},
	{"[", ""},
	{"]", ""},
	{"/", "-"},
}

// invalids are the characters that cannot appear in a store path
// component.
var invalids = []string{"<", ">", ":", `"`, "/", `\`, "|", "?", "*", "\x00"}

func applyAll(table []replacement, s string) string {
	for _, r := range table {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return s
}

// StripProtocol removes a literal http:// or https:// prefix anywhere
// in the string.
func StripProtocol(s string) string {
	return applyAll(protocols, s)
}

// CleanGroup replaces invalid characters in a group value. The native
// folder separators '/' and '\' become the platform path separator;
// every other invalid character becomes the configured separator.
func CleanGroup(s, separator string) string {
	table := make([]replacement, 0, len(invalids))
	for _, c := range invalids {
		repl := separator
		if c == "/" || c == `\` {
			repl = string(os.PathSeparator)
		}
		table = append(table, replacement{c, repl})
	}
	return applyAll(table, s)
}

// Convert replaces every invalid character by the configured
// separator.
func Convert(s, separator string) string {
	table := make([]replacement, 0, len(invalids))
	for _, c := range invalids {
		table = append(table, replacement{c, separator})
	}
	return applyAll(table, s)
}

// CleanCmdline trims surrounding whitespace and applies the
// command-line friendly substitution table.
func CleanCmdline(s string) string {
	return applyAll(cleans, strings.TrimSpace(s))
}
