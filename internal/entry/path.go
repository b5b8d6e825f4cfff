package entry

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// Batch is an ordered import batch. The order is the source parse
// order and is never changed: it decides which entry keeps the bare
// path when two entries collide.
type Batch struct {
	Entries   []*Entry
	Separator string

	suffixed *regexp.Regexp
}

// NewBatch returns an empty batch using the given separator for both
// invalid-character substitution and numeric suffixing.
func NewBatch(separator string) *Batch {
	if separator == "" {
		separator = "-"
	}
	return &Batch{
		Separator: separator,
		suffixed:  regexp.MustCompile(regexp.QuoteMeta(separator) + `(\d+)$`),
	}
}

// Append adds an entry at the end of the batch.
func (b *Batch) Append(e *Entry) {
	b.Entries = append(b.Entries, e)
}

// Clean finalizes every entry for insertion: empty fields are dropped
// (password is kept even when empty), the group is folded into a
// cleaned path prefix, the leaf is derived from title, login or url,
// and batch-wide path uniqueness is enforced.
func (b *Batch) Clean(clean, convert bool) {
	for _, e := range b.Entries {
		e.dropEmpty()
		if !e.Has("password") {
			e.Set("password", "")
		}

		e.prefix = CleanGroup(StripProtocol(e.Get("group")), b.Separator)
		e.Del("group")

		for _, key := range []string{"title", "login", "url"} {
			if e.Has(key) {
				e.leaf = StripProtocol(e.Get(key))
				break
			}
		}
		e.Del("title")

		b.assignPath(e, clean, convert)
	}

	b.dedupGroups(clean, convert)
	b.dedupNumeric()
}

// assignPath joins the entry's cleaned group prefix with its derived
// leaf under the current clean/convert settings.
func (b *Batch) assignPath(e *Entry, clean, convert bool) {
	leaf := e.leaf
	if clean {
		leaf = CleanCmdline(leaf)
	}
	if convert {
		leaf = Convert(leaf, b.Separator)
	}
	if leaf == "" {
		leaf = "notitle"
	}
	e.Path = filepath.Join(e.prefix, leaf)
}

// dedupGroups re-derives the path of every entry whose path is shared
// with another one, so the clean/convert transforms are applied
// consistently before numeric suffixing. The re-derivation is
// idempotent and rarely changes anything on its own.
func (b *Batch) dedupGroups(clean, convert bool) {
	byPath := make(map[string][]*Entry, len(b.Entries))
	for _, e := range b.Entries {
		byPath[e.Path] = append(byPath[e.Path], e)
	}

	for _, shared := range byPath {
		if len(shared) < 2 {
			continue
		}
		for _, e := range shared {
			b.assignPath(e, clean, convert)
		}
	}
}

// dedupNumeric walks entries in parse order and appends the lowest
// free numeric suffix to every path already taken. The first entry to
// claim a path keeps it unsuffixed.
func (b *Batch) dedupNumeric() {
	seen := make(map[string]struct{}, len(b.Entries))
	for _, e := range b.Entries {
		path := e.Path
		if _, dup := seen[path]; dup {
			path = b.nextFree(path, seen)
			e.Path = path
		}
		seen[path] = struct{}{}
	}
}

// nextFree increments a trailing <separator><digits> suffix, adding
// one first when the path has none, until the path is unused.
func (b *Batch) nextFree(path string, seen map[string]struct{}) string {
	for {
		if _, dup := seen[path]; !dup {
			return path
		}
		if m := b.suffixed.FindStringSubmatchIndex(path); m != nil {
			n, err := strconv.Atoi(path[m[2]:m[3]])
			if err == nil {
				path = path[:m[2]] + strconv.Itoa(n+1)
				continue
			}
		}
		path += b.Separator + "1"
	}
}
