package managers

import "path/filepath"

// revelationFieldKeys are the values stored as attribute-addressed
// field elements rather than named children.
var revelationFieldKeys = map[string]bool{
	"generic-hostname": true,
	"generic-username": true,
	"generic-password": true,
}

// newRevelation reads Revelation exports: folders are entry elements
// of type "folder" and recurse, credentials are everything else.
func newRevelation(opts Options) *xmlImporter {
	m := newXML("revelation", opts, FieldMap{
		"title": "name", "password": "generic-password",
		"login": "generic-username", "url": "generic-hostname",
		"comments": "notes",
	})
	m.expectTag = "revelationdata"
	m.getValue = revelationValue
	m.walk = func(m *xmlImporter, root *xmlNode) {
		revelationWalk(m, root, "")
	}
	return m
}

func revelationValue(el *xmlNode, native string) string {
	if revelationFieldKeys[native] {
		for _, f := range el.findAll("field") {
			if f.attr("id") == native {
				return f.Chardata
			}
		}
		return ""
	}
	return el.text(native)
}

func revelationWalk(m *xmlImporter, el *xmlNode, path string) {
	for _, xe := range el.findAll("entry") {
		if xe.attr("type") == "folder" {
			revelationWalk(m, xe, filepath.Join(path, xe.text("name")))
			continue
		}
		e := m.getEntry(xe)
		e.Set("group", path)
		m.batch.Append(e)
	}
}
