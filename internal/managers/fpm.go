package managers

// newFigaroPM reads Figaro Password Manager exports (also produced by
// kedpm). Entries live under a PasswordList container.
func newFigaroPM(name string, opts Options) *xmlImporter {
	m := newXML(name, opts, FieldMap{
		"title": "title", "password": "password", "login": "user",
		"url": "url", "comments": "notes", "group": "category",
	})
	m.expectTag = "FPM"
	m.getRoot = func(root *xmlNode) *xmlNode {
		return root.find("PasswordList")
	}
	m.walk = func(m *xmlImporter, root *xmlNode) {
		for _, xe := range root.findAll("PasswordItem") {
			m.batch.Append(m.getEntry(xe))
		}
	}
	return m
}
