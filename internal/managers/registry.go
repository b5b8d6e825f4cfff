package managers

import "sort"

// Definition describes one supported password manager: its registry
// name, the project URL shown by list mode, and a factory building a
// configured importer.
type Definition struct {
	Name string
	URL  string
	New  func(opts Options) Importer
}

// registry is the closed set of supported managers, keyed by the name
// given on the command line.
var registry = map[string]Definition{
	"1password": {
		Name: "1password", URL: "https://1password.com/",
		New: func(o Options) Importer {
			return newCSV("1password", o, FieldMap{
				"title": "Title", "password": "Password", "login": "Username",
				"url": "URL", "comments": "Notes", "group": "Type",
			})
		},
	},
	"1password4": {
		Name: "1password4", URL: "https://1password.com/",
		New: func(o Options) Importer {
			return newCSV("1password4", o, FieldMap{
				"title": "title", "password": "password", "login": "username",
				"url": "url", "comments": "notes",
			})
		},
	},
	"1password4pif": {
		Name: "1password4pif", URL: "https://1password.com/",
		New: func(o Options) Importer {
			return newPIF(o, FieldMap{
				"title": "title", "password": "password", "login": "username",
				"url": "location", "comments": "notesPlain", "group": "folderUuid",
			})
		},
	},
	"bitwarden": {
		Name: "bitwarden", URL: "https://bitwarden.com/",
		New: func(o Options) Importer {
			return newCSV("bitwarden", o, FieldMap{
				"title": "name", "password": "login_password", "login": "login_username",
				"url": "login_uri", "comments": "notes", "group": "folder",
			})
		},
	},
	"chrome": {
		Name: "chrome", URL: "https://support.google.com/chrome",
		New: func(o Options) Importer {
			return newCSV("chrome", o, FieldMap{
				"title": "name", "password": "password", "login": "username",
				"url": "url",
			})
		},
	},
	"chromesqlite": {
		Name: "chromesqlite", URL: "https://support.google.com/chrome",
		New: func(o Options) Importer {
			return newChromeSQLite(o)
		},
	},
	"dashlane": {
		Name: "dashlane", URL: "https://www.dashlane.com/",
		New: func(o Options) Importer {
			m := newCSV("dashlane", o, FieldMap{
				"title": "title", "password": "password", "login": "login",
				"url": "url", "comments": "comments",
			})
			m.fieldnames = []string{"title", "url", "login", "password", "comments"}
			return m
		},
	},
	"enpass": {
		Name: "enpass", URL: "https://www.enpass.io/",
		New: func(o Options) Importer {
			return newEnpass(o, FieldMap{
				"title": "Title", "password": "Password", "login": "Username",
				"url": "URL", "comments": "notes", "group": "group",
			})
		},
	},
	"fpm": {
		Name: "fpm", URL: "http://fpm.sourceforge.net/",
		New: func(o Options) Importer {
			return newFigaroPM("fpm", o)
		},
	},
	"gorilla": {
		Name: "gorilla", URL: "https://github.com/zdia/gorilla/wiki",
		New: func(o Options) Importer {
			m := newCSV("gorilla", o, FieldMap{
				"title": "title", "password": "password", "login": "user",
				"url": "url", "comments": "notes", "group": "group",
			})
			m.after = gorillaGroups
			return m
		},
	},
	"kedpm": {
		Name: "kedpm", URL: "http://kedpm.sourceforge.net/",
		New: func(o Options) Importer {
			return newFigaroPM("kedpm", o)
		},
	},
	"keepass": {
		Name: "keepass", URL: "https://www.keepass.info",
		New: func(o Options) Importer {
			return newKeepass(o)
		},
	},
	"keepasscsv": {
		Name: "keepasscsv", URL: "https://www.keepass.info",
		New: func(o Options) Importer {
			return newCSV("keepasscsv", o, FieldMap{
				"title": "Account", "password": "Password", "login": "Login Name",
				"url": "Web Site", "comments": "Comments",
			})
		},
	},
	"keepassx": {
		Name: "keepassx", URL: "https://www.keepassx.org/",
		New: func(o Options) Importer {
			return newKeepassX("keepassx", o, FieldMap{
				"title": "title", "password": "password", "login": "username",
				"url": "url", "comments": "comment",
			})
		},
	},
	"keepassx2": {
		Name: "keepassx2", URL: "https://www.keepassx.org/",
		New: func(o Options) Importer {
			return newCSV("keepassx2", o, keepassX2Keys)
		},
	},
	"keepassxc": {
		Name: "keepassxc", URL: "https://keepassxc.org/",
		New: func(o Options) Importer {
			return newCSV("keepassxc", o, keepassX2Keys)
		},
	},
	"lastpass": {
		Name: "lastpass", URL: "https://www.lastpass.com/",
		New: func(o Options) Importer {
			return newCSV("lastpass", o, FieldMap{
				"title": "name", "password": "password", "login": "username",
				"url": "url", "comments": "extra", "group": "grouping",
			})
		},
	},
	"networkmanager": {
		Name: "networkmanager", URL: "https://wiki.gnome.org/Projects/NetworkManager",
		New: func(o Options) Importer {
			return newNetworkManager(o)
		},
	},
	"passwordexporter": {
		Name: "passwordexporter", URL: "https://github.com/kspearrin/ff-password-exporter",
		New: func(o Options) Importer {
			return newCSV("passwordexporter", o, FieldMap{
				"title": "hostname", "password": "password", "login": "username",
			})
		},
	},
	"pwsafe": {
		Name: "pwsafe", URL: "https://pwsafe.org/",
		New: func(o Options) Importer {
			return newPwsafe(o)
		},
	},
	"revelation": {
		Name: "revelation", URL: "https://revelation.olasagasti.info/",
		New: func(o Options) Importer {
			return newRevelation(o)
		},
	},
	"roboform": {
		Name: "roboform", URL: "https://www.roboform.com/",
		New: func(o Options) Importer {
			return newCSV("roboform", o, FieldMap{
				"title": "Name", "password": "Pwd", "login": "Login",
				"url": "Url", "comments": "Note", "group": "Folder",
			})
		},
	},
	"upm": {
		Name: "upm", URL: "http://upm.sourceforge.net/",
		New: func(o Options) Importer {
			m := newCSV("upm", o, FieldMap{
				"title": "title", "password": "password", "login": "login",
				"url": "url", "comments": "comments",
			})
			m.fieldnames = []string{"title", "login", "password", "url", "comments"}
			return m
		},
	},
}

// keepassX2Keys is shared by keepassx2 and keepassxc, whose CSV
// exports are identical.
var keepassX2Keys = FieldMap{
	"title": "Title", "password": "Password", "login": "Username",
	"url": "URL", "comments": "Notes", "group": "Group",
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, bool) {
	def, ok := registry[name]
	return def, ok
}

// Names returns every registered manager name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of supported managers.
func Count() int {
	return len(registry)
}
