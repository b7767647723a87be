package engine

import (
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	RegisterDialect(SQLite)
}

// SQLite is the file-backed SQLite dialect, served by modernc.org/sqlite.
// "sqlite://" and "sqlite:///:memory:" open an in-memory database.
var SQLite = &Dialect{
	Name:          "sqlite",
	DefaultDriver: "sqlite",
	Drivers:       map[string]string{"modernc": "sqlite", "pysqlite": "sqlite"},
	DefaultSchema: "main",
	Placeholder:   PlaceholderQuestion,
	Quote:         [2]string{`"`, `"`},
	Types: TypeNames{
		Integer:   "INTEGER",
		Float:     "REAL",
		Text:      "TEXT",
		Blob:      "BLOB",
		Boolean:   "BOOLEAN",
		Timestamp: "TIMESTAMP",
	},
	MaxParams: 32766,
	BuildDSN: func(u *URL) (string, error) {
		return withQuery(sqlitePath(u), u), nil
	},
	TableNamesQuery: func(d *Dialect, schema string) (string, []any) {
		master := "sqlite_master"
		if schema != "" && schema != "main" {
			master = d.QuoteIdent(schema) + ".sqlite_master"
		}
		//nolint:gosec // schema is quoted
		return fmt.Sprintf("SELECT name FROM %s WHERE type = 'table' AND name NOT LIKE 'sqlite_%%' ORDER BY name", master), nil
	},
	SingleConnection: func(u *URL) bool {
		return sqlitePath(u) == ":memory:"
	},
}

func sqlitePath(u *URL) string {
	if u.Database == "" {
		return ":memory:"
	}
	return u.Database
}
