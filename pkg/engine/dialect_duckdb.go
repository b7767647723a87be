package engine

import (
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	RegisterDialect(DuckDB)
}

// DuckDB is the embedded analytical database dialect.
// "duckdb://" and "duckdb:///:memory:" open an in-memory database.
var DuckDB = &Dialect{
	Name:          "duckdb",
	DefaultDriver: "duckdb",
	DefaultSchema: "main",
	Placeholder:   PlaceholderQuestion,
	Quote:         [2]string{`"`, `"`},
	Types: TypeNames{
		Integer:   "BIGINT",
		Float:     "DOUBLE",
		Text:      "VARCHAR",
		Blob:      "BLOB",
		Boolean:   "BOOLEAN",
		Timestamp: "TIMESTAMP",
	},
	BuildDSN: func(u *URL) (string, error) {
		path := u.Database
		if path == ":memory:" {
			path = ""
		}
		return withQuery(path, u), nil
	},
	TableNamesQuery: informationSchemaTables,
}
