package engine

import (
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

func init() {
	RegisterDialect(Postgres)
}

// Postgres is the PostgreSQL dialect, served by pgx.
var Postgres = &Dialect{
	Name:          "postgresql",
	Aliases:       []string{"postgres"},
	DefaultDriver: "pgx",
	Drivers:       map[string]string{"pgx": "pgx"},
	DefaultSchema: "public",
	Placeholder:   PlaceholderDollar,
	Quote:         [2]string{`"`, `"`},
	Types: TypeNames{
		Integer:   "BIGINT",
		Float:     "DOUBLE PRECISION",
		Text:      "TEXT",
		Blob:      "BYTEA",
		Boolean:   "BOOLEAN",
		Timestamp: "TIMESTAMPTZ",
	},
	MaxParams:       65535,
	BuildDSN:        buildPostgresDSN,
	TableNamesQuery: informationSchemaTables,
}

func buildPostgresDSN(u *URL) (string, error) {
	dsn := url.URL{
		Scheme:   "postgres",
		Host:     u.HostPort("localhost", "5432"),
		Path:     "/" + u.Database,
		RawQuery: u.Query.Encode(),
	}
	if u.Username != "" {
		if u.Password != "" {
			dsn.User = url.UserPassword(u.Username, u.Password)
		} else {
			dsn.User = url.User(u.Username)
		}
	}

	s := dsn.String()
	if _, err := pgx.ParseConfig(s); err != nil {
		return "", fmt.Errorf("%w: postgresql: %s", ErrInvalidURL, u.redactCredentials(err.Error()))
	}
	return s, nil
}
