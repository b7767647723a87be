package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownDialect is matched by UnknownDialectError.
	ErrUnknownDialect = errors.New("unknown SQL dialect")

	// ErrInvalidURL is returned when a connection string cannot be parsed
	// or converted into a driver DSN.
	ErrInvalidURL = errors.New("invalid connection string")

	// ErrDisposed is returned by an engine after Dispose.
	ErrDisposed = errors.New("engine has been disposed")
)

// UnknownDialectError is returned when the scheme of a connection string
// does not name a registered dialect.
type UnknownDialectError struct {
	Dialect   string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown SQL dialect %q\nAvailable dialects: %v", e.Dialect, e.Available)
}

// Is reports whether target is ErrUnknownDialect.
func (e *UnknownDialectError) Is(target error) bool {
	return target == ErrUnknownDialect
}

// DriverMissingError is returned when the database/sql driver selected for a
// dialect is not linked into the binary.
type DriverMissingError struct {
	Dialect string
	Driver  string
}

func (e *DriverMissingError) Error() string {
	return fmt.Sprintf("sql: unknown driver %q (forgotten import?)", e.Driver)
}

// knownDrivers maps database/sql driver names to the packages that register them.
var knownDrivers = map[string]string{
	"sqlite":    "modernc.org/sqlite",
	"sqlite3":   "github.com/mattn/go-sqlite3",
	"duckdb":    "github.com/marcboeker/go-duckdb",
	"pgx":       "github.com/jackc/pgx/v5/stdlib",
	"postgres":  "github.com/lib/pq",
	"sqlserver": "github.com/microsoft/go-mssqldb",
	"mssql":     "github.com/microsoft/go-mssqldb",
	"mysql":     "github.com/go-sql-driver/mysql",
}

// DriverImportPath returns the Go package that registers the named driver.
func DriverImportPath(driver string) (string, bool) {
	p, ok := knownDrivers[strings.ToLower(driver)]
	return p, ok
}
