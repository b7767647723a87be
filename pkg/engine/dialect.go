package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PlaceholderStyle selects how bind parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for every parameter.
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, ...
	PlaceholderDollar
	// PlaceholderAtP uses @p1, @p2, ...
	PlaceholderAtP
)

// TypeNames holds the column types used when a table is created from a frame.
type TypeNames struct {
	Integer   string
	Float     string
	Text      string
	Blob      string
	Boolean   string
	Timestamp string
}

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Dialect describes how to reach and talk to one database flavour.
type Dialect struct {
	// Name is the connection string scheme ("sqlite", "postgresql").
	Name string
	// Aliases are additional schemes resolving to this dialect.
	Aliases []string

	// DefaultDriver is the database/sql driver used when the connection
	// string names none.
	DefaultDriver string
	// Drivers maps the "+driver" part of a scheme to a database/sql driver.
	// Unlisted names are used verbatim.
	Drivers map[string]string

	// DefaultSchema is used when no schema is given ("main", "public").
	DefaultSchema string
	Placeholder   PlaceholderStyle
	// Quote holds the opening and closing identifier quote.
	Quote [2]string
	Types TypeNames
	// MaxParams caps bind parameters per statement. Zero means no limit.
	MaxParams int

	// BuildDSN converts a parsed connection string into a driver DSN.
	BuildDSN func(u *URL) (string, error)
	// TableNamesQuery returns the query listing base tables in schema.
	// An empty schema selects the dialect's default.
	TableNamesQuery func(d *Dialect, schema string) (string, []any)
	// SingleConnection reports whether the pool must be capped at one
	// connection, as required for in-memory databases.
	SingleConnection func(u *URL) bool
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// RegisterDialect adds a dialect under its name and aliases.
// Called by dialect implementations in their init() functions.
func RegisterDialect(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
	for _, a := range d.Aliases {
		dialects[strings.ToLower(a)] = d
	}
}

// LookupDialect returns the dialect registered under name.
func LookupDialect(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Dialects returns all registered dialect names and aliases (sorted).
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DriverName resolves the database/sql driver for the "+driver" part of a scheme.
func (d *Dialect) DriverName(token string) string {
	if token == "" {
		return d.DefaultDriver
	}
	if name, ok := d.Drivers[token]; ok {
		return name
	}
	return token
}

// QuoteIdent quotes an identifier, doubling any embedded closing quote.
func (d *Dialect) QuoteIdent(name string) string {
	open, closing := d.Quote[0], d.Quote[1]
	if open == "" {
		open, closing = `"`, `"`
	}
	return open + strings.ReplaceAll(name, closing, closing+closing) + closing
}

// QualifiedName quotes name, prefixed by schema when one is given.
func (d *Dialect) QualifiedName(schema, name string) string {
	if schema == "" {
		return d.QuoteIdent(name)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(name)
}

// FormatPlaceholder returns the bind parameter marker for the 1-based position n.
func (d *Dialect) FormatPlaceholder(n int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(n)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// SQLType maps a Go value to a column type. Nil maps to the text type.
func (d *Dialect) SQLType(v any) string {
	switch v.(type) {
	case bool:
		return d.Types.Boolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return d.Types.Integer
	case float32, float64:
		return d.Types.Float
	case []byte:
		return d.Types.Blob
	case time.Time:
		return d.Types.Timestamp
	default:
		return d.Types.Text
	}
}

// TableNames lists the base tables of schema using q.
func (d *Dialect) TableNames(ctx context.Context, q Querier, schema string) ([]string, error) {
	query, args := d.TableNamesQuery(d, schema)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table names: %w", err)
	}
	return names, nil
}

// schemaOrDefault returns schema, or the dialect default when empty.
func (d *Dialect) schemaOrDefault(schema string) string {
	if schema == "" {
		return d.DefaultSchema
	}
	return schema
}

// informationSchemaTables builds the standard information_schema listing.
func informationSchemaTables(d *Dialect, schema string) (string, []any) {
	//nolint:gosec // placeholder comes from the dialect
	q := fmt.Sprintf(`SELECT table_name FROM information_schema.tables
		WHERE table_schema = %s AND table_type = 'BASE TABLE'
		ORDER BY table_name`, d.FormatPlaceholder(1))
	return q, []any{d.schemaOrDefault(schema)}
}

// withQuery appends encoded query parameters to dsn.
func withQuery(dsn string, u *URL) string {
	if len(u.Query) == 0 {
		return dsn
	}
	return dsn + "?" + u.Query.Encode()
}
