package dataset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapdata/pkg/engine"
)

// Messages returned for connection level failures.
const (
	unsupportedDialectMessage = "The SQL dialect in your connection is not supported by SQLAlchemy"

	invalidConnectionMessage = "The connection string could not be parsed. " +
		"Expected the form dialect[+driver]://user:password@host:port/database."

	driverMissingMessage = "A module/driver is missing when connecting to your SQL server. " +
		"Datasets connect through database/sql drivers, which must be linked " +
		"into the binary with a blank import.\n\n"
)

type operation int

const (
	opLoad operation = iota
	opSave
	opExists
)

func (op operation) failure(desc string, err string) string {
	switch op {
	case opSave:
		return fmt.Sprintf("Failed while saving data to data set %s.\n%s", desc, err)
	case opExists:
		return fmt.Sprintf("Failed during exists check for data set %s.\n%s", desc, err)
	default:
		return fmt.Sprintf("Failed while loading data from data set %s.\n%s", desc, err)
	}
}

// driverMissingPatterns are substrings of driver and module loading
// failures. Matching on text is a fallback for errors that do not carry
// an *engine.DriverMissingError.
var driverMissingPatterns = []string{
	"sql: unknown driver",
	"No module named",
	"Invalid module",
	"forgotten import",
}

// moduleAliases maps driver module names that appear in error messages to
// the database/sql driver serving the same database.
var moduleAliases = map[string]string{
	"mysqldb":  "mysql",
	"pymysql":  "mysql",
	"psycopg2": "pgx",
	"pg8000":   "pgx",
	"pymssql":  "sqlserver",
	"pyodbc":   "sqlserver",
	"pysqlite": "sqlite",
}

var quotedName = regexp.MustCompile(`["']([^"']+)["']`)

// translate turns a failure from an I/O call into an *Error. The rules are
// applied in order and the first match wins.
func translate(op operation, desc string, err error, r redactor) error {
	if err == nil {
		return nil
	}

	var dsErr *Error
	if errors.As(err, &dsErr) {
		return err
	}

	if errors.Is(err, engine.ErrUnknownDialect) {
		return &Error{Kind: KindConnectivity, Message: unsupportedDialectMessage, Err: err}
	}

	if errors.Is(err, engine.ErrInvalidURL) {
		return &Error{Kind: KindConnectivity, Message: invalidConnectionMessage, Err: err}
	}

	msg := r.text(err.Error())

	var missing *engine.DriverMissingError
	if errors.As(err, &missing) {
		return &Error{Kind: KindConnectivity, Message: driverMissing(missing.Driver, msg), Err: err}
	}
	if matchesDriverMissing(msg) {
		name := ""
		if m := quotedName.FindStringSubmatch(msg); m != nil {
			name = m[1]
		}
		return &Error{Kind: KindConnectivity, Message: driverMissing(name, msg), Err: err}
	}

	return &Error{Kind: KindIO, Message: op.failure(desc, msg), Err: err}
}

func matchesDriverMissing(msg string) bool {
	for _, p := range driverMissingPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// driverMissing builds the driver-missing message. The original message
// always comes last.
func driverMissing(name, original string) string {
	var b strings.Builder
	b.WriteString(driverMissingMessage)
	if hint := installHint(name); hint != "" {
		b.WriteString(hint)
	}
	b.WriteString("Loading failed with error:\n\n")
	b.WriteString(original)
	return b.String()
}

func installHint(name string) string {
	name = strings.ToLower(name)
	if alias, ok := moduleAliases[name]; ok {
		name = alias
	}
	path, ok := engine.DriverImportPath(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("You can also try linking the missing driver with\n\n\timport _ %q\n\n", path)
}
