package engine

import (
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
	"github.com/microsoft/go-mssqldb/msdsn"
)

func init() {
	RegisterDialect(MSSQL)
}

// MSSQL is the Microsoft SQL Server dialect, served by go-mssqldb.
var MSSQL = &Dialect{
	Name:          "mssql",
	Aliases:       []string{"sqlserver"},
	DefaultDriver: "sqlserver",
	DefaultSchema: "dbo",
	Placeholder:   PlaceholderAtP,
	Quote:         [2]string{"[", "]"},
	Types: TypeNames{
		Integer:   "BIGINT",
		Float:     "FLOAT",
		Text:      "NVARCHAR(MAX)",
		Blob:      "VARBINARY(MAX)",
		Boolean:   "BIT",
		Timestamp: "DATETIME2",
	},
	// SQL Server accepts at most 2100 parameters per request.
	MaxParams:       2000,
	BuildDSN:        buildMSSQLDSN,
	TableNamesQuery: informationSchemaTables,
}

func buildMSSQLDSN(u *URL) (string, error) {
	query := url.Values{}
	for k, v := range u.Query {
		query[k] = v
	}
	if u.Database != "" {
		query.Set("database", u.Database)
	}

	dsn := url.URL{
		Scheme:   "sqlserver",
		Host:     u.HostPort("localhost", ""),
		RawQuery: query.Encode(),
	}
	if u.Username != "" {
		dsn.User = url.UserPassword(u.Username, u.Password)
	}

	s := dsn.String()
	// Validate early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(s); err != nil {
		return "", fmt.Errorf("%w: mssql: %s", ErrInvalidURL, u.redactCredentials(err.Error()))
	}
	return s, nil
}
