package engine

import (
	"github.com/go-sql-driver/mysql"
)

func init() {
	RegisterDialect(MySQL)
}

// MySQL is the MySQL/MariaDB dialect, served by go-sql-driver/mysql.
// With no schema given, tables are listed from the connection's database.
var MySQL = &Dialect{
	Name:          "mysql",
	Aliases:       []string{"mariadb"},
	DefaultDriver: "mysql",
	Placeholder:   PlaceholderQuestion,
	Quote:         [2]string{"`", "`"},
	Types: TypeNames{
		Integer:   "BIGINT",
		Float:     "DOUBLE",
		Text:      "TEXT",
		Blob:      "BLOB",
		Boolean:   "BOOLEAN",
		Timestamp: "DATETIME(6)",
	},
	MaxParams: 65535,
	BuildDSN:  buildMySQLDSN,
	TableNamesQuery: func(d *Dialect, schema string) (string, []any) {
		if schema == "" {
			return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name`, nil
		}
		return informationSchemaTables(d, schema)
	},
}

func buildMySQLDSN(u *URL) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = u.Username
	cfg.Passwd = u.Password
	cfg.Net = "tcp"
	cfg.Addr = u.HostPort("localhost", "3306")
	cfg.DBName = u.Database
	cfg.ParseTime = true
	if len(u.Query) > 0 {
		cfg.Params = make(map[string]string, len(u.Query))
		for k := range u.Query {
			cfg.Params[k] = u.Query.Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}
