// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// Project is a temporary leapdata project backed by a SQLite file.
type Project struct {
	Dir      string
	Catalog  string
	Database string
	// CSV holds three customers: ids 1..3, one with a NULL balance.
	CSV string
}

// CustomersCSV is the content of Project.CSV.
const CustomersCSV = `id,name,balance
1,Alice,10.5
2,Bob,
3,Carol,42
`

// SetupTestProject creates a catalog with table and query datasets that all
// share one SQLite database. The database starts empty.
//
// Datasets: customers (table, if_exists replace), customers_by_id (table,
// index_col id), customer_count (inline query) and rich_customers (query
// file).
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	p := &Project{
		Dir:      tmpDir,
		Catalog:  filepath.Join(tmpDir, "catalog.yml"),
		Database: filepath.Join(tmpDir, "warehouse.db"),
		CSV:      filepath.Join(tmpDir, "customers.csv"),
	}

	queryFile := filepath.Join(tmpDir, "queries", "rich_customers.sql")
	if err := os.MkdirAll(filepath.Dir(queryFile), 0o750); err != nil {
		t.Fatalf("failed to create queries directory: %v", err)
	}
	writeFile(t, queryFile, "SELECT name FROM customers WHERE balance > 20")
	writeFile(t, p.CSV, CustomersCSV)

	catalogYAML := fmt.Sprintf(`datasets:
  customers:
    type: sql_table
    table_name: customers
    credentials: warehouse
    layer: raw
    save_args:
      if_exists: replace
  customers_by_id:
    type: pandas.SQLTableDataset
    table_name: customers
    credentials: warehouse
    load_args:
      index_col: id
  customer_count:
    type: sql_query
    sql: SELECT COUNT(*) AS n FROM customers
    credentials: warehouse
    layer: reporting
  rich_customers:
    type: sql_query
    filepath: %s
    credentials: warehouse
credentials:
  warehouse:
    con: sqlite:///%s
`, filepath.ToSlash(queryFile), filepath.ToSlash(p.Database))
	writeFile(t, p.Catalog, catalogYAML)

	return p
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Result holds the captured output of a command run.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// Execute runs cmd with args, capturing stdout and stderr.
func Execute(ctx context.Context, cmd *cobra.Command, args ...string) Result {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}
