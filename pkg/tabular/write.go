package tabular

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
)

// TableExistsError is returned by WriteTable in "fail" mode when the target
// table is already present.
type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("Table '%s' already exists.", e.Table)
}

// WriteTable implements IO. The existence check, any drop, the create and
// every insert run in one transaction.
func (s *SQL) WriteTable(ctx context.Context, f *frame.Frame, table string, eng *engine.Engine, index bool, opts map[string]any) (err error) {
	o, err := DecodeWriteOptions(opts)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	columns, rows := layout(f, index, o.IndexLabel)
	if len(columns) == 0 {
		return errors.New("cannot write a frame with no columns")
	}

	db, err := eng.DB()
	if err != nil {
		return err
	}
	d, err := eng.Dialect()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	names, err := d.TableNames(ctx, tx, o.Schema)
	if err != nil {
		return err
	}
	exists := slices.Contains(names, table)
	target := d.QualifiedName(o.Schema, table)

	create := !exists
	switch {
	case exists && o.IfExists == IfExistsFail:
		return &TableExistsError{Table: table}
	case exists && o.IfExists == IfExistsReplace:
		if _, err = tx.ExecContext(ctx, "DROP TABLE "+target); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		create = true
	}

	if create {
		if _, err = tx.ExecContext(ctx, createStatement(d, target, columns, rows)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	if err = insertRows(ctx, tx, d, target, columns, rows, o.Chunksize); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	s.logger().Debug("wrote table",
		slog.String("table", table),
		slog.String("mode", o.IfExists),
		slog.Int("rows", len(rows)),
		slog.String("engine", eng.ID()))
	return nil
}

// layout returns the written column names and rows, with the index
// prepended when requested.
func layout(f *frame.Frame, index bool, label string) ([]string, [][]any) {
	if !index {
		return f.Columns, f.Rows
	}
	g := f.WithIndexColumn(label)
	return g.Columns, g.Rows
}

// createStatement builds CREATE TABLE with each column typed after its
// first non-nil value.
func createStatement(d *engine.Dialect, target string, columns []string, rows [][]any) string {
	defs := make([]string, len(columns))
	for j, c := range columns {
		var sample any
		for _, row := range rows {
			if row[j] != nil {
				sample = row[j]
				break
			}
		}
		defs[j] = d.QuoteIdent(c) + " " + d.SQLType(sample)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", target, strings.Join(defs, ", "))
}

// insertRows sends multi-row INSERTs, keeping each statement within the
// dialect's parameter limit and the requested chunk size.
func insertRows(ctx context.Context, tx *sql.Tx, d *engine.Dialect, target string, columns []string, rows [][]any, chunksize int) error {
	if len(rows) == 0 {
		return nil
	}
	batch := len(rows)
	if chunksize > 0 && chunksize < batch {
		batch = chunksize
	}
	if d.MaxParams > 0 {
		batch = min(batch, max(1, d.MaxParams/len(columns)))
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", target, strings.Join(quoted, ", "))

	for start := 0; start < len(rows); start += batch {
		chunk := rows[start:min(start+batch, len(rows))]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j, v := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				args = append(args, frame.Normalize(v))
				b.WriteString(d.FormatPlaceholder(len(args)))
			}
			b.WriteString(")")
		}
		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return err
		}
	}
	return nil
}
