// Package tabular moves frames in and out of SQL databases.
//
// The IO interface is what datasets call; SQL is the database/sql backed
// implementation. Options arrive as loosely typed maps, as they do from a
// YAML catalog, and are decoded into ReadTableOptions, ReadQueryOptions and
// WriteOptions.
package tabular

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
)

// IO reads and writes frames through an engine.
type IO interface {
	// ReadTable loads every row of a table.
	ReadTable(ctx context.Context, table string, eng *engine.Engine, opts map[string]any) (*frame.Frame, error)
	// ReadQuery loads the result of a query.
	ReadQuery(ctx context.Context, query string, eng *engine.Engine, opts map[string]any) (*frame.Frame, error)
	// WriteTable stores a frame as a table. When index is true the frame
	// index is written as the first column.
	WriteTable(ctx context.Context, f *frame.Frame, table string, eng *engine.Engine, index bool, opts map[string]any) error
}

// SQL implements IO over database/sql.
type SQL struct {
	Logger *slog.Logger
}

var _ IO = (*SQL)(nil)

func (s *SQL) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// ReadTable implements IO.
func (s *SQL) ReadTable(ctx context.Context, table string, eng *engine.Engine, opts map[string]any) (*frame.Frame, error) {
	o, err := DecodeReadTableOptions(opts)
	if err != nil {
		return nil, err
	}
	db, err := eng.DB()
	if err != nil {
		return nil, err
	}
	d, err := eng.Dialect()
	if err != nil {
		return nil, err
	}

	cols := "*"
	if len(o.Columns) > 0 {
		quoted := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			quoted[i] = d.QuoteIdent(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s", cols, d.QualifiedName(o.Schema, table)) //nolint:gosec // identifiers are quoted

	s.logger().Debug("reading table",
		slog.String("table", table),
		slog.String("schema", o.Schema),
		slog.String("engine", eng.ID()))

	f, err := queryFrame(ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	if o.IndexCol != "" {
		if err := f.SetIndex(o.IndexCol); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ReadQuery implements IO.
func (s *SQL) ReadQuery(ctx context.Context, query string, eng *engine.Engine, opts map[string]any) (*frame.Frame, error) {
	o, err := DecodeReadQueryOptions(opts)
	if err != nil {
		return nil, err
	}
	db, err := eng.DB()
	if err != nil {
		return nil, err
	}

	s.logger().Debug("running query",
		slog.Int("params", len(o.Params)),
		slog.String("engine", eng.ID()))

	f, err := queryFrame(ctx, db, query, o.Params...)
	if err != nil {
		return nil, err
	}
	if o.IndexCol != "" {
		if err := f.SetIndex(o.IndexCol); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// queryFrame runs query and collects every row.
func queryFrame(ctx context.Context, q engine.Querier, query string, args ...any) (*frame.Frame, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanFrame(rows)
}

func scanFrame(rows *sql.Rows) (*frame.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	binary := binaryColumns(rows)

	f := &frame.Frame{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok && (i >= len(binary) || !binary[i]) {
				values[i] = string(b)
			}
		}
		f.Rows = append(f.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return f, nil
}

// binaryColumns flags columns whose database type holds raw bytes. Drivers
// also return text as []byte, which is converted to string.
func binaryColumns(rows *sql.Rows) []bool {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil
	}
	out := make([]bool, len(types))
	for i, ct := range types {
		name := strings.ToUpper(ct.DatabaseTypeName())
		out[i] = strings.Contains(name, "BLOB") ||
			strings.Contains(name, "BYTEA") ||
			strings.Contains(name, "BINARY")
	}
	return out
}
