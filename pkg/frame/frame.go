// Package frame provides the in-memory tabular data exchanged between
// datasets and their callers.
//
// A Frame is a row-major table with named columns and an optional index.
// Values are plain Go values as produced by database/sql drivers
// (int64, float64, string, []byte, bool, time.Time, nil).
package frame

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// DefaultIndexName is the column name used when an unnamed index is written.
const DefaultIndexName = "index"

// Frame is an in-memory table of rows with named columns.
type Frame struct {
	// Columns holds the column names, in order.
	Columns []string

	// Rows holds the data. Every row has len(Columns) values.
	Rows [][]any

	// Index holds one label per row. Nil means a positional index 0..n-1.
	Index []any

	// IndexName names the index when it is written as a column.
	IndexName string
}

// New creates a frame with the given columns and rows.
func New(columns []string, rows ...[]any) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

// FromColumns creates a frame from column-oriented data.
// All columns must have the same length.
func FromColumns(names []string, data map[string][]any) (*Frame, error) {
	n := -1
	for _, name := range names {
		col, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("column %q has no data", name)
		}
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", name, len(col), n)
		}
		n = len(col)
	}
	if n < 0 {
		n = 0
	}

	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(names))
		for j, name := range names {
			row[j] = data[name][i]
		}
		rows[i] = row
	}
	return &Frame{Columns: names, Rows: rows}, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Validate checks that every row matches the column count and that the
// index, when present, has one label per row.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("frame is nil")
	}
	seen := make(map[string]struct{}, len(f.Columns))
	for _, c := range f.Columns {
		if c == "" {
			return fmt.Errorf("frame has an empty column name")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("frame has duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(f.Columns))
		}
	}
	if f.Index != nil && len(f.Index) != len(f.Rows) {
		return fmt.Errorf("index has %d labels, want %d", len(f.Index), len(f.Rows))
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]any, bool) {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// IndexLabels returns the index labels, materialising the positional
// index when none is set.
func (f *Frame) IndexLabels() []any {
	if f.Index != nil {
		return f.Index
	}
	labels := make([]any, len(f.Rows))
	for i := range labels {
		labels[i] = int64(i)
	}
	return labels
}

// SetIndex moves the named column into the index.
func (f *Frame) SetIndex(name string) error {
	idx := f.ColumnIndex(name)
	if idx < 0 {
		return fmt.Errorf("index column %q not found", name)
	}
	index := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		index[i] = row[idx]
		f.Rows[i] = append(row[:idx:idx], row[idx+1:]...)
	}
	f.Columns = append(f.Columns[:idx:idx], f.Columns[idx+1:]...)
	f.Index = index
	f.IndexName = name
	return nil
}

// WithIndexColumn returns a copy of f whose first column holds the index
// labels. An empty label falls back to IndexName, then DefaultIndexName.
// The copy has a positional index.
func (f *Frame) WithIndexColumn(label string) *Frame {
	if label == "" {
		label = f.IndexName
	}
	if label == "" {
		label = DefaultIndexName
	}
	labels := f.IndexLabels()
	rows := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = append([]any{labels[i]}, row...)
	}
	return &Frame{
		Columns: append([]string{label}, f.Columns...),
		Rows:    rows,
	}
}

// Equal reports whether two frames hold the same columns and values,
// ignoring the index. Numeric values compare by value, so an int saved to a
// database equals the int64 read back.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.Columns) != len(other.Columns) || len(f.Rows) != len(other.Rows) {
		return false
	}
	for i := range f.Columns {
		if f.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for i := range f.Rows {
		for j := range f.Rows[i] {
			if !valuesEqual(f.Rows[i][j], other.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	switch av := a.(type) {
	case nil:
		return b == nil
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
	case float64:
		switch bv := b.(type) {
		case float64:
			return av == bv || (math.IsNaN(av) && math.IsNaN(bv))
		case int64:
			return av == float64(bv)
		}
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return a == b
}

// Normalize widens a value to the canonical types used for comparison and
// rendering: signed and unsigned integers become int64, floats become
// float64, bools stay bool.
func Normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x) //nolint:gosec // table values fit in int64
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x) //nolint:gosec // table values fit in int64
	case float32:
		return float64(x)
	}
	return v
}
