// Package dataset provides SQL-backed datasets: named, configured accessors
// that load and save frames.
//
// TableDataset reads and writes a single table. QueryDataset reads the result
// of a query given inline or in a file and cannot be saved. Both resolve
// their engine from a shared engine.Registry, so datasets configured with
// the same connection string share one connection pool, and both return
// *Error for every failure.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/leapstack-labs/leapdata/pkg/tabular"
)

// Configuration messages.
const (
	emptyTableNameMessage = "`table_name` argument cannot be empty."
	emptyConMessage       = "`con` argument cannot be empty. Please provide a SQLAlchemy connection string."
	emptyQueryMessage     = "`sql` and `filepath` arguments cannot both be empty." +
		"Please provide a sql query or path to a sql query file."
	bothQueryMessage = "`sql` and `filepath` arguments cannot both be provided." +
		"Please only provide one."
	saveUnsupportedMessage = "`save` is not supported on SQLQueryDataSet"
)

// Dataset is implemented by TableDataset and QueryDataset.
type Dataset interface {
	Load(ctx context.Context) (*frame.Frame, error)
	Save(ctx context.Context, f *frame.Frame) error
	Exists(ctx context.Context) (bool, error)
	Engine() *engine.Engine
	String() string
}

var (
	_ Dataset = (*TableDataset)(nil)
	_ Dataset = (*QueryDataset)(nil)
)

// Credentials hold the connection details of a dataset.
type Credentials struct {
	// Con is the connection string, e.g. "sqlite:///data/warehouse.db".
	Con string `mapstructure:"con"`
}

type options struct {
	registry *engine.Registry
	io       tabular.IO
	logger   *slog.Logger
}

// Option configures a dataset.
type Option func(*options)

// WithRegistry resolves engines from r instead of engine.Default().
func WithRegistry(r *engine.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithIO replaces the tabular I/O implementation.
func WithIO(io tabular.IO) Option {
	return func(o *options) { o.io = io }
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.registry == nil {
		o.registry = engine.Default()
	}
	if o.io == nil {
		o.io = &tabular.SQL{Logger: o.logger}
	}
	return o
}

// redactor masks the credentials of one connection string.
type redactor struct {
	con      string
	password string
}

func newRedactor(con string) redactor {
	r := redactor{con: strings.TrimSpace(con)}
	if u, err := engine.ParseURL(con); err == nil {
		r.password = u.Password
	}
	return r
}

// text masks the connection string and user:password@ credentials in s.
func (r redactor) text(s string) string {
	return engine.Redact(s, r.con)
}

// value is text for a single option value; a value that is exactly the
// password is masked whole.
func (r redactor) value(s string) string {
	if r.password != "" && s == r.password {
		return engine.Mask
	}
	return r.text(s)
}

// field is one key=value pair of a dataset description.
type field struct {
	key   string
	value any
}

// describe renders "Name(k1=v1, k2=v2)" with fields sorted by key. Only
// values are redacted; the name and keys are printed as is.
func describe(name string, fields []field, r redactor) string {
	slices.SortFunc(fields, func(a, b field) int { return strings.Compare(a.key, b.key) })
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.key + "=" + formatValue(f.value, r)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

// formatValue prints maps with sorted keys and nil as None.
func formatValue(v any, r redactor) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + formatValue(x[k], r)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e, r)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return r.value(fmt.Sprintf("%v", v))
	}
}

func cloneArgs(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
