package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/leapstack-labs/leapdata/pkg/tabular"
)

// QueryConfig configures a QueryDataset. Exactly one of SQL and Filepath
// must be set.
type QueryConfig struct {
	SQL         string         `mapstructure:"sql"`
	Filepath    string         `mapstructure:"filepath"`
	Credentials Credentials    `mapstructure:"credentials"`
	LoadArgs    map[string]any `mapstructure:"load_args"`
}

// QueryDataset loads the result of a SQL query. It is read-only.
type QueryDataset struct {
	sql      string
	filepath string
	loadArgs map[string]any
	redact   redactor

	engine *engine.Engine
	io     tabular.IO
	logger *slog.Logger
}

// NewQueryDataset validates cfg and resolves the dataset's engine. A query
// file must exist now; its content is read on every Load.
func NewQueryDataset(cfg QueryConfig, opts ...Option) (*QueryDataset, error) {
	switch {
	case cfg.SQL == "" && cfg.Filepath == "":
		return nil, configError(emptyQueryMessage)
	case cfg.SQL != "" && cfg.Filepath != "":
		return nil, configError(bothQueryMessage)
	case cfg.Credentials.Con == "":
		return nil, configError(emptyConMessage)
	}

	if cfg.Filepath != "" {
		info, err := os.Stat(cfg.Filepath)
		if err != nil {
			return nil, wrapConfigError(fmt.Sprintf("`filepath` %s cannot be read: %v", cfg.Filepath, err), err)
		}
		if info.IsDir() {
			return nil, configError(fmt.Sprintf("`filepath` %s is a directory.", cfg.Filepath))
		}
	}

	o := buildOptions(opts)
	d := &QueryDataset{
		sql:      cfg.SQL,
		filepath: cfg.Filepath,
		loadArgs: cloneArgs(cfg.LoadArgs),
		redact:   newRedactor(cfg.Credentials.Con),
		engine:   o.registry.Get(cfg.Credentials.Con),
		io:       o.io,
	}
	d.logger = o.logger.With(slog.String("dataset", d.String()))
	return d, nil
}

// Engine returns the shared engine the dataset reads through.
func (d *QueryDataset) Engine() *engine.Engine {
	return d.engine
}

// query returns the inline query or the current content of the query file.
func (d *QueryDataset) query() (string, error) {
	if d.filepath == "" {
		return d.sql, nil
	}
	b, err := os.ReadFile(d.filepath)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return string(b), nil
}

// Load runs the query.
func (d *QueryDataset) Load(ctx context.Context) (*frame.Frame, error) {
	d.logger.Debug("loading data")
	text, err := d.query()
	if err != nil {
		return nil, translate(opLoad, d.String(), err, d.redact)
	}
	f, err := d.io.ReadQuery(ctx, text, d.engine, cloneArgs(d.loadArgs))
	if err != nil {
		return nil, translate(opLoad, d.String(), err, d.redact)
	}
	return f, nil
}

// Save always fails with ErrUnsupported.
func (d *QueryDataset) Save(context.Context, *frame.Frame) error {
	return &Error{Kind: KindUnsupported, Message: saveUnsupportedMessage}
}

// Exists is always false: a query result is not stored anywhere.
func (d *QueryDataset) Exists(context.Context) (bool, error) {
	return false, nil
}

// String describes the dataset without its credentials. Datasets built from
// a file show the path, not the query text.
func (d *QueryDataset) String() string {
	var sql, path any
	if d.sql != "" {
		sql = d.sql
	}
	if d.filepath != "" {
		path = d.filepath
	}
	return describe("QueryDataset", []field{
		{"sql", sql},
		{"filepath", path},
		{"load_args", d.loadArgs},
	}, d.redact)
}

// GoString matches String so %#v is redacted too.
func (d *QueryDataset) GoString() string {
	return d.String()
}
