package dataset

import (
	"context"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/leapstack-labs/leapdata/pkg/tabular"
)

// TableConfig configures a TableDataset.
type TableConfig struct {
	TableName   string         `mapstructure:"table_name"`
	Credentials Credentials    `mapstructure:"credentials"`
	LoadArgs    map[string]any `mapstructure:"load_args"`
	SaveArgs    map[string]any `mapstructure:"save_args"`
}

// TableDataset loads and saves one database table.
type TableDataset struct {
	tableName string
	loadArgs  map[string]any
	// saveArgs excludes "name" and "index", which WriteTable takes separately.
	saveArgs map[string]any
	index    bool
	redact   redactor

	engine *engine.Engine
	io     tabular.IO
	logger *slog.Logger
}

// NewTableDataset validates cfg and resolves the dataset's engine.
// A "name" save argument is ignored: the table name always wins.
func NewTableDataset(cfg TableConfig, opts ...Option) (*TableDataset, error) {
	if cfg.TableName == "" {
		return nil, configError(emptyTableNameMessage)
	}
	if cfg.Credentials.Con == "" {
		return nil, configError(emptyConMessage)
	}

	saveArgs := cloneArgs(cfg.SaveArgs)
	index := false
	if v, ok := saveArgs["index"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return nil, configError("`index` save argument must be a boolean.")
		}
		index = b
	}
	delete(saveArgs, "index")
	delete(saveArgs, "name")

	o := buildOptions(opts)
	d := &TableDataset{
		tableName: cfg.TableName,
		loadArgs:  cloneArgs(cfg.LoadArgs),
		saveArgs:  saveArgs,
		index:     index,
		redact:    newRedactor(cfg.Credentials.Con),
		engine:    o.registry.Get(cfg.Credentials.Con),
		io:        o.io,
	}
	d.logger = o.logger.With(slog.String("dataset", d.String()))
	return d, nil
}

// Engine returns the shared engine the dataset reads and writes through.
func (d *TableDataset) Engine() *engine.Engine {
	return d.engine
}

// Load reads the whole table.
func (d *TableDataset) Load(ctx context.Context) (*frame.Frame, error) {
	d.logger.Debug("loading data")
	f, err := d.io.ReadTable(ctx, d.tableName, d.engine, cloneArgs(d.loadArgs))
	if err != nil {
		return nil, translate(opLoad, d.String(), err, d.redact)
	}
	return f, nil
}

// Save writes f to the table.
func (d *TableDataset) Save(ctx context.Context, f *frame.Frame) error {
	d.logger.Debug("saving data", slog.Int("rows", f.Len()))
	if err := d.io.WriteTable(ctx, f, d.tableName, d.engine, d.index, cloneArgs(d.saveArgs)); err != nil {
		return translate(opSave, d.String(), err, d.redact)
	}
	return nil
}

// Exists reports whether the table is present in the schema named by the
// "schema" load argument, or in the default schema. The load arguments are
// decoded as Load decodes them. Every call issues one metadata query.
func (d *TableDataset) Exists(ctx context.Context) (bool, error) {
	opts, err := tabular.DecodeReadTableOptions(d.loadArgs)
	if err != nil {
		return false, translate(opExists, d.String(), err, d.redact)
	}
	names, err := d.engine.TableNames(ctx, opts.Schema)
	if err != nil {
		return false, translate(opExists, d.String(), err, d.redact)
	}
	return slices.Contains(names, d.tableName), nil
}

// String describes the dataset without its credentials.
func (d *TableDataset) String() string {
	saveArgs := cloneArgs(d.saveArgs)
	saveArgs["index"] = d.index
	return describe("TableDataset", []field{
		{"table_name", d.tableName},
		{"load_args", d.loadArgs},
		{"save_args", saveArgs},
	}, d.redact)
}

// GoString matches String so %#v is redacted too.
func (d *TableDataset) GoString() string {
	return d.String()
}
