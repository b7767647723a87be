// Package catalog builds datasets from a YAML data catalog.
//
// A catalog file lists datasets under "datasets" and connection details
// under "credentials":
//
//	datasets:
//	  shuttles:
//	    type: sql_table
//	    table_name: shuttles
//	    credentials: warehouse
//	credentials:
//	  warehouse:
//	    con: sqlite:///data/warehouse.db
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapdata/pkg/dataset"
	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
)

// Dataset types accepted in the "type" field.
const (
	TypeTable = "sql_table"
	TypeQuery = "sql_query"
)

// typeAliases maps alternative type names to TypeTable or TypeQuery.
var typeAliases = map[string]string{
	TypeTable:                TypeTable,
	"table":                  TypeTable,
	"tabledataset":           TypeTable,
	"pandas.sqltabledataset": TypeTable,
	TypeQuery:                TypeQuery,
	"query":                  TypeQuery,
	"querydataset":           TypeQuery,
	"pandas.sqlquerydataset": TypeQuery,
}

// DefaultConcurrency bounds ExistsAll when no limit is configured.
const DefaultConcurrency = 8

// UnknownDatasetError is returned when a dataset name is not in the catalog.
type UnknownDatasetError struct {
	Name      string
	Available []string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("dataset %q not found in catalog\nAvailable datasets: %v", e.Name, e.Available)
}

// Catalog resolves dataset names to datasets. Datasets are built on first
// use and reused afterwards. It is safe for concurrent use.
type Catalog struct {
	entries     map[string]Entry
	credentials map[string]map[string]string

	registry    *engine.Registry
	logger      *slog.Logger
	concurrency int

	mu       sync.Mutex
	datasets map[string]dataset.Dataset
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRegistry shares engines through r instead of engine.Default().
func WithRegistry(r *engine.Registry) Option {
	return func(c *Catalog) { c.registry = r }
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithConcurrency bounds the number of concurrent checks in ExistsAll.
func WithConcurrency(n int) Option {
	return func(c *Catalog) { c.concurrency = n }
}

// New creates a catalog from decoded catalog content.
func New(f *File, opts ...Option) *Catalog {
	c := &Catalog{
		entries:     make(map[string]Entry),
		credentials: make(map[string]map[string]string),
		datasets:    make(map[string]dataset.Dataset),
		concurrency: DefaultConcurrency,
	}
	if f != nil {
		maps.Copy(c.entries, f.Datasets)
		maps.Copy(c.credentials, f.Credentials)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.registry == nil {
		c.registry = engine.Default()
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	return c
}

// Load reads a catalog and its optional credentials file.
func Load(catalogPath, credentialsPath string, opts ...Option) (*Catalog, error) {
	f, err := LoadFile(catalogPath, credentialsPath)
	if err != nil {
		return nil, err
	}
	return New(f, opts...), nil
}

// List returns all dataset names (sorted).
func (c *Catalog) List() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Entry returns the definition of the named dataset.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Dataset returns the named dataset, building it on first use.
func (c *Catalog) Dataset(name string) (dataset.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.datasets[name]; ok {
		return ds, nil
	}
	entry, ok := c.entries[name]
	if !ok {
		return nil, &UnknownDatasetError{Name: name, Available: c.List()}
	}
	ds, err := c.build(name, entry)
	if err != nil {
		return nil, err
	}
	c.datasets[name] = ds
	c.logger.Debug("built dataset", slog.String("name", name), slog.String("dataset", ds.String()))
	return ds, nil
}

func (c *Catalog) build(name string, e Entry) (dataset.Dataset, error) {
	creds, err := c.credentialsFor(name, e)
	if err != nil {
		return nil, err
	}
	opts := []dataset.Option{dataset.WithRegistry(c.registry), dataset.WithLogger(c.logger)}

	switch typeAliases[strings.ToLower(e.Type)] {
	case TypeTable:
		ds, err := dataset.NewTableDataset(dataset.TableConfig{
			TableName:   e.TableName,
			Credentials: creds,
			LoadArgs:    e.LoadArgs,
			SaveArgs:    e.SaveArgs,
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		return ds, nil
	case TypeQuery:
		ds, err := dataset.NewQueryDataset(dataset.QueryConfig{
			SQL:         e.SQL,
			Filepath:    e.Filepath,
			Credentials: creds,
			LoadArgs:    e.LoadArgs,
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		return ds, nil
	default:
		return nil, fmt.Errorf("dataset %s: unknown type %q (expected %s or %s)", name, e.Type, TypeTable, TypeQuery)
	}
}

func (c *Catalog) credentialsFor(name string, e Entry) (dataset.Credentials, error) {
	if e.Credentials == "" {
		return dataset.Credentials{}, nil
	}
	values, ok := c.credentials[e.Credentials]
	if !ok {
		return dataset.Credentials{}, fmt.Errorf("dataset %s: credentials %q not found", name, e.Credentials)
	}
	return dataset.Credentials{Con: values["con"]}, nil
}

// Load loads the named dataset.
func (c *Catalog) Load(ctx context.Context, name string) (*frame.Frame, error) {
	ds, err := c.Dataset(name)
	if err != nil {
		return nil, err
	}
	return ds.Load(ctx)
}

// Save saves f to the named dataset.
func (c *Catalog) Save(ctx context.Context, name string, f *frame.Frame) error {
	ds, err := c.Dataset(name)
	if err != nil {
		return err
	}
	return ds.Save(ctx, f)
}

// ExistsAll checks the named datasets concurrently, or every dataset when
// names is empty. The first failure cancels the remaining checks.
func (c *Catalog) ExistsAll(ctx context.Context, names ...string) (map[string]bool, error) {
	if len(names) == 0 {
		names = c.List()
	}

	results := make([]bool, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, name := range names {
		g.Go(func() error {
			ds, err := c.Dataset(name)
			if err != nil {
				return err
			}
			ok, err := ds.Exists(ctx)
			if err != nil {
				return fmt.Errorf("dataset %s: %w", name, err)
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}
