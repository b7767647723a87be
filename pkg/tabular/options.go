package tabular

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Write modes for WriteOptions.IfExists.
const (
	IfExistsFail    = "fail"
	IfExistsReplace = "replace"
	IfExistsAppend  = "append"
)

// ReadTableOptions are the options accepted by ReadTable.
type ReadTableOptions struct {
	// Schema qualifies the table. Empty uses the connection's default.
	Schema string `mapstructure:"schema"`
	// Columns restricts the selected columns. Empty selects all.
	Columns []string `mapstructure:"columns"`
	// IndexCol moves the named column into the frame index.
	IndexCol string `mapstructure:"index_col"`
}

// ReadQueryOptions are the options accepted by ReadQuery.
type ReadQueryOptions struct {
	// Params are bound to the query's placeholders, which use the
	// driver's own syntax.
	Params []any `mapstructure:"params"`
	// IndexCol moves the named column into the frame index.
	IndexCol string `mapstructure:"index_col"`
}

// WriteOptions are the options accepted by WriteTable.
type WriteOptions struct {
	Schema string `mapstructure:"schema"`
	// IfExists is one of "fail", "replace" or "append". Defaults to "fail".
	IfExists string `mapstructure:"if_exists"`
	// IndexLabel names the index column. Defaults to the frame's index
	// name, then "index".
	IndexLabel string `mapstructure:"index_label"`
	// Chunksize caps the rows sent per INSERT. Zero sends as many rows as
	// the dialect's parameter limit allows.
	Chunksize int `mapstructure:"chunksize"`
}

// decode fills out from opts, rejecting keys that out does not declare.
func decode(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// DecodeReadTableOptions decodes table load arguments.
func DecodeReadTableOptions(opts map[string]any) (ReadTableOptions, error) {
	var o ReadTableOptions
	err := decode(opts, &o)
	return o, err
}

// DecodeReadQueryOptions decodes query load arguments.
func DecodeReadQueryOptions(opts map[string]any) (ReadQueryOptions, error) {
	var o ReadQueryOptions
	err := decode(opts, &o)
	return o, err
}

// DecodeWriteOptions decodes save arguments and applies defaults.
func DecodeWriteOptions(opts map[string]any) (WriteOptions, error) {
	o := WriteOptions{IfExists: IfExistsFail}
	if err := decode(opts, &o); err != nil {
		return o, err
	}
	switch o.IfExists {
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
	default:
		return o, fmt.Errorf("'%s' is not valid for if_exists", o.IfExists)
	}
	if o.Chunksize < 0 {
		return o, fmt.Errorf("chunksize must be positive, got %d", o.Chunksize)
	}
	return o, nil
}
