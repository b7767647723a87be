package commands

import (
	"cmp"

	"github.com/leapstack-labs/leapdata/internal/catalog"
	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the datasets of the catalog",
		Long: `List every dataset defined in the catalog with its type, layer and target.

The target is the table name for table datasets and the query file (or
"<inline>") for query datasets.`,
		Example: `  # List datasets (auto-detect output format)
  leapdata list

  # List datasets as JSON
  leapdata list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return frame.Render(cmd.OutOrStdout(), listFrame(cmdCtx.Catalog), cmdCtx.Format)
}

// listFrame describes the catalog entries as a frame, sorted by name.
func listFrame(cat *catalog.Catalog) *frame.Frame {
	f := frame.New([]string{"name", "type", "layer", "target"})
	for _, name := range cat.List() {
		e, _ := cat.Entry(name)
		f.Rows = append(f.Rows, []any{name, e.Type, e.Layer, target(e)})
	}
	return f
}

func target(e catalog.Entry) string {
	if e.TableName != "" {
		return e.TableName
	}
	return cmp.Or(e.Filepath, "<inline>")
}
