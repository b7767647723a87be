package commands

import (
	"log/slog"

	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var (
		limit     int
		showIndex bool
	)

	cmd := &cobra.Command{
		Use:   "load <dataset>",
		Short: "Load a dataset and print it",
		Long: `Load a dataset from the catalog and print its rows.

Table datasets read the whole table (honouring load_args such as columns,
schema and index_col). Query datasets run their query.`,
		Example: `  # Print a table dataset
  leapdata load customers

  # First 10 rows as JSON
  leapdata load customers --limit 10 -o json

  # Include the index column set by index_col
  leapdata load customers --index`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], limit, showIndex)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of rows to print (0 for all)")
	cmd.Flags().BoolVar(&showIndex, "index", false, "Print the index as the first column")

	return cmd
}

func runLoad(cmd *cobra.Command, name string, limit int, showIndex bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := cmdCtx.Catalog.Load(cmd.Context(), name)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("dataset loaded",
		slog.String("dataset", name),
		slog.Int("rows", f.Len()))

	if showIndex {
		f = f.WithIndexColumn("")
	}
	if limit > 0 && limit < len(f.Rows) {
		f = &frame.Frame{Columns: f.Columns, Rows: f.Rows[:limit]}
	}
	return frame.Render(cmd.OutOrStdout(), f, cmdCtx.Format)
}
