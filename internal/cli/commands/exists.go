package commands

import (
	"slices"

	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/spf13/cobra"
)

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists [dataset...]",
		Short: "Check whether datasets exist",
		Long: `Check whether the target table of each dataset exists.

Without arguments every dataset of the catalog is checked. Checks run
concurrently. Query datasets always report false.`,
		Example: `  # Check everything
  leapdata exists

  # Check two datasets
  leapdata exists customers orders`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExists(cmd, args)
		},
	}

	return cmd
}

func runExists(cmd *cobra.Command, names []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := cmdCtx.Catalog.ExistsAll(cmd.Context(), names...)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(results))
	for name := range results {
		keys = append(keys, name)
	}
	slices.Sort(keys)

	f := frame.New([]string{"name", "exists"})
	for _, name := range keys {
		f.Rows = append(f.Rows, []any{name, results[name]})
	}
	return frame.Render(cmd.OutOrStdout(), f, cmdCtx.Format)
}
