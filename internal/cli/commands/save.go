package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "save <dataset>",
		Short: "Save CSV data to a dataset",
		Long: `Read CSV data (header row first) and save it to a table dataset.

The dataset's save_args decide what happens when the table already exists
(if_exists: fail, replace or append). Reads stdin when --from is "-".`,
		Example: `  # Replace a table from a file
  leapdata save customers --from customers.csv

  # Pipe data in
  cat customers.csv | leapdata save customers --from -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, args[0], from)
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "-", "CSV file to read, - for stdin")

	return cmd
}

func runSave(cmd *cobra.Command, name, from string) error {
	var r io.Reader = cmd.InOrStdin()
	if from != "-" {
		file, err := os.Open(from) //nolint:gosec // path supplied by the user
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", from, err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	f, err := frame.ReadCSV(r)
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cmdCtx.Catalog.Save(cmd.Context(), name, f); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d rows to %s\n", f.Len(), name)
	return nil
}
