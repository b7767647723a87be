package commands

import (
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapdata/internal/catalog"
	"github.com/leapstack-labs/leapdata/internal/cli/config"
	"github.com/leapstack-labs/leapdata/pkg/engine"
	"github.com/leapstack-labs/leapdata/pkg/frame"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Catalog *catalog.Catalog
	Format  frame.Format
}

// NewCommandContext opens the configured catalog.
// Returns the context and a cleanup function that must be called (typically via defer).
// The cleanup disposes every engine the command opened.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	format, err := outputFormat(cmd, cfg.OutputFormat)
	if err != nil {
		return nil, nil, err
	}

	registry := engine.NewRegistry(logger)
	cat, err := catalog.Load(cfg.Catalog, cfg.Credentials,
		catalog.WithRegistry(registry),
		catalog.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("catalog loaded",
		slog.String("path", cfg.Catalog),
		slog.Int("datasets", len(cat.List())))

	cleanup := func() {
		if err := registry.Reset(); err != nil {
			logger.Warn("failed to dispose engines", slog.Any("error", err))
		}
	}

	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		Catalog: cat,
		Format:  format,
	}, cleanup, nil
}

// outputFormat resolves the configured output format. "auto" renders a
// table on a terminal and CSV otherwise.
func outputFormat(cmd *cobra.Command, name string) (frame.Format, error) {
	if name == "" || name == config.DefaultOutput {
		if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
			return frame.FormatTable, nil
		}
		return frame.FormatCSV, nil
	}
	return frame.ParseFormat(name)
}
