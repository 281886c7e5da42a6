// Package cli defines the ledgerctl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"loan-ledger/internal/config"
	"loan-ledger/internal/infrastructure/database/postgres"
	"loan-ledger/internal/infrastructure/logging"
)

var (
	flagConfig string
	flagFormat string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operate the loan ledger database",
		Long:          "Operator tooling for the loan ledger: apply schema migrations and bulk import customers from XLSX or CSV files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", ".", "directory containing config.yml and .env")
	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")

	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newVersionCmd(),
	)

	return root
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// loadRuntime reads configuration and builds a logger that writes to the
// command's stderr so reports on stdout stay clean.
func loadRuntime(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, logging.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr()), nil
}

func openPool(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}
