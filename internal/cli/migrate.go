package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"loan-ledger/internal/infrastructure/database/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status>",
		Short:     "Apply or inspect schema migrations",
		Long:      "Run the embedded schema migrations against the configured database. down rolls back the most recent migration only.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(migrations.Up), string(migrations.Down), string(migrations.Status)},
		RunE:      runMigrate,
	}
}

func parseDirection(arg string) (migrations.Direction, error) {
	switch d := migrations.Direction(arg); d {
	case migrations.Up, migrations.Down, migrations.Status:
		return d, nil
	}
	return "", fmt.Errorf("unknown migration direction %q (want up, down or status)", arg)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction, err := parseDirection(args[0])
	if err != nil {
		return err
	}

	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.Run(ctx, pool, direction, logger); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"direction": string(direction),
			"status":    "ok",
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrations %s complete.\n", direction)
	return nil
}
