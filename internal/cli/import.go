package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/importer"
	"loan-ledger/internal/event"
	"loan-ledger/internal/infrastructure/database/postgres"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk import customers from an XLSX or CSV file",
		Long:  "Create one customer per spreadsheet row. Rows that fail validation or already exist are reported and skipped; the rest are imported.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := importer.DetectFormat(path, "")
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

	service := customer.NewCustomerService(
		postgres.NewCustomerRepository(pool, logger),
		postgres.NewCommentRepository(pool, logger),
		event.NewNoopPublisher(logger),
		logger,
	)

	return importFile(ctx, cmd.OutOrStdout(), path, format, importer.NewImporter(service, logger))
}

// importFile runs imp over the file at path and writes the report to out.
func importFile(ctx context.Context, out io.Writer, path string, format importer.Format, imp *importer.Importer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	result, err := imp.ImportFile(ctx, f, format)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if isJSON() {
		return printJSON(out, result)
	}
	printImportReport(out, result)
	return nil
}
