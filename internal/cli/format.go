package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"loan-ledger/internal/domain/importer"
)

// printJSON marshals v as indented JSON and writes it to out.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printImportReport(out io.Writer, result *importer.Result) {
	fmt.Fprintf(out, "Imported: %d\n", result.ImportedCount)
	fmt.Fprintf(out, "Failed:   %d\n", result.ErrorCount)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  %s\n", msg)
	}
}
