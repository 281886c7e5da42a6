package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"loan-ledger/internal/domain/customer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var requiredFields = []string{"account_no", "name", "address", "sanction_amt", "sanction_date"}

// CustomerCreator is the slice of the customer service the importer needs.
type CustomerCreator interface {
	CustomerExists(ctx context.Context, accountNo string) (bool, error)
	CreateCustomer(ctx context.Context, params customer.NewCustomerParams) (*customer.Customer, error)
}

type Result struct {
	ImportedCount int      `json:"importedCount"`
	ErrorCount    int      `json:"errorCount"`
	Errors        []string `json:"errors,omitempty"`
}

func (r *Result) fail(row int, format string, args ...any) {
	r.ErrorCount++
	r.Errors = append(r.Errors, fmt.Sprintf("Row %d: ", row)+fmt.Sprintf(format, args...))
}

type Importer struct {
	customers CustomerCreator
	logger    *slog.Logger
}

func NewImporter(customers CustomerCreator, logger *slog.Logger) *Importer {
	if customers == nil {
		panic("customer creator cannot be nil for Importer")
	}
	return &Importer{customers: customers, logger: logger.With("component", "Importer")}
}

// ImportFile parses a spreadsheet and imports its rows. Only an unreadable
// file is an error; row failures are collected in the Result.
func (i *Importer) ImportFile(ctx context.Context, r io.Reader, format Format) (*Result, error) {
	rows, err := ReadRows(r, format)
	if err != nil {
		i.logger.WarnContext(ctx, "Failed to read import file", slog.String("format", string(format)), slog.Any("error", err))
		return nil, err
	}
	return i.Import(ctx, rows), nil
}

// Import creates one customer per row, strictly in order, so a row sees
// every customer created by the rows before it.
func (i *Importer) Import(ctx context.Context, rows []Row) *Result {
	runID := uuid.NewString()
	logCtx := i.logger.With(slog.String("importRun", runID))
	logCtx.InfoContext(ctx, "Starting customer import", slog.Int("rows", len(rows)))
	startTime := time.Now()

	result := &Result{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			result.fail(row.Number, "import aborted: %v", err)
			break
		}
		i.importRow(ctx, row, result, logCtx)
	}

	logCtx.InfoContext(ctx, "Customer import finished",
		slog.Int("importedCount", result.ImportedCount),
		slog.Int("errorCount", result.ErrorCount),
		slog.Duration("duration", time.Since(startTime)),
	)
	return result
}

func (i *Importer) importRow(ctx context.Context, row Row, result *Result, logCtx *slog.Logger) {
	var missing []string
	for _, field := range requiredFields {
		if row.Get(field) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		result.fail(row.Number, "Missing required fields: %s", strings.Join(missing, ", "))
		return
	}

	accountNo := row.Get("account_no")
	exists, err := i.customers.CustomerExists(ctx, accountNo)
	if err != nil {
		result.fail(row.Number, "%v", err)
		return
	}
	if exists {
		result.fail(row.Number, "Customer with account number %s already exists", accountNo)
		return
	}

	params, err := paramsFromRow(row)
	if err != nil {
		result.fail(row.Number, "%v", err)
		return
	}

	if _, err := i.customers.CreateCustomer(ctx, params); err != nil {
		if errors.Is(err, customer.ErrAlreadyExists) {
			result.fail(row.Number, "Customer with account number %s already exists", accountNo)
			return
		}
		result.fail(row.Number, "%v", err)
		return
	}

	result.ImportedCount++
	logCtx.DebugContext(ctx, "Imported customer row", slog.Int("row", row.Number), slog.String("accountNo", accountNo))
}

func paramsFromRow(row Row) (customer.NewCustomerParams, error) {
	amount, err := decimal.NewFromString(row.Get("sanction_amt"))
	if err != nil {
		return customer.NewCustomerParams{}, fmt.Errorf("invalid sanction_amt %q", row.Get("sanction_amt"))
	}

	sanctionDate, err := customer.ParseDate(customer.NormalizeDate(row.Get("sanction_date")))
	if err != nil {
		return customer.NewCustomerParams{}, fmt.Errorf("invalid sanction_date %q", row.Get("sanction_date"))
	}

	params := customer.NewCustomerParams{
		AccountNo:    row.Get("account_no"),
		Name:         row.Get("name"),
		Address:      row.Get("address"),
		SanctionAmt:  amount.Round(2),
		SanctionDate: sanctionDate,
		Comment:      row.Get("comment"),
	}

	if raw := row.Get("npa_date"); raw != "" {
		npa, err := customer.ParseDate(customer.NormalizeDate(raw))
		if err != nil {
			return customer.NewCustomerParams{}, fmt.Errorf("invalid npa_date %q", raw)
		}
		params.NPADate = &npa
	}

	return params, nil
}
