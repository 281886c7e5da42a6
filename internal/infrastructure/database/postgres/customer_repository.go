package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const selectCustomerColumns = `
        SELECT c.account_no, c.name, c.address, c.sanction_amt, c.sanction_date, c.npa_date, lc.comment
        FROM customer_details c
        LEFT JOIN LATERAL (
            SELECT cc.comment
            FROM customer_comments cc
            WHERE cc.account_no = c.account_no
            ORDER BY cc.created_at DESC, cc.id DESC
            LIMIT 1
        ) lc ON TRUE`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.AccountNo,
		&cust.Name,
		&cust.Address,
		&cust.SanctionAmt,
		&cust.SanctionDate,
		&cust.NPADate,
		&cust.Comment,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find all customers")

	query := selectCustomerColumns + `
        ORDER BY c.name ASC, c.account_no ASC`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query)
	observe("FindAllCustomers", startTime, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByAccountNo(ctx context.Context, accountNo string) (*customer.Customer, error) {
	logCtx := r.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to find customer by account number")

	query := selectCustomerColumns + `
        WHERE c.account_no = $1`

	startTime := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, query, accountNo))
	observe("FindCustomerByAccountNo", startTime, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Customer not found")
			return nil, customer.ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to query/scan customer by account number", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by account number: %w", apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Customer found successfully")
	return cust, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, accountNo string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM customer_details WHERE account_no = $1)`

	var exists bool
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query, accountNo).Scan(&exists)
	observe("CustomerExists", startTime, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to check customer existence", slog.String("accountNo", accountNo), slog.Any("error", err))
		return false, fmt.Errorf("%w: failed to check customer existence: %w", apperrors.ErrDatabase, err)
	}
	return exists, nil
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer, initialComment string) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	logCtx := r.logger.With(slog.String("accountNo", cust.AccountNo))
	logCtx.InfoContext(ctx, "Attempting to insert new customer")

	tx, err := beginTx(ctx, r.db, logCtx)
	if err != nil {
		return err
	}
	defer rollbackTx(ctx, tx, logCtx)

	query := `
        INSERT INTO customer_details (account_no, name, address, sanction_amt, sanction_date, npa_date)
        VALUES ($1, $2, $3, $4, $5, $6)`

	startTime := time.Now()
	_, err = tx.Exec(ctx, query,
		cust.AccountNo,
		cust.Name,
		cust.Address,
		cust.SanctionAmt,
		cust.SanctionDate,
		cust.NPADate,
	)
	observe("InsertCustomer", startTime, err)
	if err != nil {
		translatedErr := translateDBError(err, logCtx)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return translatedErr
		}
		logCtx.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return fmt.Errorf("%w: failed to insert customer: %w", apperrors.ErrDatabase, err)
	}

	if text := strings.TrimSpace(initialComment); text != "" {
		startTime = time.Now()
		_, err = tx.Exec(ctx, `INSERT INTO customer_comments (account_no, comment) VALUES ($1, $2)`, cust.AccountNo, text)
		observe("InsertInitialComment", startTime, err)
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to insert initial comment", slog.Any("error", err))
			return fmt.Errorf("%w: failed to insert initial comment: %w", apperrors.ErrDatabase, err)
		}
		cust.Comment = &text
	}

	if err := commitTx(ctx, tx, logCtx); err != nil {
		return err
	}

	logCtx.InfoContext(ctx, "Customer inserted successfully")
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, accountNo string) (int64, error) {
	logCtx := r.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to delete customer")

	tx, err := beginTx(ctx, r.db, logCtx)
	if err != nil {
		return 0, err
	}
	defer rollbackTx(ctx, tx, logCtx)

	var locked string
	startTime := time.Now()
	err = tx.QueryRow(ctx, `SELECT account_no FROM customer_details WHERE account_no = $1 FOR UPDATE`, accountNo).Scan(&locked)
	observe("LockCustomer", startTime, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Customer not found, rolling back delete")
			return 0, customer.ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to lock customer row", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to lock customer: %w", apperrors.ErrDatabase, err)
	}

	startTime = time.Now()
	commentTag, err := tx.Exec(ctx, `DELETE FROM customer_comments WHERE account_no = $1`, accountNo)
	observe("DeleteCustomerComments", startTime, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to delete customer comments", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to delete customer comments: %w", apperrors.ErrDatabase, err)
	}

	startTime = time.Now()
	cmdTag, err := tx.Exec(ctx, `DELETE FROM customer_details WHERE account_no = $1`, accountNo)
	observe("DeleteCustomer", startTime, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to delete customer: %w", apperrors.ErrDatabase, err)
	}

	// The row is locked, so losing it here means the lock did not hold.
	if cmdTag.RowsAffected() == 0 {
		logCtx.ErrorContext(ctx, "Delete affected zero rows after locking customer")
		return 0, fmt.Errorf("%w: customer %s vanished during delete", apperrors.ErrDatabase, accountNo)
	}

	if err := commitTx(ctx, tx, logCtx); err != nil {
		return 0, err
	}

	logCtx.InfoContext(ctx, "Customer deleted successfully", slog.Int64("commentsDeleted", commentTag.RowsAffected()))
	return commentTag.RowsAffected(), nil
}
