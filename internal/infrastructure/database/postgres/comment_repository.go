package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type CommentRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db DBPool, logger *slog.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger.With("component", "CommentRepository")}
}

func scanComment(row pgx.Row) (*customer.Comment, error) {
	var c customer.Comment
	if err := row.Scan(&c.ID, &c.AccountNo, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByAccountNo(ctx context.Context, accountNo string) ([]*customer.Comment, error) {
	logCtx := r.logger.With(slog.String("operation", "ListByAccountNo"), slog.String("accountNo", accountNo))
	logCtx.DebugContext(ctx, "Listing comments")

	query := `
        SELECT id, account_no, comment, created_at, updated_at
        FROM customer_comments
        WHERE account_no = $1
        ORDER BY created_at DESC, id DESC`

	startTime := time.Now()
	rows, err := r.db.Query(ctx, query, accountNo)
	observe("ListComments", startTime, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to query comments", slog.Any("error", err))
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	comments := make([]*customer.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			logCtx.ErrorContext(ctx, "Failed to scan comment row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed scanning comment: %w", apperrors.ErrDatabase, err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		logCtx.ErrorContext(ctx, "Error iterating comment rows", slog.Any("error", err))
		return nil, fmt.Errorf("%w: error iterating comments: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished listing comments", slog.Int("count", len(comments)))
	return comments, nil
}

func (r *CommentRepository) Add(ctx context.Context, accountNo, text string) (*customer.Comment, error) {
	logCtx := r.logger.With(slog.String("operation", "Add"), slog.String("accountNo", accountNo))

	query := `
        INSERT INTO customer_comments (account_no, comment)
        VALUES ($1, $2)
        RETURNING id, account_no, comment, created_at, updated_at`

	startTime := time.Now()
	c, err := scanComment(r.db.QueryRow(ctx, query, accountNo, text))
	observe("AddComment", startTime, err)
	if err != nil {
		translated := translateDBError(err, logCtx)
		if errors.Is(translated, apperrors.ErrNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, translated
	}

	logCtx.InfoContext(ctx, "Comment added", slog.Int64("commentID", c.ID))
	return c, nil
}

func (r *CommentRepository) Update(ctx context.Context, commentID int64, text string) (*customer.Comment, error) {
	logCtx := r.logger.With(slog.String("operation", "Update"), slog.Int64("commentID", commentID))

	query := `
        UPDATE customer_comments
        SET comment = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id, account_no, comment, created_at, updated_at`

	startTime := time.Now()
	c, err := scanComment(r.db.QueryRow(ctx, query, text, commentID))
	observe("UpdateComment", startTime, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Comment not found")
			return nil, customer.ErrCommentNotFound
		}
		return nil, translateDBError(err, logCtx)
	}

	logCtx.InfoContext(ctx, "Comment updated")
	return c, nil
}

// Delete removes one comment and returns the account it belonged to.
func (r *CommentRepository) Delete(ctx context.Context, commentID int64) (string, error) {
	logCtx := r.logger.With(slog.String("operation", "Delete"), slog.Int64("commentID", commentID))

	var accountNo string
	startTime := time.Now()
	err := r.db.QueryRow(ctx, `DELETE FROM customer_comments WHERE id = $1 RETURNING account_no`, commentID).Scan(&accountNo)
	observe("DeleteComment", startTime, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logCtx.WarnContext(ctx, "Delete affected zero rows, comment likely not found")
			return "", customer.ErrCommentNotFound
		}
		logCtx.ErrorContext(ctx, "Failed to delete comment", slog.Any("error", err))
		return "", fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Comment deleted", slog.String("accountNo", accountNo))
	return accountNo, nil
}

func (r *CommentRepository) DeleteAllByAccountNo(ctx context.Context, accountNo string) (int64, error) {
	logCtx := r.logger.With(slog.String("operation", "DeleteAllByAccountNo"), slog.String("accountNo", accountNo))

	if err := r.ensureCustomer(ctx, accountNo, logCtx); err != nil {
		return 0, err
	}

	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM customer_comments WHERE account_no = $1`, accountNo)
	observe("DeleteAllComments", startTime, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to delete comments", slog.Any("error", err))
		return 0, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	logCtx.InfoContext(ctx, "Comments deleted", slog.Int64("deletedCount", cmdTag.RowsAffected()))
	return cmdTag.RowsAffected(), nil
}

func (r *CommentRepository) UpsertLatest(ctx context.Context, accountNo, text string) (*customer.Comment, error) {
	logCtx := r.logger.With(slog.String("operation", "UpsertLatest"), slog.String("accountNo", accountNo))

	if err := r.ensureCustomer(ctx, accountNo, logCtx); err != nil {
		return nil, err
	}

	query := `
        UPDATE customer_comments
        SET comment = $1, updated_at = NOW()
        WHERE id = (
            SELECT id FROM customer_comments
            WHERE account_no = $2
            ORDER BY created_at DESC, id DESC
            LIMIT 1
        )
        RETURNING id, account_no, comment, created_at, updated_at`

	startTime := time.Now()
	c, err := scanComment(r.db.QueryRow(ctx, query, text, accountNo))
	observe("UpdateLatestComment", startTime, err)
	if err == nil {
		logCtx.InfoContext(ctx, "Latest comment updated", slog.Int64("commentID", c.ID))
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateDBError(err, logCtx)
	}

	logCtx.DebugContext(ctx, "No comment to update, inserting first comment")
	return r.Add(ctx, accountNo, text)
}

func (r *CommentRepository) ensureCustomer(ctx context.Context, accountNo string, logCtx *slog.Logger) error {
	var exists bool
	startTime := time.Now()
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer_details WHERE account_no = $1)`, accountNo).Scan(&exists)
	observe("CustomerExists", startTime, err)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to check customer existence", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	if !exists {
		logCtx.WarnContext(ctx, "Customer not found")
		return customer.ErrNotFound
	}
	return nil
}
