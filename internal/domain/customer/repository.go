package customer

import (
	"context"
	"fmt"

	"loan-ledger/internal/pkg/apperrors"
)

var (
	ErrNotFound = fmt.Errorf("%w: customer not found", apperrors.ErrNotFound)

	ErrCommentNotFound = fmt.Errorf("%w: comment not found", apperrors.ErrNotFound)

	ErrAlreadyExists = fmt.Errorf("%w: customer with this account number already exists", apperrors.ErrAlreadyExists)
)

type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	FindByAccountNo(ctx context.Context, accountNo string) (*Customer, error)

	Exists(ctx context.Context, accountNo string) (bool, error)

	// Create inserts the customer and, when initialComment is not blank,
	// its first comment in the same transaction.
	Create(ctx context.Context, customer *Customer, initialComment string) error

	// Delete removes the customer and all of its comments atomically and
	// returns the number of comments removed.
	Delete(ctx context.Context, accountNo string) (int64, error)
}

type CommentRepository interface {
	ListByAccountNo(ctx context.Context, accountNo string) ([]*Comment, error)

	Add(ctx context.Context, accountNo, text string) (*Comment, error)

	Update(ctx context.Context, commentID int64, text string) (*Comment, error)

	// Delete returns the account number of the removed comment.
	Delete(ctx context.Context, commentID int64) (string, error)

	DeleteAllByAccountNo(ctx context.Context, accountNo string) (int64, error)

	// UpsertLatest rewrites the newest comment of the account, inserting one
	// when the account has none.
	UpsertLatest(ctx context.Context, accountNo, text string) (*Comment, error)
}
