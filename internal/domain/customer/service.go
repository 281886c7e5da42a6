package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"loan-ledger/internal/event"
	"loan-ledger/internal/pkg/apperrors"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, accountNo string) (*Customer, error)
	CustomerExists(ctx context.Context, accountNo string) (bool, error)
	CreateCustomer(ctx context.Context, params NewCustomerParams) (*Customer, error)
	UpdateLatestComment(ctx context.Context, accountNo, text string) (*Comment, error)
	DeleteCustomer(ctx context.Context, accountNo string) error
	ListComments(ctx context.Context, accountNo string) ([]*Comment, error)
	AddComment(ctx context.Context, accountNo, text string) (*Comment, error)
	UpdateComment(ctx context.Context, commentID int64, text string) (*Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
	DeleteAllComments(ctx context.Context, accountNo string) (int64, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo     CustomerRepository
	comments CommentRepository
	pub      event.EventPublisher
	logger   *slog.Logger
}

func NewCustomerService(repo CustomerRepository, comments CommentRepository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if comments == nil {
		panic("comment repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if pub == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will be dropped")
		pub = event.NewNoopPublisher(logger)
	}

	return &customerService{
		repo:     repo,
		comments: comments,
		pub:      pub,
		logger:   logger.With("component", "CustomerService"),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	payload := event.CustomerEventPayload{
		AccountNo:    cust.AccountNo,
		Name:         cust.Name,
		Address:      cust.Address,
		SanctionAmt:  cust.SanctionAmt.StringFixed(2),
		SanctionDate: FormatDate(cust.SanctionDate),
	}
	if cust.NPADate != nil {
		npa := FormatDate(*cust.NPADate)
		payload.NPADate = &npa
	}
	return payload
}

func (s *customerService) publishCommented(ctx context.Context, evt event.CustomerCommentedEvent) {
	evt.Timestamp = time.Now()
	if err := s.pub.PublishCustomerCommented(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer commented event", slog.Any("error", err), slog.String("action", string(evt.Action)))
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, accountNo string) (*Customer, error) {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to get customer by account number")

	cust, err := s.repo.FindByAccountNo(ctx, accountNo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %s: %w", accountNo, err)
	}

	logCtx.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) CustomerExists(ctx context.Context, accountNo string) (bool, error) {
	exists, err := s.repo.Exists(ctx, accountNo)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error checking customer existence", slog.String("accountNo", accountNo), slog.Any("error", err))
		return false, fmt.Errorf("failed to check customer %s: %w", accountNo, err)
	}
	return exists, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, params NewCustomerParams) (*Customer, error) {
	logCtx := s.logger.With(slog.String("accountNo", params.AccountNo))
	logCtx.InfoContext(ctx, "Attempting to create new customer")

	cust, err := NewCustomer(params)
	if err != nil {
		logCtx.WarnContext(ctx, "Validation failed for new customer", slog.Any("error", err))
		return nil, err
	}
	logCtx.DebugContext(ctx, inputValidationPassed)

	exists, err := s.repo.Exists(ctx, cust.AccountNo)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error checking for duplicate account number", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check account number %s: %w", cust.AccountNo, err)
	}
	if exists {
		logCtx.WarnContext(ctx, "Customer with this account number already exists")
		return nil, ErrAlreadyExists
	}

	if err := s.repo.Create(ctx, cust, params.Comment); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Lost duplicate race on insert, unique constraint rejected customer")
			return nil, ErrAlreadyExists
		}
		logCtx.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	created := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, created); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully created new customer")
	return cust, nil
}

func (s *customerService) UpdateLatestComment(ctx context.Context, accountNo, text string) (*Comment, error) {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to update latest customer comment")

	text, err := validateCommentText(text)
	if err != nil {
		logCtx.WarnContext(ctx, "Validation failed: comment is empty")
		return nil, err
	}

	comment, err := s.comments.UpsertLatest(ctx, accountNo, text)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error updating latest comment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update comment for customer %s: %w", accountNo, err)
	}

	s.publishCommented(ctx, event.CustomerCommentedEvent{AccountNo: accountNo, CommentID: comment.ID, Action: event.CommentUpdated})
	logCtx.InfoContext(ctx, "Successfully updated latest comment", slog.Int64("commentID", comment.ID))
	return comment, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, accountNo string) error {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to delete customer")

	purged, err := s.repo.Delete(ctx, accountNo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %s: %w", accountNo, err)
	}

	deleted := event.CustomerDeletedEvent{
		Timestamp:       time.Now(),
		AccountNo:       accountNo,
		CommentsDeleted: purged,
	}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deleted); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully deleted customer", slog.Int64("commentsDeleted", purged))
	return nil
}

func (s *customerService) ListComments(ctx context.Context, accountNo string) ([]*Comment, error) {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to list customer comments")

	exists, err := s.repo.Exists(ctx, accountNo)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error checking customer existence", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check customer %s: %w", accountNo, err)
	}
	if !exists {
		logCtx.WarnContext(ctx, customerNotFound)
		return nil, ErrNotFound
	}

	comments, err := s.comments.ListByAccountNo(ctx, accountNo)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing comments", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list comments for customer %s: %w", accountNo, err)
	}

	logCtx.InfoContext(ctx, "Successfully listed comments", slog.Int("count", len(comments)))
	return comments, nil
}

func (s *customerService) AddComment(ctx context.Context, accountNo, text string) (*Comment, error) {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to add comment")

	text, err := validateCommentText(text)
	if err != nil {
		logCtx.WarnContext(ctx, "Validation failed: comment is empty")
		return nil, err
	}

	comment, err := s.comments.Add(ctx, accountNo, text)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error adding comment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to add comment for customer %s: %w", accountNo, err)
	}

	s.publishCommented(ctx, event.CustomerCommentedEvent{AccountNo: accountNo, CommentID: comment.ID, Action: event.CommentAdded})
	logCtx.InfoContext(ctx, "Successfully added comment", slog.Int64("commentID", comment.ID))
	return comment, nil
}

func (s *customerService) UpdateComment(ctx context.Context, commentID int64, text string) (*Comment, error) {
	logCtx := s.logger.With(slog.Int64("commentID", commentID))
	logCtx.InfoContext(ctx, "Attempting to update comment")

	text, err := validateCommentText(text)
	if err != nil {
		logCtx.WarnContext(ctx, "Validation failed: comment is empty")
		return nil, err
	}

	comment, err := s.comments.Update(ctx, commentID, text)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			logCtx.WarnContext(ctx, "Comment not found by repository")
			return nil, ErrCommentNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error updating comment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update comment %d: %w", commentID, err)
	}

	s.publishCommented(ctx, event.CustomerCommentedEvent{AccountNo: comment.AccountNo, CommentID: commentID, Action: event.CommentUpdated})
	logCtx.InfoContext(ctx, "Successfully updated comment")
	return comment, nil
}

func (s *customerService) DeleteComment(ctx context.Context, commentID int64) error {
	logCtx := s.logger.With(slog.Int64("commentID", commentID))
	logCtx.InfoContext(ctx, "Attempting to delete comment")

	accountNo, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			logCtx.WarnContext(ctx, "Comment not found by repository")
			return ErrCommentNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error deleting comment", slog.Any("error", err))
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}

	s.publishCommented(ctx, event.CustomerCommentedEvent{AccountNo: accountNo, CommentID: commentID, Action: event.CommentDeleted})
	logCtx.InfoContext(ctx, "Successfully deleted comment", slog.String("accountNo", accountNo))
	return nil
}

func (s *customerService) DeleteAllComments(ctx context.Context, accountNo string) (int64, error) {
	logCtx := s.logger.With(slog.String("accountNo", accountNo))
	logCtx.InfoContext(ctx, "Attempting to delete all comments")

	count, err := s.comments.DeleteAllByAccountNo(ctx, accountNo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return 0, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error deleting comments", slog.Any("error", err))
		return 0, fmt.Errorf("failed to delete comments for customer %s: %w", accountNo, err)
	}

	if count > 0 {
		s.publishCommented(ctx, event.CustomerCommentedEvent{AccountNo: accountNo, Action: event.CommentsClear, Count: count})
	}
	logCtx.InfoContext(ctx, "Successfully deleted comments", slog.Int64("deletedCount", count))
	return count, nil
}
