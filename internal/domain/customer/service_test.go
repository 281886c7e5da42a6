package customer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/event"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	created   []event.CustomerCreatedEvent
	deleted   []event.CustomerDeletedEvent
	commented []event.CustomerCommentedEvent
	err       error
}

func (p *recordingPublisher) PublishCustomerCreated(_ context.Context, e event.CustomerCreatedEvent) error {
	p.created = append(p.created, e)
	return p.err
}

func (p *recordingPublisher) PublishCustomerDeleted(_ context.Context, e event.CustomerDeletedEvent) error {
	p.deleted = append(p.deleted, e)
	return p.err
}

func (p *recordingPublisher) PublishCustomerCommented(_ context.Context, e event.CustomerCommentedEvent) error {
	p.commented = append(p.commented, e)
	return p.err
}

type serviceFixture struct {
	repo     *customer.MockCustomerRepository
	comments *customer.MockCommentRepository
	pub      *recordingPublisher
	service  customer.CustomerService
}

func setupTest() serviceFixture {
	f := serviceFixture{
		repo:     new(customer.MockCustomerRepository),
		comments: new(customer.MockCommentRepository),
		pub:      &recordingPublisher{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = customer.NewCustomerService(f.repo, f.comments, f.pub, logger)
	return f
}

func createParams() customer.NewCustomerParams {
	return customer.NewCustomerParams{
		AccountNo:    "ACC100",
		Name:         "Test Borrower",
		Address:      "1 Test Street",
		SanctionAmt:  decimal.RequireFromString("100000.00"),
		SanctionDate: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		Comment:      "File opened",
	}
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Exists", ctx, "ACC100").Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(c *customer.Customer) bool {
			return c.AccountNo == "ACC100" && c.Name == "Test Borrower"
		}), "File opened").Return(nil).Once()

		cust, err := f.service.CreateCustomer(ctx, createParams())

		require.NoError(t, err)
		assert.Equal(t, "ACC100", cust.AccountNo)
		require.Len(t, f.pub.created, 1)
		assert.Equal(t, "100000.00", f.pub.created[0].Payload.SanctionAmt)
		assert.Equal(t, "2022-04-01", f.pub.created[0].Payload.SanctionDate)
		f.repo.AssertExpectations(t)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		f := setupTest()
		p := createParams()
		p.Name = "  "

		cust, err := f.service.CreateCustomer(ctx, p)

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error - Duplicate Account Number", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Exists", ctx, "ACC100").Return(true, nil).Once()

		cust, err := f.service.CreateCustomer(ctx, createParams())

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrAlreadyExists)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.pub.created)
	})

	t.Run("Error - Unique Violation On Insert", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Exists", ctx, "ACC100").Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.Anything, "File opened").Return(apperrors.ErrAlreadyExists).Once()

		_, err := f.service.CreateCustomer(ctx, createParams())

		assert.ErrorIs(t, err, customer.ErrAlreadyExists)
	})

	t.Run("Error - Repository Save Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("database connection failed")
		f.repo.On("Exists", ctx, "ACC100").Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.Anything, "File opened").Return(dbError).Once()

		_, err := f.service.CreateCustomer(ctx, createParams())

		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to save new customer")
	})

	t.Run("Publisher failure does not fail creation", func(t *testing.T) {
		f := setupTest()
		f.pub.err = errors.New("broker down")
		f.repo.On("Exists", ctx, "ACC100").Return(false, nil).Once()
		f.repo.On("Create", ctx, mock.Anything, "File opened").Return(nil).Once()

		cust, err := f.service.CreateCustomer(ctx, createParams())

		assert.NoError(t, err)
		assert.NotNil(t, cust)
	})
}

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		expected := &customer.Customer{AccountNo: "ACC1", Name: "Test"}
		f.repo.On("FindByAccountNo", ctx, "ACC1").Return(expected, nil).Once()

		cust, err := f.service.GetCustomer(ctx, "ACC1")

		assert.NoError(t, err)
		assert.Equal(t, expected, cust)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindByAccountNo", ctx, "NOPE").Return(nil, customer.ErrNotFound).Once()

		cust, err := f.service.GetCustomer(ctx, "NOPE")

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("internal server error")
		f.repo.On("FindByAccountNo", ctx, "ACC1").Return(nil, dbError).Once()

		_, err := f.service.GetCustomer(ctx, "ACC1")

		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to get customer ACC1")
	})
}

func TestCustomerService_ListCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Empty List", func(t *testing.T) {
		f := setupTest()
		f.repo.On("FindAll", ctx).Return([]*customer.Customer{}, nil).Once()

		customers, err := f.service.ListCustomers(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, customers)
		assert.Empty(t, customers)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("query failed")
		f.repo.On("FindAll", ctx).Return(nil, dbError).Once()

		customers, err := f.service.ListCustomers(ctx)

		assert.Nil(t, customers)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Delete", ctx, "ACC1").Return(int64(3), nil).Once()

		err := f.service.DeleteCustomer(ctx, "ACC1")

		assert.NoError(t, err)
		require.Len(t, f.pub.deleted, 1)
		assert.Equal(t, int64(3), f.pub.deleted[0].CommentsDeleted)
	})

	t.Run("Error - Not Found", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Delete", ctx, "NOPE").Return(int64(0), customer.ErrNotFound).Once()

		err := f.service.DeleteCustomer(ctx, "NOPE")

		assert.ErrorIs(t, err, customer.ErrNotFound)
		assert.Empty(t, f.pub.deleted)
	})

	t.Run("Error - Repository Failure", func(t *testing.T) {
		f := setupTest()
		dbError := errors.New("tx aborted")
		f.repo.On("Delete", ctx, "ACC1").Return(int64(0), dbError).Once()

		err := f.service.DeleteCustomer(ctx, "ACC1")

		assert.ErrorIs(t, err, dbError)
		assert.Contains(t, err.Error(), "failed to delete customer ACC1")
	})
}

func TestCustomerService_Comments(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("ListComments - customer missing", func(t *testing.T) {
		f := setupTest()
		f.repo.On("Exists", ctx, "NOPE").Return(false, nil).Once()

		comments, err := f.service.ListComments(ctx, "NOPE")

		assert.Nil(t, comments)
		assert.ErrorIs(t, err, customer.ErrNotFound)
		f.comments.AssertNotCalled(t, "ListByAccountNo", mock.Anything, mock.Anything)
	})

	t.Run("ListComments - success", func(t *testing.T) {
		f := setupTest()
		expected := []*customer.Comment{{ID: 2, AccountNo: "ACC1", Text: "second"}, {ID: 1, AccountNo: "ACC1", Text: "first"}}
		f.repo.On("Exists", ctx, "ACC1").Return(true, nil).Once()
		f.comments.On("ListByAccountNo", ctx, "ACC1").Return(expected, nil).Once()

		comments, err := f.service.ListComments(ctx, "ACC1")

		assert.NoError(t, err)
		assert.Equal(t, expected, comments)
	})

	t.Run("AddComment - trims text", func(t *testing.T) {
		f := setupTest()
		created := &customer.Comment{ID: 7, AccountNo: "ACC1", Text: "Called borrower", CreatedAt: now, UpdatedAt: now}
		f.comments.On("Add", ctx, "ACC1", "Called borrower").Return(created, nil).Once()

		comment, err := f.service.AddComment(ctx, "ACC1", "  Called borrower  ")

		assert.NoError(t, err)
		assert.Equal(t, created, comment)
		require.Len(t, f.pub.commented, 1)
		assert.Equal(t, event.CommentAdded, f.pub.commented[0].Action)
	})

	t.Run("AddComment - blank text", func(t *testing.T) {
		f := setupTest()

		_, err := f.service.AddComment(ctx, "ACC1", "   ")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.comments.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AddComment - unknown customer", func(t *testing.T) {
		f := setupTest()
		f.comments.On("Add", ctx, "NOPE", "hello").Return(nil, customer.ErrNotFound).Once()

		_, err := f.service.AddComment(ctx, "NOPE", "hello")

		assert.ErrorIs(t, err, customer.ErrNotFound)
	})

	t.Run("UpdateComment - not found", func(t *testing.T) {
		f := setupTest()
		f.comments.On("Update", ctx, int64(99), "edited").Return(nil, customer.ErrCommentNotFound).Once()

		_, err := f.service.UpdateComment(ctx, 99, "edited")

		assert.ErrorIs(t, err, customer.ErrCommentNotFound)
	})

	t.Run("UpdateLatestComment - success", func(t *testing.T) {
		f := setupTest()
		updated := &customer.Comment{ID: 4, AccountNo: "ACC1", Text: "Restructured"}
		f.comments.On("UpsertLatest", ctx, "ACC1", "Restructured").Return(updated, nil).Once()

		comment, err := f.service.UpdateLatestComment(ctx, "ACC1", "Restructured")

		assert.NoError(t, err)
		assert.Equal(t, int64(4), comment.ID)
		require.Len(t, f.pub.commented, 1)
		assert.Equal(t, event.CommentUpdated, f.pub.commented[0].Action)
	})

	t.Run("DeleteComment - not found", func(t *testing.T) {
		f := setupTest()
		f.comments.On("Delete", ctx, int64(5)).Return("", customer.ErrCommentNotFound).Once()

		err := f.service.DeleteComment(ctx, 5)

		assert.ErrorIs(t, err, customer.ErrCommentNotFound)
		assert.Empty(t, f.pub.commented)
	})

	t.Run("DeleteComment - event names the owning account", func(t *testing.T) {
		f := setupTest()
		f.comments.On("Delete", ctx, int64(7)).Return("ACC1", nil).Once()

		err := f.service.DeleteComment(ctx, 7)

		require.NoError(t, err)
		require.Len(t, f.pub.commented, 1)
		assert.Equal(t, "ACC1", f.pub.commented[0].AccountNo)
		assert.Equal(t, int64(7), f.pub.commented[0].CommentID)
		assert.Equal(t, event.CommentDeleted, f.pub.commented[0].Action)
	})

	t.Run("DeleteAllComments - returns count", func(t *testing.T) {
		f := setupTest()
		f.comments.On("DeleteAllByAccountNo", ctx, "ACC1").Return(int64(4), nil).Once()

		count, err := f.service.DeleteAllComments(ctx, "ACC1")

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		require.Len(t, f.pub.commented, 1)
		assert.Equal(t, int64(4), f.pub.commented[0].Count)
	})

	t.Run("DeleteAllComments - nothing to delete publishes nothing", func(t *testing.T) {
		f := setupTest()
		f.comments.On("DeleteAllByAccountNo", ctx, "ACC1").Return(int64(0), nil).Once()

		count, err := f.service.DeleteAllComments(ctx, "ACC1")

		assert.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, f.pub.commented)
	})
}
