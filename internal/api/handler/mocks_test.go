package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"loan-ledger/internal/domain/customer"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockCustomerService struct {
	mock.Mock
}

var _ customer.CustomerService = (*MockCustomerService)(nil)

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, accountNo string) (*customer.Customer, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) CustomerExists(ctx context.Context, accountNo string) (bool, error) {
	ret := _m.Called(ctx, accountNo)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerService) CreateCustomer(ctx context.Context, params customer.NewCustomerParams) (*customer.Customer, error) {
	ret := _m.Called(ctx, params)

	var r0 *customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context, customer.NewCustomerParams) *customer.Customer); ok {
		r0 = rf(ctx, params)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateLatestComment(ctx context.Context, accountNo, text string) (*customer.Comment, error) {
	ret := _m.Called(ctx, accountNo, text)

	var r0 *customer.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Comment)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteCustomer(ctx context.Context, accountNo string) error {
	ret := _m.Called(ctx, accountNo)
	return ret.Error(0)
}

func (_m *MockCustomerService) ListComments(ctx context.Context, accountNo string) ([]*customer.Comment, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 []*customer.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Comment)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) AddComment(ctx context.Context, accountNo, text string) (*customer.Comment, error) {
	ret := _m.Called(ctx, accountNo, text)

	var r0 *customer.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Comment)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) UpdateComment(ctx context.Context, commentID int64, text string) (*customer.Comment, error) {
	ret := _m.Called(ctx, commentID, text)

	var r0 *customer.Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Comment)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) DeleteComment(ctx context.Context, commentID int64) error {
	ret := _m.Called(ctx, commentID)
	return ret.Error(0)
}

func (_m *MockCustomerService) DeleteAllComments(ctx context.Context, accountNo string) (int64, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
}

// withURLParams attaches chi route parameters, given as key/value pairs.
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
