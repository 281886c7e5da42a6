package customer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) FindAll(ctx context.Context) ([]*Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*Customer
	if rf, ok := ret.Get(0).(func(context.Context) []*Customer); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerRepository) FindByAccountNo(ctx context.Context, accountNo string) (*Customer, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, string) *Customer); ok {
		r0 = rf(ctx, accountNo)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, accountNo)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerRepository) Exists(ctx context.Context, accountNo string) (bool, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, accountNo)
	} else {
		r0 = ret.Bool(0)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Create(ctx context.Context, customer *Customer, initialComment string) error {
	ret := _m.Called(ctx, customer, initialComment)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer, string) error); ok {
		r0 = rf(ctx, customer, initialComment)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, accountNo string) (int64, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 int64
	if rf, ok := ret.Get(0).(func(context.Context, string) int64); ok {
		r0 = rf(ctx, accountNo)
	} else {
		r0 = ret.Get(0).(int64)
	}

	return r0, ret.Error(1)
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)

type MockCommentRepository struct {
	mock.Mock
}

func (_m *MockCommentRepository) ListByAccountNo(ctx context.Context, accountNo string) ([]*Comment, error) {
	ret := _m.Called(ctx, accountNo)

	var r0 []*Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Comment)
	}

	return r0, ret.Error(1)
}

func (_m *MockCommentRepository) Add(ctx context.Context, accountNo, text string) (*Comment, error) {
	ret := _m.Called(ctx, accountNo, text)

	var r0 *Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Comment)
	}

	return r0, ret.Error(1)
}

func (_m *MockCommentRepository) Update(ctx context.Context, commentID int64, text string) (*Comment, error) {
	ret := _m.Called(ctx, commentID, text)

	var r0 *Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Comment)
	}

	return r0, ret.Error(1)
}

func (_m *MockCommentRepository) Delete(ctx context.Context, commentID int64) (string, error) {
	ret := _m.Called(ctx, commentID)
	return ret.String(0), ret.Error(1)
}

func (_m *MockCommentRepository) DeleteAllByAccountNo(ctx context.Context, accountNo string) (int64, error) {
	ret := _m.Called(ctx, accountNo)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockCommentRepository) UpsertLatest(ctx context.Context, accountNo, text string) (*Comment, error) {
	ret := _m.Called(ctx, accountNo, text)

	var r0 *Comment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Comment)
	}

	return r0, ret.Error(1)
}

var _ CommentRepository = (*MockCommentRepository)(nil)
