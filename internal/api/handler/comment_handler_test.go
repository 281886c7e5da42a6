package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-ledger/internal/api/handler"
	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleComment(id int64, text string) *customer.Comment {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return &customer.Comment{ID: id, AccountNo: "ACC001", Text: text, CreatedAt: ts, UpdatedAt: ts}
}

func TestListComments(t *testing.T) {
	mockService := new(MockCustomerService)
	h := handler.NewCommentHandler(mockService, testLogger)

	t.Run("newest first as returned by the service", func(t *testing.T) {
		mockService.On("ListComments", mock.Anything, "ACC001").
			Return([]*customer.Comment{sampleComment(2, "second"), sampleComment(1, "first")}, nil).Once()

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/customer/ACC001/comments", nil), "accountNo", "ACC001")
		rec := httptest.NewRecorder()
		h.ListComments(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.CommentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, int64(2), resp[0].ID)
		assert.Equal(t, "second", resp[0].Comment)
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockService.On("ListComments", mock.Anything, "NOPE").Return(nil, customer.ErrNotFound).Once()

		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/customer/NOPE/comments", nil), "accountNo", "NOPE")
		rec := httptest.NewRecorder()
		h.ListComments(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	mockService.AssertExpectations(t)
}

func TestAddComment(t *testing.T) {
	add := func(h *handler.CommentHandler, accountNo, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/customer/"+accountNo+"/comments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.AddComment(rec, withURLParams(req, "accountNo", accountNo))
		return rec
	}

	t.Run("created", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)
		mockService.On("AddComment", mock.Anything, "ACC001", "Visited branch").Return(sampleComment(7, "Visited branch"), nil).Once()

		rec := add(h, "ACC001", `{"comment":"Visited branch"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp dto.CommentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "ACC001", resp.AccountNo)
	})

	t.Run("blank text", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)
		mockService.On("AddComment", mock.Anything, "ACC001", "").
			Return(nil, apperrors.NewValidationError("comment", "cannot be empty")).Once()

		rec := add(h, "ACC001", `{"comment":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)
		mockService.On("AddComment", mock.Anything, "NOPE", "x").Return(nil, customer.ErrNotFound).Once()

		rec := add(h, "NOPE", `{"comment":"x"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Customer not found", decodeError(t, rec).Message)
	})
}

func TestUpdateComment(t *testing.T) {
	update := func(h *handler.CommentHandler, id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/customer/comments/"+id, strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.UpdateComment(rec, withURLParams(req, "commentId", id))
		return rec
	}

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)
		mockService.On("UpdateComment", mock.Anything, int64(3), "edited").Return(sampleComment(3, "edited"), nil).Once()

		rec := update(h, "3", `{"comment":"edited"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CommentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "edited", resp.Comment)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)

		rec := update(h, "abc", `{"comment":"edited"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("comment not found", func(t *testing.T) {
		mockService := new(MockCustomerService)
		h := handler.NewCommentHandler(mockService, testLogger)
		mockService.On("UpdateComment", mock.Anything, int64(99), "edited").Return(nil, customer.ErrCommentNotFound).Once()

		rec := update(h, "99", `{"comment":"edited"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Comment not found", decodeError(t, rec).Message)
	})
}

func TestDeleteComment(t *testing.T) {
	mockService := new(MockCustomerService)
	h := handler.NewCommentHandler(mockService, testLogger)

	t.Run("success", func(t *testing.T) {
		mockService.On("DeleteComment", mock.Anything, int64(5)).Return(nil).Once()

		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/comments/5", nil), "commentId", "5")
		rec := httptest.NewRecorder()
		h.DeleteComment(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Comment deleted successfully"}`, rec.Body.String())
	})

	t.Run("comment not found", func(t *testing.T) {
		mockService.On("DeleteComment", mock.Anything, int64(6)).Return(customer.ErrCommentNotFound).Once()

		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/comments/6", nil), "commentId", "6")
		rec := httptest.NewRecorder()
		h.DeleteComment(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("zero id rejected", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/comments/0", nil), "commentId", "0")
		rec := httptest.NewRecorder()
		h.DeleteComment(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	mockService.AssertExpectations(t)
}

func TestDeleteAllComments(t *testing.T) {
	mockService := new(MockCustomerService)
	h := handler.NewCommentHandler(mockService, testLogger)

	t.Run("reports deleted count", func(t *testing.T) {
		mockService.On("DeleteAllComments", mock.Anything, "ACC001").Return(int64(3), nil).Once()

		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/ACC001/comments", nil), "accountNo", "ACC001")
		rec := httptest.NewRecorder()
		h.DeleteAllComments(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Comments deleted successfully","accountNo":"ACC001","deletedCount":3}`, rec.Body.String())
	})

	t.Run("customer without comments", func(t *testing.T) {
		mockService.On("DeleteAllComments", mock.Anything, "ACC002").Return(int64(0), nil).Once()

		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/ACC002/comments", nil), "accountNo", "ACC002")
		rec := httptest.NewRecorder()
		h.DeleteAllComments(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Comments deleted successfully","accountNo":"ACC002","deletedCount":0}`, rec.Body.String())
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockService.On("DeleteAllComments", mock.Anything, "NOPE").Return(int64(0), customer.ErrNotFound).Once()

		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customer/NOPE/comments", nil), "accountNo", "NOPE")
		rec := httptest.NewRecorder()
		h.DeleteAllComments(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	mockService.AssertExpectations(t)
}
