package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"
)

const (
	msgInternalServerError = "Internal server error"
	msgCustomerNotFound    = "Customer not found"
	msgCommentNotFound     = "Comment not found"
)

// decodeJSON reads a single JSON document from the body. Any decode failure
// is reported as ErrInvalidArgument; an oversized body keeps its
// *http.MaxBytesError so it maps to 413.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", apperrors.ErrInvalidArgument)
	}
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: %w", apperrors.ErrPayloadTooLarge, err)
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body is required", apperrors.ErrInvalidArgument)
	}
	return fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrInvalidArgument, err)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// respondError maps the error taxonomy onto status codes. Anything it does
// not recognise is a 500 carrying the underlying message.
func respondError(w http.ResponseWriter, err error) {
	status, resp := errorResponse(err)
	if status == http.StatusInternalServerError {
		slog.Default().Error("Unhandled internal error", "error", err)
	}
	respondJSON(w, status, resp)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var missingFields *apperrors.MissingFieldsError
	var validationError *apperrors.ValidationError

	switch {
	case errors.As(err, &missingFields):
		return http.StatusBadRequest, dto.ErrorResponse{Message: "Missing required fields", Fields: missingFields.Fields}
	case errors.As(err, &validationError):
		return http.StatusBadRequest, dto.ErrorResponse{Message: validationError.Error(), Field: validationError.Field}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, customer.ErrAlreadyExists):
		return http.StatusConflict, dto.ErrorResponse{Message: "Customer with this account number already exists"}
	case errors.Is(err, customer.ErrCommentNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Message: msgCommentNotFound}
	case errors.Is(err, customer.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Message: msgCustomerNotFound}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Message: "Resource not found"}
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, apperrors.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, dto.ErrorResponse{Message: err.Error()}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Message: msgInternalServerError, Error: err.Error()}
	}
}
