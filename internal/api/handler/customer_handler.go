package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"loan-ledger/internal/api/handler/dto"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/infrastructure/monitoring"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getAccountNoFromURL(r *http.Request) (string, error) {
	accountNo := strings.TrimSpace(chi.URLParam(r, "accountNo"))
	if accountNo == "" {
		return "", fmt.Errorf("%w: accountNo not found in URL path", apperrors.ErrInvalidArgument)
	}
	return accountNo, nil
}

// logLevelFor keeps client-caused failures out of the error log.
func logLevelFor(err error) slog.Level {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrInvalidArgument) || errors.Is(err, apperrors.ErrAlreadyExists) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ListCustomers handles GET /api/customer
// @Summary List customers
// @Description Returns every customer ordered by name, each with its most recent comment.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Customers listed", slog.Int("count", len(customers)))
	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// CreateCustomer handles POST /api/customer
// @Summary Create a customer
// @Description Creates a loan customer. sanction_amt accepts a number or a numeric string; dates accept YYYY-MM-DD or DD/MM/YYYY.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CreateCustomerResponse "Customer created"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 409 {object} dto.ErrorResponse "Account number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Create customer request rejected", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), params)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	monitoring.RecordCustomerCreated()
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.String("accountNo", created.AccountNo))
	respondJSON(w, http.StatusCreated, dto.CreateCustomerResponse{
		Message:   "Customer created successfully",
		AccountNo: created.AccountNo,
	})
}

// GetCustomer handles GET /api/customer/{accountNo}
// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Param accountNo path string true "Account number"
// @Success 200 {object} dto.CustomerResponse "Customer details"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{accountNo} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	cust, err := h.service.GetCustomer(r.Context(), accountNo)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// UpdateCustomerComment handles PATCH /api/customer/{accountNo}/comment
// @Summary Update the latest comment
// @Description Replaces the text of the customer's most recent comment, adding one if the customer has none.
// @Tags Customers
// @Accept json
// @Produce json
// @Param accountNo path string true "Account number"
// @Param request body dto.CommentRequest true "New comment text"
// @Success 200 {object} dto.MessageResponse "Comment updated"
// @Failure 400 {object} dto.ErrorResponse "Blank comment"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customer/{accountNo}/comment [patch]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomerComment(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if _, err := h.service.UpdateLatestComment(r.Context(), accountNo, req.Comment); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update comment", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Comment updated successfully"})
}

// DeleteCustomer handles DELETE /api/customer/{accountNo}
// @Summary Delete a customer
// @Description Deletes the customer and all of its comments in one transaction.
// @Tags Customers
// @Produce json
// @Param accountNo path string true "Account number"
// @Success 200 {object} dto.DeleteCustomerResponse "Customer deleted"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Error deleting customer"
// @Router /api/customer/{accountNo} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	accountNo, err := getAccountNoFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), accountNo); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			h.logger.WarnContext(r.Context(), "Customer to delete not found", slog.String("accountNo", accountNo))
			respondJSON(w, http.StatusNotFound, dto.ErrorResponse{Message: msgCustomerNotFound, Error: msgCustomerNotFound})
			return
		}
		h.logger.ErrorContext(r.Context(), "Service failed to delete customer", slog.String("accountNo", accountNo), slog.Any("error", err))
		respondJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Message: "Error deleting customer", Error: err.Error()})
		return
	}

	monitoring.RecordCustomerDeleted()
	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.String("accountNo", accountNo))
	respondJSON(w, http.StatusOK, dto.DeleteCustomerResponse{
		Message:   "Customer deleted successfully",
		AccountNo: accountNo,
	})
}
