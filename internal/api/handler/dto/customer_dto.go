package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest is the POST /api/customer body. SanctionAmt accepts
// either a JSON number or a numeric string.
type CreateCustomerRequest struct {
	AccountNo    string          `json:"account_no"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	SanctionAmt  json.RawMessage `json:"sanction_amt" swaggertype:"string" example:"150000.00"`
	SanctionDate string          `json:"sanction_date" example:"2023-02-01"`
	NPADate      *string         `json:"npa_date,omitempty" example:"2024-01-15"`
	Comment      string          `json:"comment,omitempty"`
}

func (r *CreateCustomerRequest) missingFields() []string {
	var missing []string
	if strings.TrimSpace(r.AccountNo) == "" {
		missing = append(missing, "account_no")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Address) == "" {
		missing = append(missing, "address")
	}
	if rawAmount(r.SanctionAmt) == "" {
		missing = append(missing, "sanction_amt")
	}
	if strings.TrimSpace(r.SanctionDate) == "" {
		missing = append(missing, "sanction_date")
	}
	return missing
}

// ToParams checks presence of the required fields and converts the request
// into domain parameters. Dates go through the same normalization as
// spreadsheet cells.
func (r *CreateCustomerRequest) ToParams() (customer.NewCustomerParams, error) {
	if missing := r.missingFields(); len(missing) > 0 {
		return customer.NewCustomerParams{}, apperrors.NewMissingFieldsError(missing)
	}

	amount, err := decimal.NewFromString(rawAmount(r.SanctionAmt))
	if err != nil {
		return customer.NewCustomerParams{}, apperrors.NewValidationError("sanction_amt", "must be a number")
	}

	sanctionDate, err := customer.ParseDate(customer.NormalizeDate(r.SanctionDate))
	if err != nil {
		return customer.NewCustomerParams{}, apperrors.NewValidationError("sanction_date", "must be a date in YYYY-MM-DD format")
	}

	params := customer.NewCustomerParams{
		AccountNo:    r.AccountNo,
		Name:         r.Name,
		Address:      r.Address,
		SanctionAmt:  amount,
		SanctionDate: sanctionDate,
		Comment:      r.Comment,
	}

	if r.NPADate != nil && strings.TrimSpace(*r.NPADate) != "" {
		npa, err := customer.ParseDate(customer.NormalizeDate(*r.NPADate))
		if err != nil {
			return customer.NewCustomerParams{}, apperrors.NewValidationError("npa_date", "must be a date in YYYY-MM-DD format")
		}
		params.NPADate = &npa
	}

	return params, nil
}

// rawAmount returns the textual amount of a number or string JSON value,
// or "" for absent, null and blank values.
func rawAmount(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

type CustomerResponse struct {
	AccountNo    string  `json:"account_no" example:"ACC001"`
	Name         string  `json:"name" example:"Asha Rao"`
	Address      string  `json:"address" example:"12 MG Road, Pune"`
	SanctionAmt  string  `json:"sanction_amt" example:"150000.00"`
	SanctionDate string  `json:"sanction_date" example:"2023-02-01"`
	NPADate      *string `json:"npa_date" example:"2024-01-15"`
	Comment      *string `json:"comment"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	resp := CustomerResponse{
		AccountNo:    cust.AccountNo,
		Name:         cust.Name,
		Address:      cust.Address,
		SanctionAmt:  cust.SanctionAmt.StringFixed(2),
		SanctionDate: customer.FormatDate(cust.SanctionDate),
		Comment:      cust.Comment,
	}
	if cust.NPADate != nil {
		npa := customer.FormatDate(*cust.NPADate)
		resp.NPADate = &npa
	}
	return resp
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		resp = append(resp, NewCustomerResponse(cust))
	}
	return resp
}

type CreateCustomerResponse struct {
	Message   string `json:"message" example:"Customer created successfully"`
	AccountNo string `json:"accountNo" example:"ACC001"`
}

type DeleteCustomerResponse struct {
	Message   string `json:"message" example:"Customer deleted successfully"`
	AccountNo string `json:"accountNo" example:"ACC001"`
}
