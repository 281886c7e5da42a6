package customer

import (
	"strings"
	"time"
	"unicode/utf8"

	"loan-ledger/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"

	maxAccountNoLength = 20
	maxNameLength      = 100
)

type Customer struct {
	AccountNo    string          `json:"account_no"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	SanctionAmt  decimal.Decimal `json:"sanction_amt"`
	SanctionDate time.Time       `json:"sanction_date"`
	NPADate      *time.Time      `json:"npa_date,omitempty"`
	// Comment holds the text of the most recent comment, if any.
	Comment *string `json:"comment,omitempty"`
}

type NewCustomerParams struct {
	AccountNo    string
	Name         string
	Address      string
	SanctionAmt  decimal.Decimal
	SanctionDate time.Time
	NPADate      *time.Time
	Comment      string
}

func NewCustomer(p NewCustomerParams) (*Customer, error) {
	accountNo := strings.TrimSpace(p.AccountNo)
	name := strings.TrimSpace(p.Name)
	address := strings.TrimSpace(p.Address)

	switch {
	case accountNo == "":
		return nil, apperrors.NewValidationError("account_no", "cannot be empty")
	case utf8.RuneCountInString(accountNo) > maxAccountNoLength:
		return nil, apperrors.NewValidationError("account_no", "must be at most 20 characters")
	case name == "":
		return nil, apperrors.NewValidationError("name", "cannot be empty")
	case utf8.RuneCountInString(name) > maxNameLength:
		return nil, apperrors.NewValidationError("name", "must be at most 100 characters")
	case address == "":
		return nil, apperrors.NewValidationError("address", "cannot be empty")
	case p.SanctionAmt.IsNegative():
		return nil, apperrors.NewValidationError("sanction_amt", "cannot be negative")
	case p.SanctionDate.IsZero():
		return nil, apperrors.NewValidationError("sanction_date", "is required")
	}

	cust := &Customer{
		AccountNo:    accountNo,
		Name:         name,
		Address:      address,
		SanctionAmt:  p.SanctionAmt.Round(2),
		SanctionDate: truncateToDate(p.SanctionDate),
	}
	if p.NPADate != nil && !p.NPADate.IsZero() {
		npa := truncateToDate(*p.NPADate)
		cust.NPADate = &npa
	}
	return cust, nil
}

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
