package customer

import (
	"strings"
	"time"

	"loan-ledger/internal/pkg/apperrors"
)

type Comment struct {
	ID        int64     `json:"id"`
	AccountNo string    `json:"account_no"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewValidationError("comment", "cannot be empty")
	}
	return text, nil
}
