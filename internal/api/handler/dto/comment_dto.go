package dto

import (
	"time"

	"loan-ledger/internal/domain/customer"
)

type CommentRequest struct {
	Comment string `json:"comment" example:"Borrower requested restructuring"`
}

type CommentResponse struct {
	ID        int64     `json:"id" example:"42"`
	AccountNo string    `json:"account_no" example:"ACC001"`
	Comment   string    `json:"comment" example:"Borrower requested restructuring"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCommentResponse(c *customer.Comment) CommentResponse {
	if c == nil {
		return CommentResponse{}
	}
	return CommentResponse{
		ID:        c.ID,
		AccountNo: c.AccountNo,
		Comment:   c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCommentListResponse(comments []*customer.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, NewCommentResponse(c))
	}
	return resp
}

type DeleteCommentsResponse struct {
	Message      string `json:"message" example:"Comments deleted successfully"`
	AccountNo    string `json:"accountNo" example:"ACC001"`
	DeletedCount int64  `json:"deletedCount" example:"3"`
}
