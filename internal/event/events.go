package event

import "time"

type CustomerEventPayload struct {
	AccountNo    string  `json:"accountNo"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	SanctionAmt  string  `json:"sanctionAmt"`
	SanctionDate string  `json:"sanctionDate"`
	NPADate      *string `json:"npaDate,omitempty"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	AccountNo       string    `json:"accountNo"`
	CommentsDeleted int64     `json:"commentsDeleted"`
}

type CommentAction string

const (
	CommentAdded   CommentAction = "added"
	CommentUpdated CommentAction = "updated"
	CommentDeleted CommentAction = "deleted"
	CommentsClear  CommentAction = "cleared"
)

type CustomerCommentedEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	AccountNo string        `json:"accountNo,omitempty"`
	CommentID int64         `json:"commentId,omitempty"`
	Action    CommentAction `json:"action"`
	Count     int64         `json:"count,omitempty"`
}
