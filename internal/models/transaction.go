package models

import "time"

type TransactionStatus string

const (
	TxnPending   TransactionStatus = "PENDING"
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// Transaction is one payment attempt against the gateway. Authority is the
// gateway's opaque token and joins the async callback to the local row; it is
// unique at the schema level. Status moves PENDING -> COMPLETED|FAILED exactly
// once, via conditional updates keyed on the PENDING state.
type Transaction struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	CourseID  *string           `json:"course_id,omitempty"`
	Amount    int64             `json:"amount"`
	Authority string            `json:"authority"`
	Status    TransactionStatus `json:"status"`
	RefID     *int64            `json:"ref_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
