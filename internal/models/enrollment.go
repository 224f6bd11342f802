package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// Enrollment records that a user owns a course. A partial unique index on
// (user_id, course_id) WHERE status='COMPLETED' enforces at-most-once
// ownership; the application pre-check exists only for a friendlier error.
type Enrollment struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	CourseID      string           `json:"course_id"`
	PricePaid     int64            `json:"price_paid"`
	TransactionID *string          `json:"transaction_id,omitempty"`
	Status        EnrollmentStatus `json:"status"`
	PurchasedAt   time.Time        `json:"purchased_at"`
}
