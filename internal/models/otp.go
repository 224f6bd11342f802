package models

import "time"

// OTPCode is one issued one-time code. Rows are never deleted; consumption
// flips Used so the table doubles as an audit trail.
type OTPCode struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

func (c OTPCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
