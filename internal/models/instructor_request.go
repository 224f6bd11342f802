package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

type InstructorRequest struct {
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Status       RequestStatus `json:"status"`
	AdminMessage *string       `json:"admin_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`

	User *User `json:"user,omitempty"`
}
