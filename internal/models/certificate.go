package models

import "time"

type Certificate struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	CourseID          string    `json:"course_id"`
	CertificateNumber string    `json:"certificate_number"`
	IssuedAt          time.Time `json:"issued_at"`

	HolderName  *string `json:"holder_name,omitempty"`
	HolderPhone string  `json:"holder_phone,omitempty"`
	CourseTitle string  `json:"course_title,omitempty"`
}
