package models

import (
	"errors"
	"time"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Valid reports whether r is one of the known roles. Authorization checks go
// through Role values, never raw string comparison against request input.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// CanTeach reports whether the role may own courses.
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}

type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      *string   `json:"name"`
	Role      Role      `json:"role"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) Validate() error {
	if u.Phone == "" {
		return errors.New("phone required")
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if !u.Role.Valid() {
		return errors.New("unknown role")
	}
	return nil
}
