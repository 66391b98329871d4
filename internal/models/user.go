package models

import "time"

// UserRole is the identity role that decides which views a user may open.
type UserRole string

const (
	RoleOperations UserRole = "operations"
	RoleAdvisor    UserRole = "advisor"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOperations, RoleAdvisor, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage the whole advisor roster.
func (r UserRole) IsStaff() bool {
	return r == RoleOperations || r == RoleAdmin
}

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Role                UserRole   `gorm:"not null;default:'advisor'" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// DisplayName returns the user's full name, or the local part of the email
// when no name was given.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
