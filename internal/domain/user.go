package domain

import "time"

// UserStatus represents lifecycle states for a user account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is the domain model for account holders.
type User struct {
	ID           string
	UserName     string
	Email        string
	Phone        string
	PasswordHash string
	Avatar       string
	Remark       string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
