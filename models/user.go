package models

import (
	"time"
)

// User mirrors the identity provider's subject. Rows are created on first sight of a token.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Subject     string    `json:"-" db:"subject"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	PhoneNumber string    `json:"-" db:"phone_number"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}

