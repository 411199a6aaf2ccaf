package domain

import (
	"errors"
	"time"
)

// Category is the closed set of roles an account can hold. It is fixed at
// registration and drives every role gate in the API.
type Category string

const (
	CategoryFarmer  Category = "farmer"
	CategoryCompany Category = "company"
	CategoryAdmin   Category = "admin"
)

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFarmer, CategoryCompany, CategoryAdmin:
		return true
	}
	return false
}

var ErrAccountNotFound = errors.New("account not found")
var ErrAccountExists = errors.New("account already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthenticated = errors.New("unauthorized request")
var ErrForbidden = errors.New("access forbidden")
var ErrTokenReused = errors.New("refresh token reused or superseded")
var ErrValidation = errors.New("validation failed")

// Account models a marketplace participant (farmer, company, or admin).
//
// Email and PhoneNumber are each optional but never both absent; either one
// serves as the login identifier. RefreshToken holds the single currently
// valid refresh token for the account — issuing a new one invalidates the
// previous by overwrite.
type Account struct {
	ID           string    `json:"id"`
	Category     Category  `json:"category"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe to hand to clients: credential material is
// stripped, everything else is kept.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	clone.RefreshToken = ""
	return &clone
}
