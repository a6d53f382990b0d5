package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Each account doubles as a ledger
// party: User.Name is the identifier items and receipts are attributed to.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the party name used throughout the ledger.
	Name string

	// Email is the user's email address (unique), used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation timestamp.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
