package models

import (
	"time"

	"github.com/google/uuid"
)

// Role decides whether a user may edit the ledger or only view it.
type Role string

const (
	// RoleAdmin can create and delete expenses and record payments.
	RoleAdmin Role = "admin"
	// RoleViewer gets read-only access to balances and expenses.
	RoleViewer Role = "viewer"
)

// User represents a registered account.
// Users are distinct from participants: a viewer may log in without being on the roster.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the login address (unique).
	Email string

	// DisplayName is shown in the UI header.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Role is assigned at registration and not changed afterwards.
	Role Role

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string, role Role) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user may edit the ledger.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
