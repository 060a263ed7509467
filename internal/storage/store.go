// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateExpense persists a new expense.
	// The expense.ID and expense.CreatedAt fields are populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns every expense, newest date first.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// DeleteExpense removes an expense permanently.
	DeleteExpense(ctx context.Context, expenseID string) error

	// UpdatePaymentStatus replaces one participant's payment entry and leaves
	// the others untouched. It returns the updated expense.
	UpdatePaymentStatus(ctx context.Context, expenseID, participantID string, entry models.PaymentEntry) (*models.Expense, error)

	// CreateUser, GetUserByEmail and GetUserByID back authentication.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
