// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitproof/splitproof/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for settlement-run and user persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateRun persists a completed settlement run. The run.ID and
	// run.CreatedAt fields are populated by the store if unset.
	CreateRun(ctx context.Context, run *models.Run) error

	// GetRun retrieves a stored run by its ID, including the full trace.
	// Returns ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, runID string) (*models.Run, error)

	// ListRunsByOwner returns summaries of the owner's runs, newest first.
	ListRunsByOwner(ctx context.Context, ownerID string) ([]models.RunSummary, error)

	// DeleteRun removes a stored run. Returns ErrNotFound if absent.
	DeleteRun(ctx context.Context, runID string) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns ErrNotFound if no account exists for the address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
