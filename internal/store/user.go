package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user's parameter set must already be
	// populated (NewUser defaults it). Returns ErrDuplicate if the email
	// is taken, or validation errors from the domain User.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateParameters replaces the user's scheduling parameter set.
	// The caller is responsible for validating the set first.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateParameters(ctx context.Context, id uuid.UUID, params domain.FSRSParameters) error

	// UpdateStats replaces the user's study counters.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateStats(ctx context.Context, id uuid.UUID, stats domain.UserStats) error

	// WithTx returns a UserStore bound to the provided transaction so that
	// multiple operations can be executed atomically.
	WithTx(tx *sql.Tx) UserStore
}
