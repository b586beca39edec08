package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// UserDeckStateStore defines the interface for per-(user, deck) study
// settings and derived counters.
type UserDeckStateStore interface {
	// Get retrieves the state record for (user, deck).
	// Returns ErrDeckStateNotFound if none exists yet.
	Get(ctx context.Context, userID, deckID uuid.UUID) (*domain.UserDeckState, error)

	// ApplyReview upserts the state record, adding the counter delta and
	// setting the last-studied timestamp. Creating the record on first use
	// and incrementing it on every later review makes the aggregate update
	// idempotent with respect to the record's existence.
	ApplyReview(
		ctx context.Context,
		userID, deckID uuid.UUID,
		delta domain.CounterDelta,
		studiedAt time.Time,
	) error

	// WithTx returns a UserDeckStateStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserDeckStateStore
}
