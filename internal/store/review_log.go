package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review history.
//
// Entries are inserted and soft-deleted only; there is no update method by
// design. The latest non-deleted entry for a (user, card) pair is the sole
// source of that card's current scheduling state.
type ReviewLogStore interface {
	// Insert appends a new review log entry.
	// Returns validation errors from the domain ReviewLog if data is invalid.
	Insert(ctx context.Context, entry *domain.ReviewLog) error

	// GetLatest returns the most recent non-deleted entry for (user, card),
	// ordered by review timestamp. Returns ErrReviewLogNotFound when the
	// card has never been reviewed; callers treat that as state New.
	GetLatest(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewLog, error)

	// LatestByDeck returns, for every card in the deck the user has
	// reviewed, that card's latest non-deleted entry. Cards without history
	// are simply absent from the map.
	LatestByDeck(ctx context.Context, userID, deckID uuid.UUID) (map[uuid.UUID]*domain.ReviewLog, error)

	// CountAgain returns the number of non-deleted Again-graded entries for
	// (user, card). Used by the lapse tracker.
	CountAgain(ctx context.Context, userID, cardID uuid.UUID) (int, error)

	// CountReviewedSince returns the number of non-deleted entries for
	// cards in the deck whose recorded state is not New and whose review
	// timestamp is at or after since. This is the "new cards seen today"
	// figure when since is local midnight.
	CountReviewedSince(ctx context.Context, userID, deckID uuid.UUID, since time.Time) (int, error)

	// SoftDelete marks an entry deleted without removing it. History is
	// never physically destroyed.
	// Returns ErrReviewLogNotFound if the entry does not exist.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a ReviewLogStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
