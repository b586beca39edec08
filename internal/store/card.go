package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card.
	// Returns validation errors from the domain Card if data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListIDsByDeck returns the IDs of every card in the deck in the deck's
	// natural order: ascending creation time, card ID as the tie-break.
	// The due-card selector depends on this order being stable between
	// calls. An empty deck yields an empty slice, not an error.
	ListIDsByDeck(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a CardStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
