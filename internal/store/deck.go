package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	// Returns validation errors from the domain Deck if data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// UpdateParameters replaces the deck-level parameter override. A nil
	// params clears the override so the deck falls back to the owner's
	// defaults. Returns ErrDeckNotFound if the deck does not exist.
	UpdateParameters(ctx context.Context, id uuid.UUID, params *domain.FSRSParameters) error

	// WithTx returns a DeckStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
