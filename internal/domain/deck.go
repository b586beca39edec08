package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckOwnerEmpty is returned when a deck's owner ID is empty or nil.
	ErrDeckOwnerEmpty = errors.New("deck owner ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")
)

// Deck is a collection of cards. Parameters is nil unless the deck carries
// its own scheduling override; a non-nil override replaces the owner's
// parameter set wholesale during resolution.
type Deck struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  *FSRSParameters `json:"fsrs_params,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewDeck creates a deck without a parameter override.
func NewDeck(ownerID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if d.OwnerID == uuid.Nil {
		return ErrDeckOwnerEmpty
	}
	if d.Name == "" {
		return ErrDeckNameEmpty
	}
	if d.Parameters != nil {
		return d.Parameters.Validate()
	}
	return nil
}
