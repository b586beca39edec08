package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserDeckState validation errors
var (
	ErrDeckStateUserEmpty = errors.New("user deck state user ID cannot be empty")
	ErrDeckStateDeckEmpty = errors.New("user deck state deck ID cannot be empty")
	ErrDeckStateQuota     = errors.New("user deck state daily quotas must not be negative")
)

// Default daily quotas used when the per-deck settings have never been
// customized. DefaultReviewsPerDay caps the total session size and
// DefaultNewCardsPerDay caps new-card introduction.
const (
	DefaultNewCardsPerDay = 20
	DefaultReviewsPerDay  = 100
)

// DeckCounters are the per-(user, deck) card-state counters. They are a
// derived projection of the review log: the review processor keeps them
// current incrementally, and they can always be recomputed from scratch by
// folding over the log.
type DeckCounters struct {
	NewCards      int `json:"new_cards"`
	LearningCards int `json:"learning_cards"`
	ReviewCards   int `json:"review_cards"`
}

// UserDeckState holds a user's study settings and derived counters for one
// deck.
type UserDeckState struct {
	UserID         uuid.UUID    `json:"user_id"`
	DeckID         uuid.UUID    `json:"deck_id"`
	NewCardsPerDay int          `json:"new_cards_per_day"`
	ReviewsPerDay  int          `json:"reviews_per_day"`
	Counters       DeckCounters `json:"stats"`
	LastStudied    time.Time    `json:"last_studied"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewUserDeckState creates the default state for a (user, deck) pair.
func NewUserDeckState(userID, deckID uuid.UUID) (*UserDeckState, error) {
	now := time.Now().UTC()
	state := &UserDeckState{
		UserID:         userID,
		DeckID:         deckID,
		NewCardsPerDay: DefaultNewCardsPerDay,
		ReviewsPerDay:  DefaultReviewsPerDay,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the UserDeckState has valid data.
func (s *UserDeckState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrDeckStateUserEmpty
	}
	if s.DeckID == uuid.Nil {
		return ErrDeckStateDeckEmpty
	}
	if s.NewCardsPerDay < 0 || s.ReviewsPerDay < 0 {
		return ErrDeckStateQuota
	}
	return nil
}

// CounterDelta describes an incremental counter adjustment produced by a
// single state transition. Applying the delta for every log entry in order
// reproduces the stored counters exactly.
type CounterDelta struct {
	New      int
	Learning int
	Review   int
}

// TransitionDelta returns the counter adjustment for a card moving from
// prev to next. hadHistory is false for a card's very first review, which
// always consumes a New slot regardless of the recorded prev state.
func TransitionDelta(prev, next CardState, hadHistory bool) CounterDelta {
	var d CounterDelta
	if hadHistory {
		switch prev {
		case StateNew:
			d.New--
		case StateLearning, StateRelearning:
			d.Learning--
		case StateReview:
			d.Review--
		}
	} else {
		d.New--
	}

	switch next {
	case StateNew:
		d.New++
	case StateLearning, StateRelearning:
		d.Learning++
	case StateReview:
		d.Review++
	}
	return d
}
