package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors
var (
	ErrReviewLogUserEmpty  = errors.New("review log user ID cannot be empty")
	ErrReviewLogCardEmpty  = errors.New("review log card ID cannot be empty")
	ErrReviewLogStability  = errors.New("review log stability must be positive")
	ErrReviewLogDifficulty = errors.New("review log difficulty must be within [1, 10]")
	ErrReviewLogElapsed    = errors.New("review log elapsed days must not be negative")
	ErrReviewLogScheduled  = errors.New("review log scheduled days must not be negative")
)

// ReviewLog is one append-only entry in a user's review history. Entries are
// never mutated after insert; corrections soft-delete the entry instead.
// For a given (user, card) the entries are totally ordered by ReviewedAt and
// the latest non-deleted entry is the sole source of the card's current
// scheduling state.
type ReviewLog struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CardID          uuid.UUID `json:"card_id"`
	Grade           Grade     `json:"grade"`
	State           CardState `json:"state"`
	Due             time.Time `json:"due"`
	Stability       float64   `json:"stability"`
	Difficulty      float64   `json:"difficulty"`
	ElapsedDays     float64   `json:"elapsed_days"`
	LastElapsedDays float64   `json:"last_elapsed_days"`
	ScheduledDays   int       `json:"scheduled_days"`
	ReviewedAt      time.Time `json:"review"`
	DurationSeconds int       `json:"duration"`
	Deleted         bool      `json:"deleted"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the entry's invariants before it is persisted.
func (r *ReviewLog) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrReviewLogUserEmpty
	}
	if r.CardID == uuid.Nil {
		return ErrReviewLogCardEmpty
	}
	if !r.Grade.IsValid() {
		return ErrInvalidGrade
	}
	if !r.State.IsValid() {
		return ErrInvalidCardState
	}
	if r.Stability <= 0 {
		return ErrReviewLogStability
	}
	if r.Difficulty < 1 || r.Difficulty > 10 {
		return ErrReviewLogDifficulty
	}
	if r.ElapsedDays < 0 {
		return ErrReviewLogElapsed
	}
	if r.ScheduledDays < 0 {
		return ErrReviewLogScheduled
	}
	return nil
}
