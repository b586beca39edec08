package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// ReviewEvent describes a completed review. It carries enough detail for
// downstream consumers (sync, analytics) without exposing store internals.
type ReviewEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// UserID and CardID identify the review that produced the event
	UserID uuid.UUID `json:"user_id"`
	CardID uuid.UUID `json:"card_id"`

	// Grade is the grade the learner gave, zero for skips
	Grade domain.Grade `json:"grade"`

	// State is the card's state after the review
	State domain.CardState `json:"state"`

	// Due is when the card comes up next
	Due time.Time `json:"due"`

	// ReviewedAt is the review instant
	ReviewedAt time.Time `json:"reviewed_at"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewEvent creates a ReviewEvent for a processed review.
func NewReviewEvent(
	userID, cardID uuid.UUID,
	grade domain.Grade,
	state domain.CardState,
	due, reviewedAt time.Time,
) *ReviewEvent {
	return &ReviewEvent{
		ID:         uuid.New(),
		UserID:     userID,
		CardID:     cardID,
		Grade:      grade,
		State:      state,
		Due:        due,
		ReviewedAt: reviewedAt,
		CreatedAt:  time.Now(),
	}
}

// Handler defines an interface for components that can handle review events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ReviewEvent) error
}

// Emitter defines an interface for components that can emit review events.
// This allows services to publish events without direct knowledge of
// handlers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ReviewEvent) error
}
