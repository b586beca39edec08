package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidGrade is returned when a review grade is outside Again..Easy.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrInvalidCardState is returned when a card state value is not one of
	// New, Learning, Review, or Relearning.
	ErrInvalidCardState = errors.New("invalid card state")

	// ErrInvalidParameters is returned when an FSRS parameter set fails
	// validation. Invalid input is always rejected, never clamped.
	ErrInvalidParameters = errors.New("invalid FSRS parameters")
)
