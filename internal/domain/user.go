package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserEmailEmpty is returned when a user's email is empty.
	ErrUserEmailEmpty = errors.New("user email cannot be empty")
)

// UserStats are the lifetime study counters maintained for a user. They are
// updated on every processed review and by the streak tracker.
type UserStats struct {
	TotalReviews  int       `json:"total_reviews"`
	StudyStreak   int       `json:"study_streak"`
	LongestStreak int       `json:"longest_streak"`
	LastStudyDate time.Time `json:"last_study_date"`
}

// User is a learner. The embedded FSRS parameter set is the user-level
// default; decks may carry their own override that wins during resolution.
type User struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	Name       string         `json:"name"`
	Parameters FSRSParameters `json:"fsrs_params"`
	Stats      UserStats      `json:"stats"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewUser creates a user with the built-in default scheduling parameters.
func NewUser(email, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:         uuid.New(),
		Email:      email,
		Name:       name,
		Parameters: DefaultParameters(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}
	if u.Email == "" {
		return ErrUserEmailEmpty
	}
	return u.Parameters.Validate()
}
