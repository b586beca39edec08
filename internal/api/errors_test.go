package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/fukushu-app/fukushu-api/internal/domain"
	"github.com/fukushu-app/fukushu-api/internal/domain/fsrs"
	"github.com/fukushu-app/fukushu-api/internal/service/auth"
	"github.com/fukushu-app/fukushu-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"token not yet valid", auth.ErrTokenNotYetValid, http.StatusUnauthorized},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"review log not found", store.ErrReviewLogNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrCardNotFound), http.StatusNotFound},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"invalid parameters", domain.ErrInvalidParameters, http.StatusUnprocessableEntity},
		{"invalid grade", domain.ErrInvalidGrade, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"computation invariant", fsrs.ErrComputationInvariant, http.StatusInternalServerError},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverEchoesInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("pq: duplicate key value violates unique constraint users_email_key")
	msg := GetSafeErrorMessage(internal)

	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "pq:")
	assert.NotContains(t, msg, "users_email_key")
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"user not found", store.ErrUserNotFound, "User not found"},
		{"deck not found", store.ErrDeckNotFound, "Deck not found"},
		{"card not found", store.ErrCardNotFound, "Card not found"},
		{"invalid grade", domain.ErrInvalidGrade, "Invalid review grade"},
		{"invalid parameters", domain.ErrInvalidParameters, "Invalid scheduling parameters"},
		{"nil error", nil, "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	v := validator.New()

	type reviewRequest struct {
		Grade string `validate:"required,oneof=again hard good easy"`
	}

	t.Run("field validation error names the field", func(t *testing.T) {
		t.Parallel()

		err := v.Struct(reviewRequest{})
		msg := SanitizeValidationError(err)

		assert.Contains(t, msg, "Grade")
		assert.NotContains(t, msg, "reviewRequest")
	})

	t.Run("non-validator error falls back to generic message", func(t *testing.T) {
		t.Parallel()

		msg := SanitizeValidationError(errors.New("some internal thing"))
		assert.Equal(t, "Validation error", msg)
	})
}
