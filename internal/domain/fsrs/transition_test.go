package fsrs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

func TestNextState(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		state domain.CardState
		grade domain.Grade
		next  domain.CardState
	}{
		{domain.StateNew, domain.GradeAgain, domain.StateLearning},
		{domain.StateNew, domain.GradeHard, domain.StateLearning},
		{domain.StateNew, domain.GradeGood, domain.StateReview},
		{domain.StateNew, domain.GradeEasy, domain.StateReview},

		{domain.StateLearning, domain.GradeAgain, domain.StateLearning},
		{domain.StateLearning, domain.GradeHard, domain.StateLearning},
		{domain.StateLearning, domain.GradeGood, domain.StateReview},
		{domain.StateLearning, domain.GradeEasy, domain.StateReview},

		{domain.StateReview, domain.GradeAgain, domain.StateRelearning},
		{domain.StateReview, domain.GradeHard, domain.StateReview},
		{domain.StateReview, domain.GradeGood, domain.StateReview},
		{domain.StateReview, domain.GradeEasy, domain.StateReview},

		{domain.StateRelearning, domain.GradeAgain, domain.StateRelearning},
		{domain.StateRelearning, domain.GradeHard, domain.StateReview},
		{domain.StateRelearning, domain.GradeGood, domain.StateReview},
		{domain.StateRelearning, domain.GradeEasy, domain.StateReview},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%s+%s", tc.state, tc.grade), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.next, NextState(tc.state, tc.grade))
		})
	}
}
