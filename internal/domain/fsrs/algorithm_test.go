package fsrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

func TestRetrievability(t *testing.T) {
	t.Parallel()

	t.Run("equals one at zero elapsed", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 1.0, Retrievability(domain.StateReview, 5, 0), 1e-12)
	})

	t.Run("new cards are always fully retrievable", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.0, Retrievability(domain.StateNew, 0, 100))
	})

	t.Run("non-positive stability decays immediately", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, Retrievability(domain.StateReview, 0, 3))
		assert.Equal(t, 0.0, Retrievability(domain.StateRelearning, -1, 3))
	})

	t.Run("ninety percent at elapsed equal to stability", func(t *testing.T) {
		t.Parallel()
		// The forgetting-curve constants are chosen so that R(S, S) = 0.9.
		for _, stability := range []float64{0.5, 1, 3.173, 10, 365} {
			assert.InDelta(t, 0.9, Retrievability(domain.StateReview, stability, stability), 1e-9)
		}
	})

	t.Run("non-increasing in elapsed days", func(t *testing.T) {
		t.Parallel()
		const stability = 7.5
		prev := 1.0
		for elapsed := 0.0; elapsed <= 200; elapsed += 0.5 {
			r := Retrievability(domain.StateReview, stability, elapsed)
			assert.LessOrEqual(t, r, prev, "retrievability rose at elapsed=%v", elapsed)
			prev = r
		}
	})
}

func TestInitialStability(t *testing.T) {
	t.Parallel()
	w := domain.DefaultParameters().Weights

	testCases := []struct {
		grade    domain.Grade
		expected float64
	}{
		{domain.GradeAgain, 0.40255},
		{domain.GradeHard, 1.18385},
		{domain.GradeGood, 3.173},
		{domain.GradeEasy, 15.69105},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.grade.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, InitialStability(w, tc.grade))
		})
	}
}

func TestInitialDifficulty(t *testing.T) {
	t.Parallel()
	w := domain.DefaultParameters().Weights

	t.Run("within bounds for every grade", func(t *testing.T) {
		t.Parallel()
		for _, grade := range []domain.Grade{
			domain.GradeAgain, domain.GradeHard, domain.GradeGood, domain.GradeEasy,
		} {
			d := InitialDifficulty(w, grade)
			assert.GreaterOrEqual(t, d, 1.0)
			assert.LessOrEqual(t, d, 10.0)
		}
	})

	t.Run("harder grades produce higher difficulty", func(t *testing.T) {
		t.Parallel()
		again := InitialDifficulty(w, domain.GradeAgain)
		good := InitialDifficulty(w, domain.GradeGood)
		easy := InitialDifficulty(w, domain.GradeEasy)
		assert.Greater(t, again, good)
		assert.Greater(t, good, easy)
	})
}

func TestNextStability(t *testing.T) {
	t.Parallel()
	w := domain.DefaultParameters().Weights

	t.Run("again never exceeds prior stability", func(t *testing.T) {
		t.Parallel()
		for _, prior := range []float64{0.5, 2, 10, 100, 1000} {
			next, err := NextStability(w, prior, 5, 0.9, domain.GradeAgain)
			require.NoError(t, err)
			assert.LessOrEqual(t, next, prior)
			assert.Greater(t, next, 0.0)
		}
	})

	t.Run("success grows stability", func(t *testing.T) {
		t.Parallel()
		next, err := NextStability(w, 10, 5, 0.9, domain.GradeGood)
		require.NoError(t, err)
		assert.Greater(t, next, 10.0)
	})

	t.Run("easy grows more than good, hard less", func(t *testing.T) {
		t.Parallel()
		hard, err := NextStability(w, 10, 5, 0.9, domain.GradeHard)
		require.NoError(t, err)
		good, err := NextStability(w, 10, 5, 0.9, domain.GradeGood)
		require.NoError(t, err)
		easy, err := NextStability(w, 10, 5, 0.9, domain.GradeEasy)
		require.NoError(t, err)
		assert.Less(t, hard, good)
		assert.Less(t, good, easy)
	})

	t.Run("lower retrievability grows success stability more", func(t *testing.T) {
		t.Parallel()
		nearForgotten, err := NextStability(w, 10, 5, 0.7, domain.GradeGood)
		require.NoError(t, err)
		fresh, err := NextStability(w, 10, 5, 0.99, domain.GradeGood)
		require.NoError(t, err)
		assert.Greater(t, nearForgotten, fresh)
	})
}

func TestNextDifficulty(t *testing.T) {
	t.Parallel()
	w := domain.DefaultParameters().Weights

	t.Run("stays within bounds", func(t *testing.T) {
		t.Parallel()
		for _, d := range []float64{1, 2.5, 5, 9.9, 10} {
			for _, grade := range []domain.Grade{
				domain.GradeAgain, domain.GradeHard, domain.GradeGood, domain.GradeEasy,
			} {
				next, err := NextDifficulty(w, d, grade)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, next, 1.0)
				assert.LessOrEqual(t, next, 10.0)
			}
		}
	})

	t.Run("again raises difficulty, easy lowers it", func(t *testing.T) {
		t.Parallel()
		again, err := NextDifficulty(w, 5, domain.GradeAgain)
		require.NoError(t, err)
		easy, err := NextDifficulty(w, 5, domain.GradeEasy)
		require.NoError(t, err)
		assert.Greater(t, again, 5.0)
		assert.Less(t, easy, 5.0)
	})
}
