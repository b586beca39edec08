package fsrs

import (
	"errors"
	"fmt"
	"math"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// Forgetting-curve constants. With these values a card at elapsed == stability
// has retrievability 0.9, which is what makes stability interpretable as
// "days until recall probability decays to 90%".
const (
	retrievabilityFactor = 19.0 / 81.0
	retrievabilityDecay  = -0.5
)

const (
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// ErrComputationInvariant is returned when a derived stability or difficulty
// would be NaN, non-positive, or out of range. It indicates a logic defect
// and is never recovered from.
var ErrComputationInvariant = errors.New("scheduling computation invariant violated")

// Retrievability estimates the probability of successful recall after
// elapsedDays given the card's stability. Cards without history (state New)
// are treated as perfectly retrievable; a non-positive stability on a seen
// card decays to zero immediately.
func Retrievability(state domain.CardState, stability, elapsedDays float64) float64 {
	if state == domain.StateNew {
		return 1
	}
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+retrievabilityFactor*elapsedDays/stability, retrievabilityDecay)
}

// InitialStability returns the stability granted by the first-ever grade on
// a card: w[0]..w[3] for Again..Easy.
func InitialStability(w [domain.WeightCount]float64, grade domain.Grade) float64 {
	return w[int(grade)-1]
}

// NextStability computes the post-review stability for a card that has
// history. The Again branch can only shrink stability; the success branch
// multiplies it by a growth factor derived from difficulty, current
// stability, and how close to forgetting the card was.
func NextStability(
	w [domain.WeightCount]float64,
	stability, difficulty, retrievability float64,
	grade domain.Grade,
) (float64, error) {
	var next float64

	if grade == domain.GradeAgain {
		difficultyFactor := math.Pow(difficulty, -w[12])
		stabilityFactor := math.Pow(stability+1, w[13]) - 1
		retrievabilityFactor := math.Exp(w[14] * (1 - retrievability))
		next = difficultyFactor * stabilityFactor * retrievabilityFactor * w[11]
		// A lapse never leaves the card more stable than before.
		next = math.Min(next, stability)
	} else {
		hardPenalty := 1.0
		if grade == domain.GradeHard {
			hardPenalty = w[15]
		}
		easyBonus := 1.0
		if grade == domain.GradeEasy {
			easyBonus = w[16]
		}
		alpha := 1 + (11-difficulty)*
			math.Pow(stability, -w[9])*
			(math.Exp(w[10]*(1-retrievability))-1)*
			hardPenalty*easyBonus*math.Exp(w[8])
		next = stability * alpha
	}

	if math.IsNaN(next) || math.IsInf(next, 0) || next <= 0 {
		return 0, fmt.Errorf("%w: stability %v (from S=%v D=%v R=%v grade=%s)",
			ErrComputationInvariant, next, stability, difficulty, retrievability, grade)
	}
	return next, nil
}

// InitialDifficulty returns the difficulty assigned by the first-ever grade
// on a card, clamped to [1, 10].
func InitialDifficulty(w [domain.WeightCount]float64, grade domain.Grade) float64 {
	d := w[4] - math.Exp(w[5]*float64(int(grade)-1)) + 1
	return clampDifficulty(d)
}

// NextDifficulty computes the post-review difficulty for a card with
// history. Mean reversion toward the initial Easy difficulty keeps repeated
// extreme grades from pinning the value at the bounds.
func NextDifficulty(
	w [domain.WeightCount]float64,
	difficulty float64,
	grade domain.Grade,
) (float64, error) {
	easyTarget := InitialDifficulty(w, domain.GradeEasy)
	delta := -w[6] * float64(int(grade)-3)
	damped := difficulty + delta*((maxDifficulty-difficulty)/9)
	next := clampDifficulty(w[7]*easyTarget + (1-w[7])*damped)

	if math.IsNaN(next) {
		return 0, fmt.Errorf("%w: difficulty NaN (from D=%v grade=%s)",
			ErrComputationInvariant, difficulty, grade)
	}
	return next, nil
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
