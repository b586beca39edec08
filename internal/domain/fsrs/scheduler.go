package fsrs

import (
	"math"
	"math/rand"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

// Fuzzing perturbs an interval by a uniform factor in [1-fuzzSpread, 1+fuzzSpread]
// so that cards reviewed together do not all fall due on the same day.
const fuzzSpread = 0.05

// Scheduler converts a computed stability into a concrete day interval under
// one resolved parameter set. The randomness source for fuzzing is injected
// so interval computation stays reproducible; constructing with a nil source
// is allowed and simply disables fuzzing.
type Scheduler struct {
	params domain.FSRSParameters
	rng    *rand.Rand
}

// NewScheduler creates a Scheduler for the given resolved parameters.
func NewScheduler(params domain.FSRSParameters, rng *rand.Rand) *Scheduler {
	return &Scheduler{params: params, rng: rng}
}

// Interval returns the number of days until the card should next be shown.
//
// Again-graded reviews bypass the stability formula entirely: the card comes
// back the same day (short-term mode) or the next day. Cards still in
// Learning or Relearning that were not graded Easy are held at 1 day to keep
// them in short-term rotation. Everything else is scheduled so that the
// predicted retrievability at the next review equals the retention target,
// clamped to [1, MaximumInterval] and optionally fuzzed.
func (s *Scheduler) Interval(newStability float64, priorState domain.CardState, grade domain.Grade) int {
	if grade == domain.GradeAgain {
		if s.params.EnableShortTerm {
			return 0
		}
		return 1
	}

	if (priorState == domain.StateLearning || priorState == domain.StateRelearning) &&
		grade != domain.GradeEasy {
		return 1
	}

	target := s.params.RequestRetention
	ideal := (newStability / retrievabilityFactor) *
		(math.Pow(target, 1/retrievabilityDecay) - 1)

	// At the default retention the ideal interval equals the stability
	// exactly, but the pow/divide round trip can land a hair below the
	// integer and Floor would then lose a whole day. Nudge by an epsilon
	// before flooring.
	interval := int(math.Floor(ideal + 1e-9))
	if interval < 1 {
		interval = 1
	}
	if interval > s.params.MaximumInterval {
		interval = s.params.MaximumInterval
	}

	// 0- and 1-day intervals are never fuzzed.
	if s.params.EnableFuzz && s.rng != nil && interval > 1 {
		factor := 1 + fuzzSpread*(2*s.rng.Float64()-1)
		fuzzed := int(math.Round(float64(interval) * factor))
		if fuzzed < 1 {
			fuzzed = 1
		}
		if fuzzed > s.params.MaximumInterval {
			fuzzed = s.params.MaximumInterval
		}
		interval = fuzzed
	}

	return interval
}
