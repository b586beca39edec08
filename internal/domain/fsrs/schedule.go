package fsrs

import (
	"time"

	"github.com/fukushu-app/fukushu-api/internal/domain"
)

const hoursPerDay = 24

// Snapshot is the scheduling state a card carries into a review, read from
// its latest non-deleted review log entry. A nil Snapshot means the card has
// never been reviewed.
type Snapshot struct {
	State      domain.CardState
	Stability  float64
	Difficulty float64
	ReviewedAt time.Time
}

// Result is the outcome of scheduling a single review.
type Result struct {
	State          domain.CardState
	Stability      float64
	Difficulty     float64
	Retrievability float64
	ElapsedDays    float64
	IntervalDays   int
	Due            time.Time
}

// Schedule computes the full post-review outcome for one card: elapsed time,
// retrievability, new stability and difficulty, next state, interval, and
// due date. It is a pure function; now is the injected review instant and
// the scheduler carries the injected fuzz source.
func Schedule(
	params domain.FSRSParameters,
	prev *Snapshot,
	grade domain.Grade,
	now time.Time,
	scheduler *Scheduler,
) (Result, error) {
	state := domain.StateNew
	var stability, difficulty, elapsedDays float64

	if prev != nil {
		state = prev.State
		stability = prev.Stability
		difficulty = prev.Difficulty
		elapsedDays = now.Sub(prev.ReviewedAt).Hours() / hoursPerDay
		if elapsedDays < 0 {
			elapsedDays = 0
		}
	}

	retrievability := Retrievability(state, stability, elapsedDays)

	var (
		newStability  float64
		newDifficulty float64
		err           error
	)
	if state == domain.StateNew {
		newStability = InitialStability(params.Weights, grade)
		newDifficulty = InitialDifficulty(params.Weights, grade)
	} else {
		newStability, err = NextStability(params.Weights, stability, difficulty, retrievability, grade)
		if err != nil {
			return Result{}, err
		}
		newDifficulty, err = NextDifficulty(params.Weights, difficulty, grade)
		if err != nil {
			return Result{}, err
		}
	}

	nextState := NextState(state, grade)
	intervalDays := scheduler.Interval(newStability, state, grade)

	return Result{
		State:          nextState,
		Stability:      newStability,
		Difficulty:     newDifficulty,
		Retrievability: retrievability,
		ElapsedDays:    elapsedDays,
		IntervalDays:   intervalDays,
		Due:            now.AddDate(0, 0, intervalDays),
	}, nil
}
