package domain

import "fmt"

// Grade is the learner's self-assessment of a single review.
type Grade int

// Grades follow the conventional FSRS numbering.
const (
	GradeAgain Grade = 1
	GradeHard  Grade = 2
	GradeGood  Grade = 3
	GradeEasy  Grade = 4
)

// IsValid reports whether g is one of the four defined grades.
func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

func (g Grade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return fmt.Sprintf("Grade(%d)", int(g))
	}
}

// ParseGrade converts the wire representation ("again", "hard", "good",
// "easy") to a Grade. Returns ErrInvalidGrade for anything else.
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "again":
		return GradeAgain, nil
	case "hard":
		return GradeHard, nil
	case "good":
		return GradeGood, nil
	case "easy":
		return GradeEasy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
}

// CardState is the scheduling state a card is in for a given user.
// A card with no review history is New; the state is otherwise read from
// the latest non-deleted review log entry.
type CardState int

const (
	StateNew        CardState = 0
	StateLearning   CardState = 1
	StateReview     CardState = 2
	StateRelearning CardState = 3
)

// IsValid reports whether s is one of the four defined states.
func (s CardState) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

func (s CardState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLearning:
		return "learning"
	case StateReview:
		return "review"
	case StateRelearning:
		return "relearning"
	default:
		return fmt.Sprintf("CardState(%d)", int(s))
	}
}
