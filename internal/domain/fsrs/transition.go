package fsrs

import "github.com/fukushu-app/fukushu-api/internal/domain"

// NextState applies the state transition table:
//
//	New        + Again/Hard        -> Learning
//	New        + Good/Easy         -> Review
//	Learning   + Again/Hard        -> Learning
//	Learning   + Good/Easy         -> Review
//	Review     + Again             -> Relearning
//	Review     + Hard/Good/Easy    -> Review
//	Relearning + Again             -> Relearning
//	Relearning + Hard/Good/Easy    -> Review
func NextState(state domain.CardState, grade domain.Grade) domain.CardState {
	switch state {
	case domain.StateNew, domain.StateLearning:
		if grade == domain.GradeAgain || grade == domain.GradeHard {
			return domain.StateLearning
		}
		return domain.StateReview
	case domain.StateReview:
		if grade == domain.GradeAgain {
			return domain.StateRelearning
		}
		return domain.StateReview
	case domain.StateRelearning:
		if grade == domain.GradeAgain {
			return domain.StateRelearning
		}
		return domain.StateReview
	default:
		return state
	}
}
