package domain

import (
	"fmt"
	"math"
)

// WeightCount is the length of the FSRS weight vector. Parameter sets with
// any other length are rejected outright.
const WeightCount = 19

// defaultWeights is the built-in FSRS weight vector used when neither the
// deck nor the user carries an override.
var defaultWeights = [WeightCount]float64{
	0.40255, 1.18385, 3.173, 15.69105, 7.1949, 0.5345, 1.4604, 0.0046,
	1.54575, 0.1192, 1.01925, 1.9395, 0.11, 0.29605, 2.2698, 0.2315,
	2.9898, 0.51655, 0.6621,
}

// FSRSParameters is one fully-populated scheduling parameter set. A set is
// owned by either a deck or a user and is immutable once resolved: the
// resolver picks an entire level, never mixing fields across levels.
type FSRSParameters struct {
	RequestRetention float64              `json:"request_retention" validate:"required,gt=0,lte=1"`
	MaximumInterval  int                  `json:"maximum_interval"  validate:"required,gte=1"`
	Weights          [WeightCount]float64 `json:"w"`
	EnableFuzz       bool                 `json:"enable_fuzz"`
	EnableShortTerm  bool                 `json:"enable_short_term"`
	CardLimit        int                  `json:"card_limit" validate:"gte=0"`
	LapseThreshold   int                  `json:"lapses"     validate:"gte=1"`
}

// DefaultParameters returns the built-in fallback parameter set.
func DefaultParameters() FSRSParameters {
	return FSRSParameters{
		RequestRetention: 0.9,
		MaximumInterval:  36500,
		Weights:          defaultWeights,
		EnableFuzz:       false,
		EnableShortTerm:  true,
		CardLimit:        20,
		LapseThreshold:   8,
	}
}

// Validate checks the parameter set against the documented bounds.
// Out-of-range values are an error, never silently clamped.
func (p FSRSParameters) Validate() error {
	if p.RequestRetention <= 0 || p.RequestRetention > 1 {
		return fmt.Errorf("%w: request_retention %v outside (0, 1]",
			ErrInvalidParameters, p.RequestRetention)
	}
	if p.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum_interval %d must be at least 1 day",
			ErrInvalidParameters, p.MaximumInterval)
	}
	if p.CardLimit < 0 {
		return fmt.Errorf("%w: card_limit %d must not be negative",
			ErrInvalidParameters, p.CardLimit)
	}
	if p.LapseThreshold < 1 {
		return fmt.Errorf("%w: lapses %d must be at least 1",
			ErrInvalidParameters, p.LapseThreshold)
	}
	for i, w := range p.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: w[%d] is not finite",
				ErrInvalidParameters, i)
		}
	}
	// w[0]..w[3] become a card's stability on its first review and feed
	// straight into interval math, so they must be strictly positive.
	for i := 0; i < 4; i++ {
		if p.Weights[i] <= 0 {
			return fmt.Errorf("%w: w[%d] %v must be positive",
				ErrInvalidParameters, i, p.Weights[i])
		}
	}
	return nil
}

// FSRSParametersPatch is a partial parameter update. Only non-nil fields are
// applied; everything else keeps its stored value. The weight vector, when
// present, must be complete: there is no per-weight patching.
type FSRSParametersPatch struct {
	RequestRetention *float64   `json:"request_retention,omitempty"`
	MaximumInterval  *int       `json:"maximum_interval,omitempty"`
	Weights          *[]float64 `json:"w,omitempty"`
	EnableFuzz       *bool      `json:"enable_fuzz,omitempty"`
	EnableShortTerm  *bool      `json:"enable_short_term,omitempty"`
	CardLimit        *int       `json:"card_limit,omitempty"`
	LapseThreshold   *int       `json:"lapses,omitempty"`
}

// Apply merges the patch into base and validates the result. The merged set
// is returned without modifying base. A weight slice of the wrong length is
// rejected before any field is considered applied.
func (patch FSRSParametersPatch) Apply(base FSRSParameters) (FSRSParameters, error) {
	merged := base
	if patch.RequestRetention != nil {
		merged.RequestRetention = *patch.RequestRetention
	}
	if patch.MaximumInterval != nil {
		merged.MaximumInterval = *patch.MaximumInterval
	}
	if patch.Weights != nil {
		if len(*patch.Weights) != WeightCount {
			return FSRSParameters{}, fmt.Errorf("%w: weight vector has %d elements, want %d",
				ErrInvalidParameters, len(*patch.Weights), WeightCount)
		}
		copy(merged.Weights[:], *patch.Weights)
	}
	if patch.EnableFuzz != nil {
		merged.EnableFuzz = *patch.EnableFuzz
	}
	if patch.EnableShortTerm != nil {
		merged.EnableShortTerm = *patch.EnableShortTerm
	}
	if patch.CardLimit != nil {
		merged.CardLimit = *patch.CardLimit
	}
	if patch.LapseThreshold != nil {
		merged.LapseThreshold = *patch.LapseThreshold
	}

	if err := merged.Validate(); err != nil {
		return FSRSParameters{}, err
	}
	return merged, nil
}
