package srs

import (
	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// Params defines all configurable parameters for the scheduling strategies
type Params struct {
	// Core limits
	MinEase float64
	MaxEase float64

	// Binary ease adjustments
	BinaryCorrectEase   float64
	BinaryIncorrectEase float64

	// Four-grade adjustments
	EaseAdjustment   map[domain.Grade]float64
	IntervalModifier map[domain.Grade]float64

	// Intervals used while the card is still in its first successful reps,
	// indexed by reps after the review (1 and 2).
	LearningIntervals map[domain.Grade][2]int

	// Floors applied to computed intervals once the learning steps are over
	MinGraduatedInterval map[domain.Grade]int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEase: domain.MinEase,
		MaxEase: domain.MaxEase,

		BinaryCorrectEase:   0.02,
		BinaryIncorrectEase: -0.20,

		EaseAdjustment: map[domain.Grade]float64{
			domain.GradeAgain: -0.30,
			domain.GradeHard:  -0.15,
			domain.GradeGood:  0.0,
			domain.GradeEasy:  0.15,
		},

		IntervalModifier: map[domain.Grade]float64{
			domain.GradeHard: 0.85,
			domain.GradeGood: 1.0,
			domain.GradeEasy: 1.3,
		},

		LearningIntervals: map[domain.Grade][2]int{
			domain.GradeHard: {1, 2},
			domain.GradeGood: {1, 3},
			domain.GradeEasy: {4, 4},
		},

		MinGraduatedInterval: map[domain.Grade]int{
			domain.GradeHard: 1,
			domain.GradeGood: 1,
			domain.GradeEasy: 2,
		},
	}
}
