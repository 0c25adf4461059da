package domain

import (
	"errors"
	"fmt"
)

// Mode identifies one of the independent practice pools a card can belong to.
type Mode string

// Practice modes
const (
	ModeFlashcard Mode = "flashcard"
	ModeSpelling  Mode = "spelling"
)

// ErrInvalidMode is returned when a practice mode is not recognised.
var ErrInvalidMode = errors.New("invalid practice mode")

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFlashcard, ModeSpelling:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Grade is a four-level self assessment of recall.
type Grade string

// Possible grade values
const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// IsValid reports whether g is one of the four known grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}

// Outcome is the result of one review as fed into a scheduler. It is either
// a plain correct/incorrect answer or a four-level grade, never both.
type Outcome struct {
	graded  bool
	correct bool
	grade   Grade
}

// Correct builds a boolean outcome.
func Correct(ok bool) Outcome {
	return Outcome{correct: ok}
}

// Graded builds a four-level outcome. The grade is not validated here;
// schedulers reject unknown grades.
func Graded(g Grade) Outcome {
	return Outcome{graded: true, grade: g}
}

// IsGraded reports whether the outcome carries a four-level grade.
func (o Outcome) IsGraded() bool { return o.graded }

// Grade returns the four-level grade and whether one is present.
func (o Outcome) Grade() (Grade, bool) { return o.grade, o.graded }

// WasCorrect reports whether the review counts as a successful recall.
// Every grade except "again" is a success.
func (o Outcome) WasCorrect() bool {
	if o.graded {
		return o.grade != GradeAgain
	}
	return o.correct
}

// String renders the outcome for logs.
func (o Outcome) String() string {
	if o.graded {
		return string(o.grade)
	}
	if o.correct {
		return "correct"
	}
	return "incorrect"
}
