package scoring

import (
	"strings"

	"github.com/nadezdatsygankova/my-english-trainer/internal/domain"
)

// CloseDistance is the largest distance still reported as a near miss.
const CloseDistance = 2

// Verdict classifies a typed answer.
type Verdict string

// Possible verdicts
const (
	VerdictNoAnswer  Verdict = "no_answer"
	VerdictPerfect   Verdict = "perfect"
	VerdictClose     Verdict = "close"
	VerdictIncorrect Verdict = "incorrect"
)

// AutoGrade returns the outcome a verdict feeds into the scheduler. Only a
// perfect answer grades the card; every other verdict is feedback only.
func (v Verdict) AutoGrade() (domain.Outcome, bool) {
	if v == VerdictPerfect {
		return domain.Correct(true), true
	}
	return domain.Outcome{}, false
}

// Feedback is the classification of an answer plus the alignment behind it.
// Result is empty for VerdictNoAnswer.
type Feedback struct {
	Verdict Verdict `json:"verdict"`
	Result
}

// Check trims both sides, rejects an empty guess, and classifies the rest by
// edit distance.
func Check(guess, target string) Feedback {
	guess = strings.TrimSpace(guess)
	target = strings.TrimSpace(target)

	if guess == "" {
		return Feedback{Verdict: VerdictNoAnswer}
	}

	res := Score(guess, target)
	fb := Feedback{Result: res}
	switch {
	case res.Distance == 0:
		fb.Verdict = VerdictPerfect
	case res.Distance <= CloseDistance:
		fb.Verdict = VerdictClose
	default:
		fb.Verdict = VerdictIncorrect
	}
	return fb
}
