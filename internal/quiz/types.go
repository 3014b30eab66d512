// internal/quiz/types.go
//
// Structured form of one model-generated quiz question.
// Defines:
//   - Question: category, difficulty (1–5, also the payout multiplier), text,
//     exactly four choices and the zero-based index of the correct one.
//   - Validate: the invariants every parser enforces before returning a Question.
//   - Stars/Letter: presentation helpers shared by the HTTP and Telegram front-ends.

package quiz

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NumChoices is the number of options every question carries.
	NumChoices = 4
	// MinDifficulty and MaxDifficulty bound Question.Difficulty.
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ErrUnparsable is returned (wrapped with a reason) when no usable question
// can be extracted from a model reply.
var ErrUnparsable = errors.New("unparsable quiz response")

// Question is one generated multiple-choice question.
type Question struct {
	Category     string   `json:"category"`
	Difficulty   int      `json:"difficulty"`
	Text         string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// Validate checks the question invariants. Any violation is reported as
// ErrUnparsable so callers never see a partially usable question.
func (q Question) Validate() error {
	if len(q.Choices) != NumChoices {
		return unparsable("want %d choices, got %d", NumChoices, len(q.Choices))
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return unparsable("difficulty %d outside [%d,%d]", q.Difficulty, MinDifficulty, MaxDifficulty)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= NumChoices {
		return unparsable("correct choice %d outside [1,%d]", q.CorrectIndex+1, NumChoices)
	}
	if strings.TrimSpace(q.Text) == "" {
		return unparsable("empty question text")
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return unparsable("choice %s is empty", Letter(i))
		}
	}
	return nil
}

// IsCorrect reports whether choice is the right answer.
func (q Question) IsCorrect(choice int) bool { return choice == q.CorrectIndex }

// Stars renders the difficulty as filled and empty stars, e.g. "★★★☆☆".
func (q Question) Stars() string {
	d := q.Difficulty
	if d < 0 {
		d = 0
	}
	if d > MaxDifficulty {
		d = MaxDifficulty
	}
	return strings.Repeat("★", d) + strings.Repeat("☆", MaxDifficulty-d)
}

// Letter maps a zero-based choice index to its label: 0 → "A".
func Letter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

func unparsable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnparsable, fmt.Sprintf(format, args...))
}
