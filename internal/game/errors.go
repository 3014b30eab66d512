package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/quizbust/internal/quiz"
)

// ValidationError is a user input problem that blocks a transition.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrEmptySubject      = &ValidationError{Msg: "please enter a subject"}
	ErrInsufficientFunds = &ValidationError{Msg: "insufficient funds for this wager"}
	ErrNoSelection       = &ValidationError{Msg: "select an answer first"}

	// ErrInvalidPhase: the action is not allowed in the current phase.
	ErrInvalidPhase = errors.New("action not allowed in this phase")
	// ErrBusy: a question request is already outstanding.
	ErrBusy = errors.New("a question is already being generated")
	// ErrStale: a question result belongs to a superseded request.
	ErrStale = errors.New("stale question result")
)

func phaseError(a Action, p Phase) error {
	return fmt.Errorf("%w: %s during %s", ErrInvalidPhase, actionName(a), p)
}

// FailureMessage converts a request or parse failure into the text shown to
// the player.
func FailureMessage(err error) string {
	var m interface{ Message() string }
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Msg
	case errors.Is(err, quiz.ErrEmptySubject):
		return ErrEmptySubject.Msg
	case errors.Is(err, quiz.ErrUnparsable):
		return "The generated question could not be read. Please try again."
	case errors.As(err, &m):
		return m.Message()
	default:
		return "Error fetching response"
	}
}
