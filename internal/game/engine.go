// internal/game/engine.go
//
// Core state machine for a single quiz session.
// Responsibilities:
//   - Create sessions with the configured rules (New).
//   - Validate and apply player actions (Apply), returning the next session value.
//   - Track the one asynchronous boundary: a question request is marked Busy
//     with a fresh Generation, and its result is only accepted while that
//     generation is still current.
//   - Settle wagers and decide when the game is over.
//
// Notes:
//   - Apply is pure: it never performs I/O and never reads the clock. The
//     caller stores the returned value.
//   - On error the input session is returned unchanged.
//
// Transitions:
//   input    --RequestQuestion--> input (busy) --QuestionReady--> preview
//   preview  --Proceed----------> wagering
//   wagering --LockWager--------> question      (wager ≤ balance)
//   question --SubmitAnswer-----> result
//   question --Abandon----------> input         (full reset)
//   result   --Next-------------> gameOver      (balance below minimum wager)
//   result   --Next-------------> result (busy) --QuestionReady--> wagering
//   gameOver --Restart----------> input         (full reset)
package game

import (
	"strings"

	"github.com/robalobadob/quizbust/internal/quiz"
)

// New constructs a fresh session in the input phase.
func New(id string, rules Rules) Session {
	s := Session{ID: id, Rules: rules}
	return reset(s)
}

// Action is a player or system event fed to Apply.
type Action interface {
	apply(s Session) (Session, error)
}

// Apply runs a on s and returns the next session.
// If a is rejected, s is returned as-is together with the error; the
// error is the only carrier of a validation message.
func Apply(s Session, a Action) (Session, error) {
	next, err := a.apply(s.clone())
	if err != nil {
		return s, err
	}
	return next, nil
}

// RequestQuestion submits a subject from the input phase and marks the
// session busy until QuestionReady or QuestionFailed arrives.
type RequestQuestion struct {
	Subject string
}

func (a RequestQuestion) apply(s Session) (Session, error) {
	if s.Phase != PhaseInput {
		return s, phaseError(a, s.Phase)
	}
	if s.Busy {
		return s, ErrBusy
	}
	subject := strings.TrimSpace(a.Subject)
	if subject == "" {
		return s, ErrEmptySubject
	}
	s.Subject = subject
	return begin(s), nil
}

// QuestionReady delivers a parsed question for request Generation.
type QuestionReady struct {
	Generation uint64
	Question   *quiz.Question
}

func (a QuestionReady) apply(s Session) (Session, error) {
	if !s.Busy || a.Generation != s.Generation {
		return s, ErrStale
	}
	if a.Question == nil {
		return QuestionFailed{Generation: a.Generation, Err: quiz.ErrUnparsable}.apply(s)
	}
	if err := a.Question.Validate(); err != nil {
		return QuestionFailed{Generation: a.Generation, Err: err}.apply(s)
	}

	switch s.Phase {
	case PhaseInput:
		s.Phase = PhasePreview
	case PhaseResult:
		s.Phase = PhaseWagering
	default:
		return s, phaseError(a, s.Phase)
	}
	q := *a.Question
	q.Choices = append([]string(nil), a.Question.Choices...)

	s.Busy = false
	s.LastError = ""
	s.Question = &q
	s.Selected = nil
	s.Answered = false
	s.Outcome = nil
	s.MaxWager = MaxWager(s.Rules, s.Balance)
	s.Wager = min(s.Rules.DefaultWager, s.MaxWager)
	return s, nil
}

// QuestionFailed reports a transport or parse failure for request Generation.
// The phase and balance are left untouched.
type QuestionFailed struct {
	Generation uint64
	Err        error
}

func (a QuestionFailed) apply(s Session) (Session, error) {
	if !s.Busy || a.Generation != s.Generation {
		return s, ErrStale
	}
	s.Busy = false
	s.LastError = FailureMessage(a.Err)
	return s, nil
}

// Proceed moves from the preview to the wagering phase.
type Proceed struct{}

func (a Proceed) apply(s Session) (Session, error) {
	if s.Phase != PhasePreview {
		return s, phaseError(a, s.Phase)
	}
	s.Phase = PhaseWagering
	return s, nil
}

// SetWager adjusts the wager within [MinWager, MaxWager] in whole steps.
type SetWager struct {
	Amount int
}

func (a SetWager) apply(s Session) (Session, error) {
	if s.Phase != PhaseWagering {
		return s, phaseError(a, s.Phase)
	}
	if err := s.Rules.validWager(a.Amount, s.MaxWager); err != nil {
		return s, err
	}
	s.Wager = a.Amount
	return s, nil
}

// LockWager commits the wager and reveals the question.
type LockWager struct{}

func (a LockWager) apply(s Session) (Session, error) {
	if s.Phase != PhaseWagering {
		return s, phaseError(a, s.Phase)
	}
	if s.Wager > s.Balance {
		return s, ErrInsufficientFunds
	}
	if err := s.Rules.validWager(s.Wager, s.MaxWager); err != nil {
		return s, err
	}
	s.Phase = PhaseQuestion
	s.Selected = nil
	s.Answered = false
	return s, nil
}

// SelectChoice marks a choice before answering. Once the answer is
// submitted further selections are ignored.
type SelectChoice struct {
	Choice int
}

func (a SelectChoice) apply(s Session) (Session, error) {
	switch {
	case s.Answered && (s.Phase == PhaseQuestion || s.Phase == PhaseResult):
		return s, nil
	case s.Phase != PhaseQuestion:
		return s, phaseError(a, s.Phase)
	}
	if a.Choice < 0 || a.Choice >= len(s.Question.Choices) {
		return s, invalid("choice must be between %s and %s",
			quiz.Letter(0), quiz.Letter(len(s.Question.Choices)-1))
	}
	c := a.Choice
	s.Selected = &c
	return s, nil
}

// SubmitAnswer settles the wager for the selected choice. Submitting again
// after the answer was recorded changes nothing.
type SubmitAnswer struct{}

func (a SubmitAnswer) apply(s Session) (Session, error) {
	if s.Phase == PhaseResult && s.Answered {
		return s, nil
	}
	if s.Phase != PhaseQuestion {
		return s, phaseError(a, s.Phase)
	}
	if s.Selected == nil {
		return s, ErrNoSelection
	}
	o := Settle(s.Balance, s.Wager, *s.Question, *s.Selected)
	s.Balance = o.BalanceAfter
	s.Outcome = &o
	s.Answered = true
	s.Phase = PhaseResult
	return s, nil
}

// Abandon gives up on the current question and starts over.
type Abandon struct{}

func (a Abandon) apply(s Session) (Session, error) {
	if s.Phase != PhaseQuestion {
		return s, phaseError(a, s.Phase)
	}
	return reset(s), nil
}

// Next leaves the result phase: to gameOver when the balance can no longer
// cover the minimum wager, otherwise by requesting another question on the
// same subject.
type Next struct{}

func (a Next) apply(s Session) (Session, error) {
	if s.Phase != PhaseResult {
		return s, phaseError(a, s.Phase)
	}
	if s.Busy {
		return s, ErrBusy
	}
	if !s.Rules.CanAfford(s.Balance) {
		s.Phase = PhaseGameOver
		s.LastError = ""
		return s, nil
	}
	return begin(s), nil
}

// Restart starts a new game after a game over.
type Restart struct{}

func (a Restart) apply(s Session) (Session, error) {
	if s.Phase != PhaseGameOver {
		return s, phaseError(a, s.Phase)
	}
	return reset(s), nil
}

// Reset discards the game from any phase.
type Reset struct{}

func (Reset) apply(s Session) (Session, error) { return reset(s), nil }

// ------------------------------ helpers ------------------------------------

// begin marks a new outstanding request.
func begin(s Session) Session {
	s.Busy = true
	s.Generation++
	s.LastError = ""
	return s
}

// reset restores the initial values. ID, rules, creation time and the
// generation counter survive so late results stay recognisably stale.
func reset(s Session) Session {
	return Session{
		ID:         s.ID,
		Rules:      s.Rules,
		Phase:      PhaseInput,
		Balance:    s.Rules.StartingBalance,
		Wager:      s.Rules.DefaultWager,
		MaxWager:   MaxWager(s.Rules, s.Rules.StartingBalance),
		Generation: s.Generation,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// clone copies the pointer fields so the caller's value is never mutated.
func (s Session) clone() Session {
	if s.Selected != nil {
		c := *s.Selected
		s.Selected = &c
	}
	if s.Outcome != nil {
		o := *s.Outcome
		s.Outcome = &o
	}
	return s
}

func actionName(a Action) string {
	switch a.(type) {
	case RequestQuestion:
		return "request question"
	case QuestionReady:
		return "question ready"
	case QuestionFailed:
		return "question failed"
	case Proceed:
		return "proceed"
	case SetWager:
		return "set wager"
	case LockWager:
		return "lock wager"
	case SelectChoice:
		return "select choice"
	case SubmitAnswer:
		return "submit answer"
	case Abandon:
		return "abandon"
	case Next:
		return "next question"
	case Restart:
		return "restart"
	case Reset:
		return "reset"
	default:
		return "unknown action"
	}
}
