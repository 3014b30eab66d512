// internal/game/types.go
//
// Core type definitions for the quiz session engine.
// Defines:
//   - Phase: the named stages of a session (input → preview → wagering → question → result → gameOver).
//   - Rules: balance and wager constants, overridable from a rules file.
//   - Outcome: the settled result of one answered question.
//   - Session: all mutable state of one player's game.

package game

import (
	"fmt"
	"time"

	"github.com/robalobadob/quizbust/internal/quiz"
)

// Phase is one stage of the session state machine.
type Phase string

const (
	PhaseInput    Phase = "input"
	PhasePreview  Phase = "preview"
	PhaseWagering Phase = "wagering"
	PhaseQuestion Phase = "question"
	PhaseResult   Phase = "result"
	PhaseGameOver Phase = "gameOver"
)

// Rules holds the currency constants of a game.
type Rules struct {
	StartingBalance int `yaml:"starting_balance" json:"startingBalance"`
	DefaultWager    int `yaml:"default_wager" json:"defaultWager"`
	MinWager        int `yaml:"min_wager" json:"minWager"`
	WagerStep       int `yaml:"wager_step" json:"wagerStep"`
	MaxWagerCap     int `yaml:"max_wager_cap" json:"maxWagerCap"`
}

// DefaultRules: 5000 to start, wagers of 10..1000 in steps of 10, 100 by default.
func DefaultRules() Rules {
	return Rules{
		StartingBalance: 5000,
		DefaultWager:    100,
		MinWager:        10,
		WagerStep:       10,
		MaxWagerCap:     1000,
	}
}

// Validate rejects rule sets the engine cannot play with.
func (r Rules) Validate() error {
	switch {
	case r.StartingBalance <= 0, r.DefaultWager <= 0, r.MinWager <= 0, r.WagerStep <= 0, r.MaxWagerCap <= 0:
		return fmt.Errorf("rules: all values must be positive: %+v", r)
	case r.MinWager%r.WagerStep != 0:
		return fmt.Errorf("rules: min wager %d is not a multiple of step %d", r.MinWager, r.WagerStep)
	case r.DefaultWager%r.WagerStep != 0:
		return fmt.Errorf("rules: default wager %d is not a multiple of step %d", r.DefaultWager, r.WagerStep)
	case r.MaxWagerCap < r.MinWager:
		return fmt.Errorf("rules: max wager cap %d below min wager %d", r.MaxWagerCap, r.MinWager)
	case r.DefaultWager < r.MinWager || r.DefaultWager > r.MaxWagerCap:
		return fmt.Errorf("rules: default wager %d outside [%d,%d]", r.DefaultWager, r.MinWager, r.MaxWagerCap)
	case r.StartingBalance < r.MinWager:
		return fmt.Errorf("rules: starting balance %d below min wager %d", r.StartingBalance, r.MinWager)
	}
	return nil
}

// Outcome records how one answer was settled.
type Outcome struct {
	Correct       bool `json:"correct"`
	Selected      int  `json:"selected"`
	CorrectIndex  int  `json:"correctIndex"`
	Delta         int  `json:"delta"` // wager × difficulty, won or lost
	BalanceBefore int  `json:"balanceBefore"`
	BalanceAfter  int  `json:"balanceAfter"`
}

// Session holds the state of a single player's game.
// It is only ever changed through Apply.
type Session struct {
	ID    string `json:"id"`
	Rules Rules  `json:"rules"`

	Phase    Phase `json:"phase"`
	Balance  int   `json:"balance"`
	Wager    int   `json:"wager"`
	MaxWager int   `json:"maxWager"`

	Subject  string         `json:"subject,omitempty"`
	Question *quiz.Question `json:"question,omitempty"`
	Selected *int           `json:"selected,omitempty"`
	Answered bool           `json:"answered"`
	Outcome  *Outcome       `json:"outcome,omitempty"`

	// Busy is set while a question request is outstanding; Generation
	// identifies that request and only ever grows.
	Busy       bool   `json:"busy"`
	Generation uint64 `json:"generation"`
	LastError  string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
