package game

import "github.com/robalobadob/quizbust/internal/quiz"

// MaxWager is the wager cap for a balance: the balance rounded down to a
// whole step, capped at r.MaxWagerCap.
func MaxWager(r Rules, balance int) int {
	if balance <= 0 || r.WagerStep <= 0 {
		return 0
	}
	m := balance / r.WagerStep * r.WagerStep
	if m > r.MaxWagerCap {
		m = r.MaxWagerCap
	}
	return m
}

// Potential returns what a wager wins or loses at a difficulty. Risk and
// reward use the same multiplier, so both values are always equal.
func Potential(wager, difficulty int) (win, loss int) {
	d := wager * difficulty
	return d, d
}

// Settle scores selected against q and applies wager × difficulty to the
// balance. A loss never takes the balance below zero.
func Settle(balance, wager int, q quiz.Question, selected int) Outcome {
	win, loss := Potential(wager, q.Difficulty)
	o := Outcome{
		Correct:       q.IsCorrect(selected),
		Selected:      selected,
		CorrectIndex:  q.CorrectIndex,
		Delta:         win,
		BalanceBefore: balance,
	}
	if o.Correct {
		o.BalanceAfter = balance + win
	} else {
		o.BalanceAfter = max(0, balance-loss)
	}
	return o
}

// CanAfford reports whether balance still covers the minimum wager.
func (r Rules) CanAfford(balance int) bool { return balance >= r.MinWager }

// validWager checks the range and step of a wager against a cap.
func (r Rules) validWager(amount, maxWager int) error {
	if amount < r.MinWager || amount > maxWager {
		return invalid("wager must be between %d and %d", r.MinWager, maxWager)
	}
	if amount%r.WagerStep != 0 {
		return invalid("wager must be a multiple of %d", r.WagerStep)
	}
	return nil
}
