package game

import (
	"testing"

	"github.com/robalobadob/quizbust/internal/quiz"
)

func TestMaxWager(t *testing.T) {
	r := DefaultRules()
	cases := []struct{ balance, want int }{
		{0, 0},
		{5, 0},
		{10, 10},
		{455, 450},
		{999, 990},
		{5000, 1000},
	}
	for _, c := range cases {
		if got := MaxWager(r, c.balance); got != c.want {
			t.Errorf("MaxWager(%d) = %d, want %d", c.balance, got, c.want)
		}
	}
}

func TestPotentialIsSymmetric(t *testing.T) {
	for d := quiz.MinDifficulty; d <= quiz.MaxDifficulty; d++ {
		win, loss := Potential(100, d)
		if win != loss || win != 100*d {
			t.Errorf("difficulty %d: win=%d loss=%d", d, win, loss)
		}
	}
}

func TestSettleNeverNegative(t *testing.T) {
	q := quiz.Question{Difficulty: 5, Text: "q", Choices: []string{"a", "b", "c", "d"}, CorrectIndex: 0}
	for _, balance := range []int{0, 10, 100, 499, 500, 501} {
		o := Settle(balance, 100, q, 1)
		if o.BalanceAfter < 0 {
			t.Errorf("balance %d settled to %d", balance, o.BalanceAfter)
		}
		if o.Correct {
			t.Errorf("choice 1 should be wrong")
		}
	}
	o := Settle(100, 100, q, 0)
	if o.BalanceAfter != 600 {
		t.Errorf("correct settle = %d, want 600", o.BalanceAfter)
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	bad := DefaultRules()
	bad.MinWager = 15
	if err := bad.Validate(); err == nil {
		t.Fatal("min wager off-step should be rejected")
	}
	bad = DefaultRules()
	bad.DefaultWager = 2000
	if err := bad.Validate(); err == nil {
		t.Fatal("default wager above cap should be rejected")
	}
}
