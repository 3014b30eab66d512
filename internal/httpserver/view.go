package httpserver

import (
	"time"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/quiz"
)

// view is the client-facing rendering of a session. The correct answer stays
// hidden until the question has been answered.
type view struct {
	ID            string        `json:"id"`
	Phase         game.Phase    `json:"phase"`
	Balance       int           `json:"balance"`
	Wager         int           `json:"wager"`
	MaxWager      int           `json:"maxWager"`
	MinWager      int           `json:"minWager"`
	WagerStep     int           `json:"wagerStep"`
	PotentialWin  int           `json:"potentialWin"`
	PotentialLoss int           `json:"potentialLoss"`
	Subject       string        `json:"subject,omitempty"`
	Question      *questionView `json:"question,omitempty"`
	Selected      *int          `json:"selected,omitempty"`
	Answered      bool          `json:"answered"`
	Outcome       *game.Outcome `json:"outcome,omitempty"`
	Busy          bool          `json:"busy"`
	LastError     string        `json:"lastError,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type questionView struct {
	Category     string   `json:"category"`
	Difficulty   int      `json:"difficulty"`
	Stars        string   `json:"stars"`
	Text         string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
}

func newView(s game.Session) view {
	v := view{
		ID:        s.ID,
		Phase:     s.Phase,
		Balance:   s.Balance,
		Wager:     s.Wager,
		MaxWager:  s.MaxWager,
		MinWager:  s.Rules.MinWager,
		WagerStep: s.Rules.WagerStep,
		Subject:   s.Subject,
		Selected:  s.Selected,
		Answered:  s.Answered,
		Outcome:   s.Outcome,
		Busy:      s.Busy,
		LastError: s.LastError,
		UpdatedAt: s.UpdatedAt,
	}
	if q := s.Question; q != nil {
		v.PotentialWin, v.PotentialLoss = game.Potential(s.Wager, q.Difficulty)
		v.Question = newQuestionView(*q, s.Answered)
	}
	return v
}

func newQuestionView(q quiz.Question, reveal bool) *questionView {
	qv := &questionView{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Stars:      q.Stars(),
		Text:       q.Text,
		Choices:    q.Choices,
	}
	if reveal {
		c := q.CorrectIndex
		qv.CorrectIndex = &c
	}
	return qv
}
