package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/quiz"
)

// callback data is limited to 64 bytes by Telegram.
const maxCallbackData = 64

const subjectPrefix = "subject_"

type callbackKind int

const (
	cbAction callbackKind = iota
	cbMenu
	cbSubject
	cbWager
	cbNext
	cbSurprise
)

type callback struct {
	kind    callbackKind
	action  game.Action
	subject string
	wager   string
}

// Wager adjustments offered on the keyboard.
const (
	wagerDown    = "down"
	wagerUp      = "up"
	wagerDownBig = "down100"
	wagerUpBig   = "up100"
	wagerMin     = "min"
	wagerMax     = "max"
)

func parseCallback(data string) (callback, error) {
	switch data {
	case "menu":
		return callback{kind: cbMenu}, nil
	case "proceed":
		return callback{action: game.Proceed{}}, nil
	case "lock":
		return callback{action: game.LockWager{}}, nil
	case "submit":
		return callback{action: game.SubmitAnswer{}}, nil
	case "giveup":
		return callback{action: game.Abandon{}}, nil
	case "restart":
		return callback{action: game.Restart{}}, nil
	case "next":
		return callback{kind: cbNext}, nil
	case "surprise":
		return callback{kind: cbSurprise}, nil
	}

	switch {
	case strings.HasPrefix(data, subjectPrefix):
		s := strings.TrimPrefix(data, subjectPrefix)
		if s == "" {
			return callback{}, fmt.Errorf("empty subject in %q", data)
		}
		return callback{kind: cbSubject, subject: s}, nil
	case strings.HasPrefix(data, "wager_"):
		op := strings.TrimPrefix(data, "wager_")
		switch op {
		case wagerDown, wagerUp, wagerDownBig, wagerUpBig, wagerMin, wagerMax:
			return callback{kind: cbWager, wager: op}, nil
		}
	case strings.HasPrefix(data, "choice_"):
		i, err := strconv.Atoi(strings.TrimPrefix(data, "choice_"))
		if err != nil {
			return callback{}, fmt.Errorf("bad choice in %q", data)
		}
		return callback{action: game.SelectChoice{Choice: i}}, nil
	}
	return callback{}, fmt.Errorf("unknown callback %q", data)
}

// adjustWager returns the wager after op, kept inside [MinWager, MaxWager].
func adjustWager(s game.Session, op string) int {
	r := s.Rules
	big := max(r.WagerStep, 100/r.WagerStep*r.WagerStep)
	w := s.Wager
	switch op {
	case wagerDown:
		w -= r.WagerStep
	case wagerUp:
		w += r.WagerStep
	case wagerDownBig:
		w -= big
	case wagerUpBig:
		w += big
	case wagerMin:
		w = r.MinWager
	case wagerMax:
		w = s.MaxWager
	}
	if w > s.MaxWager {
		w = s.MaxWager
	}
	if w < r.MinWager {
		w = r.MinWager
	}
	return w
}

func menuText(s game.Session) string {
	if s.Phase == game.PhaseInput && !s.Busy {
		return fmt.Sprintf("🎲 QuizBust\n\n💰 Balance: %d\n\nSend me any subject, or pick one below. "+
			"Every question is worth your wager × its difficulty, won or lost.", s.Balance)
	}
	return text(s)
}

// text renders the session for a chat message.
func text(s game.Session) string {
	var sb strings.Builder
	if s.LastError != "" {
		sb.WriteString("⚠️ " + s.LastError + "\n\n")
	}
	q := s.Question

	switch {
	case s.Busy:
		fmt.Fprintf(&sb, "⏳ Generating a question about %s...", s.Subject)
	case s.Phase == game.PhaseInput:
		fmt.Fprintf(&sb, "💰 Balance: %d\n\nSend me a subject to get a question.", s.Balance)
	case s.Phase == game.PhasePreview:
		fmt.Fprintf(&sb, "📚 %s\nDifficulty: %s\n💰 Balance: %d", q.Category, q.Stars(), s.Balance)
	case s.Phase == game.PhaseWagering:
		win, loss := game.Potential(s.Wager, q.Difficulty)
		fmt.Fprintf(&sb, "📚 %s  %s\n💰 Balance: %d\n\n🎯 Wager: %d (max %d)\n✅ Win: +%d\n❌ Lose: -%d",
			q.Category, q.Stars(), s.Balance, s.Wager, s.MaxWager, win, loss)
	case s.Phase == game.PhaseQuestion:
		fmt.Fprintf(&sb, "📚 %s  %s   🎯 %d\n\n❓ %s\n", q.Category, q.Stars(), s.Wager, q.Text)
		for i, c := range q.Choices {
			fmt.Fprintf(&sb, "\n%s. %s", quiz.Letter(i), c)
		}
	case s.Phase == game.PhaseResult:
		o := s.Outcome
		if o.Correct {
			fmt.Fprintf(&sb, "✅ Correct! +%d", o.Delta)
		} else {
			fmt.Fprintf(&sb, "❌ Wrong. -%d\nThe answer was %s. %s",
				o.BalanceBefore-o.BalanceAfter, quiz.Letter(o.CorrectIndex), q.Choices[o.CorrectIndex])
		}
		fmt.Fprintf(&sb, "\n\n💰 Balance: %d", s.Balance)
	case s.Phase == game.PhaseGameOver:
		sb.WriteString("💸 Game over! You ran out of money.")
	}
	return sb.String()
}

// keyboard returns the inline keyboard for the session, or nil when the
// player has nothing to press.
func keyboard(s game.Session) *tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData
	row := tgbotapi.NewInlineKeyboardRow

	var rows [][]tgbotapi.InlineKeyboardButton
	switch {
	case s.Busy, s.Phase == game.PhaseInput:
		return nil
	case s.Phase == game.PhasePreview:
		rows = append(rows, row(btn("🎯 Place wager", "proceed")))
	case s.Phase == game.PhaseWagering:
		step := strconv.Itoa(s.Rules.WagerStep)
		rows = append(rows,
			row(btn("-100", "wager_"+wagerDownBig), btn("-"+step, "wager_"+wagerDown),
				btn("+"+step, "wager_"+wagerUp), btn("+100", "wager_"+wagerUpBig)),
			row(btn("Min", "wager_"+wagerMin), btn("Max", "wager_"+wagerMax)),
			row(btn("🔒 Lock wager", "lock")),
		)
	case s.Phase == game.PhaseQuestion:
		var choices []tgbotapi.InlineKeyboardButton
		for i := range s.Question.Choices {
			label := quiz.Letter(i)
			if s.Selected != nil && *s.Selected == i {
				label = "✅ " + label
			}
			choices = append(choices, btn(label, fmt.Sprintf("choice_%d", i)))
		}
		rows = append(rows, choices, row(btn("📨 Submit", "submit"), btn("🏳️ Give up", "giveup")))
	case s.Phase == game.PhaseResult:
		rows = append(rows, row(btn("➡️ Next question", "next")))
	case s.Phase == game.PhaseGameOver:
		rows = append(rows, row(btn("🔄 Restart", "restart")))
	default:
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// subjectKeyboard offers one button per subject that fits in callback data,
// followed by a random pick from the whole catalogue.
func subjectKeyboard(subjects []string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range subjects {
		data := subjectPrefix + s
		if len(data) > maxCallbackData {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(s, data)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎲 Surprise me", "surprise")))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
