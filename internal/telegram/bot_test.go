package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/quiz"
	"github.com/robalobadob/quizbust/internal/service"
	"github.com/robalobadob/quizbust/internal/store"
	"github.com/robalobadob/quizbust/internal/subjects"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	return f.sent[len(f.sent)-1]
}

type cannedRequester struct{ reply string }

func (c cannedRequester) Request(ctx context.Context, subject string) (string, error) {
	return c.reply, nil
}

func (c cannedRequester) Parser() quiz.Parser { return quiz.Delimited }

func newTestBot(t *testing.T) (*Bot, *fakeSender) {
	t.Helper()
	cat, err := subjects.New([]string{"Rivers", "Jazz"})
	if err != nil {
		t.Fatal(err)
	}
	svc := service.New(store.NewMemoryStore(), cannedRequester{reply: "Math;2;2+2=?;3;4;5;6;2"}, game.DefaultRules())
	out := &fakeSender{}
	return newBot(out, svc, cat), out
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	m := &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}
	if strings.HasPrefix(text, "/") {
		m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: m}
}

func callbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestBotPlaysARound(t *testing.T) {
	b, out := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, textUpdate(7, "/start"))
	if m := out.last(t); !strings.Contains(m.Text, "Balance: 5000") || m.ReplyMarkup == nil {
		t.Fatalf("menu: %q markup=%v", m.Text, m.ReplyMarkup)
	}

	b.handleUpdate(ctx, textUpdate(7, "Arithmetic"))
	b.wg.Wait()
	if m := out.last(t); !strings.Contains(m.Text, "★★☆☆☆") {
		t.Fatalf("preview: %q", m.Text)
	}

	steps := []string{"proceed", "wager_up100", "lock", "choice_1", "submit"}
	for _, d := range steps {
		b.handleUpdate(ctx, callbackUpdate(7, d))
	}
	m := out.last(t)
	if !strings.Contains(m.Text, "Correct") || !strings.Contains(m.Text, "5400") {
		t.Fatalf("result: %q", m.Text)
	}

	b.handleUpdate(ctx, callbackUpdate(7, "next"))
	b.wg.Wait()
	if m := out.last(t); !strings.Contains(m.Text, "Wager: 100") {
		t.Fatalf("next question: %q", m.Text)
	}
}

func TestBotSeparateChats(t *testing.T) {
	b, _ := newTestBot(t)
	ctx := context.Background()
	s1, _ := b.session(ctx, 1)
	s2, _ := b.session(ctx, 2)
	again, _ := b.session(ctx, 1)
	if s1.ID == s2.ID || s1.ID != again.ID {
		t.Fatalf("sessions: %s %s %s", s1.ID, s2.ID, again.ID)
	}
}

func TestParseCallback(t *testing.T) {
	cases := map[string]callbackKind{
		"menu":           cbMenu,
		"next":           cbNext,
		"proceed":        cbAction,
		"choice_3":       cbAction,
		"wager_max":      cbWager,
		"subject_Rivers": cbSubject,
		"surprise":       cbSurprise,
	}
	for data, want := range cases {
		cb, err := parseCallback(data)
		if err != nil {
			t.Errorf("%s: %v", data, err)
			continue
		}
		if cb.kind != want {
			t.Errorf("%s: kind %v, want %v", data, cb.kind, want)
		}
	}
	for _, bad := range []string{"", "wager_lots", "choice_x", "subject_", "launch"} {
		if _, err := parseCallback(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestAdjustWager(t *testing.T) {
	s := game.New("s", game.DefaultRules())
	s.Wager = 100
	s.MaxWager = 450

	cases := map[string]int{
		wagerUp:      110,
		wagerDown:    90,
		wagerUpBig:   200,
		wagerDownBig: 10,
		wagerMin:     10,
		wagerMax:     450,
	}
	for op, want := range cases {
		if got := adjustWager(s, op); got != want {
			t.Errorf("%s: got %d, want %d", op, got, want)
		}
	}
	s.Wager = 440
	if got := adjustWager(s, wagerUpBig); got != 450 {
		t.Errorf("clamp to max: got %d", got)
	}
}

func TestKeyboardPerPhase(t *testing.T) {
	s := game.New("s", game.DefaultRules())
	if keyboard(s) != nil {
		t.Fatal("input phase has no keyboard")
	}
	q := &quiz.Question{Category: "Math", Difficulty: 2, Text: "2+2?", Choices: []string{"3", "4", "5", "6"}, CorrectIndex: 1}
	s.Question = q
	s.Phase = game.PhaseQuestion
	one := 1
	s.Selected = &one
	kb := keyboard(s)
	if kb == nil || len(kb.InlineKeyboard[0]) != 4 {
		t.Fatalf("question keyboard: %+v", kb)
	}
	if !strings.HasPrefix(kb.InlineKeyboard[0][1].Text, "✅") {
		t.Fatalf("selected choice not marked: %q", kb.InlineKeyboard[0][1].Text)
	}
	if !strings.Contains(text(s), "B. 4") {
		t.Fatalf("question text: %q", text(s))
	}

	kb = subjectKeyboard([]string{strings.Repeat("x", 80), "Jazz"})
	if kb == nil || len(kb.InlineKeyboard) != 2 {
		t.Fatalf("subject keyboard: %+v", kb)
	}
	if kb.InlineKeyboard[0][0].Text != "Jazz" {
		t.Fatalf("oversized subject should be skipped: %q", kb.InlineKeyboard[0][0].Text)
	}
	if d := kb.InlineKeyboard[1][0].CallbackData; d == nil || *d != "surprise" {
		t.Fatalf("last row should be the random pick: %+v", kb.InlineKeyboard[1])
	}
}

func TestBotSurpriseSubject(t *testing.T) {
	b, out := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(9, "surprise"))
	b.wg.Wait()

	out.mu.Lock()
	var asked string
	for _, m := range out.sent {
		if strings.HasPrefix(m.Text, "⏳ Generating a question about ") {
			asked = strings.TrimSuffix(strings.TrimPrefix(m.Text, "⏳ Generating a question about "), "...")
		}
	}
	out.mu.Unlock()
	if asked != "Rivers" && asked != "Jazz" {
		t.Fatalf("random subject not from the catalogue: %q", asked)
	}

	sess, err := b.session(ctx, 9)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Phase != game.PhasePreview || sess.Subject != asked {
		t.Fatalf("session after random pick: phase=%s subject=%q", sess.Phase, sess.Subject)
	}
}
