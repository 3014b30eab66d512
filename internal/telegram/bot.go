// internal/telegram/bot.go
//
// Telegram front-end for QuizBust.
// Responsibilities:
//   - Map each chat to one play session (created on demand, recreated after expiry).
//   - Treat plain text in the input phase as a subject.
//   - Drive every other transition through inline keyboard callbacks.
//   - Run question requests in their own goroutine so a slow model call never
//     blocks the update loop.

package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/service"
	"github.com/robalobadob/quizbust/internal/store"
	"github.com/robalobadob/quizbust/internal/subjects"
)

// suggestionCount is how many subject buttons /start offers.
const suggestionCount = 4

// sender is the part of *tgbotapi.BotAPI the bot uses to talk back.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	svc      *service.Service
	subjects *subjects.Catalogue

	mu       sync.Mutex
	sessions map[int64]string // chat ID → session ID
	wg       sync.WaitGroup
}

// NewBot authorises token with Telegram.
func NewBot(token string, svc *service.Service, cat *subjects.Catalogue) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, svc, cat)
	b.api = api
	return b, nil
}

func newBot(out sender, svc *service.Service, cat *subjects.Catalogue) *Bot {
	return &Bot{
		out:      out,
		svc:      svc,
		subjects: cat,
		sessions: make(map[int64]string),
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// question requests to finish.
func (b *Bot) Run(ctx context.Context) {
	log.Info().Str("account", b.api.Self.UserName).Msg("telegram bot authorised")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	switch m.Command() {
	case "start", "menu":
		b.sendMenu(ctx, chatID)
		return
	case "reset":
		b.apply(ctx, chatID, game.Reset{})
		return
	case "":
	default:
		b.sendText(chatID, "Unknown command. Send /start for the menu.")
		return
	}

	b.ask(ctx, chatID, m.Text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Warn().Err(err).Msg("answer callback")
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	cmd, err := parseCallback(cb.Data)
	if err != nil {
		log.Warn().Err(err).Str("data", cb.Data).Msg("bad callback")
		return
	}

	switch cmd.kind {
	case cbMenu:
		b.sendMenu(ctx, chatID)
	case cbSubject:
		b.ask(ctx, chatID, cmd.subject)
	case cbSurprise:
		b.ask(ctx, chatID, b.subjects.Random())
	case cbNext:
		sess, err := b.session(ctx, chatID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		b.async(ctx, chatID, func(ctx context.Context) (game.Session, error) {
			return b.svc.Next(ctx, sess.ID)
		})
	case cbWager:
		sess, err := b.session(ctx, chatID)
		if err != nil {
			b.fail(chatID, err)
			return
		}
		b.apply(ctx, chatID, game.SetWager{Amount: adjustWager(sess, cmd.wager)})
	default:
		b.apply(ctx, chatID, cmd.action)
	}
}

// ask submits subject and fetches the question in the background. Outside
// the idle input phase the current state is shown again instead.
func (b *Bot) ask(ctx context.Context, chatID int64, subject string) {
	sess, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	if sess.Phase != game.PhaseInput || sess.Busy {
		b.render(chatID, sess)
		return
	}
	subject = strings.TrimSpace(subject)
	if subject != "" {
		b.sendText(chatID, fmt.Sprintf("⏳ Generating a question about %s...", subject))
	}
	b.async(ctx, chatID, func(ctx context.Context) (game.Session, error) {
		return b.svc.RequestQuestion(ctx, sess.ID, subject)
	})
}

func (b *Bot) async(ctx context.Context, chatID int64, fn func(context.Context) (game.Session, error)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		sess, err := fn(ctx)
		b.show(chatID, sess, err)
	}()
}

// apply runs a synchronous action for the chat's session and shows the result.
func (b *Bot) apply(ctx context.Context, chatID int64, a game.Action) {
	sess, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	sess, err = b.svc.Do(ctx, sess.ID, a)
	b.show(chatID, sess, err)
}

// show renders sess. Player-facing errors go on top; phase errors just
// re-render the current state.
func (b *Bot) show(chatID int64, sess game.Session, err error) {
	var ve *game.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		b.sendText(chatID, "⚠️ "+ve.Msg)
	case errors.Is(err, game.ErrInvalidPhase), errors.Is(err, game.ErrBusy):
		log.Debug().Err(err).Int64("chat", chatID).Msg("ignored action")
	case sess.LastError != "":
		// rendered with the session below
	default:
		b.fail(chatID, err)
		return
	}
	if sess.ID != "" {
		b.render(chatID, sess)
	}
}

// session returns the chat's session, creating one if needed.
func (b *Bot) session(ctx context.Context, chatID int64) (game.Session, error) {
	b.mu.Lock()
	id, ok := b.sessions[chatID]
	b.mu.Unlock()

	if ok {
		sess, err := b.svc.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return game.Session{}, err
		}
	}
	sess, err := b.svc.NewSession(ctx)
	if err != nil {
		return game.Session{}, err
	}
	b.mu.Lock()
	b.sessions[chatID] = sess.ID
	b.mu.Unlock()
	return sess, nil
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64) {
	sess, err := b.session(ctx, chatID)
	if err != nil {
		b.fail(chatID, err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, menuText(sess))
	kb := keyboard(sess)
	if sess.Phase == game.PhaseInput && !sess.Busy {
		kb = subjectKeyboard(b.subjects.Suggestions(suggestionCount))
	}
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	b.send(msg)
}

func (b *Bot) render(chatID int64, sess game.Session) {
	msg := tgbotapi.NewMessage(chatID, text(sess))
	if kb := keyboard(sess); kb != nil {
		msg.ReplyMarkup = *kb
	}
	b.send(msg)
}

func (b *Bot) sendText(chatID int64, s string) {
	b.send(tgbotapi.NewMessage(chatID, s))
}

func (b *Bot) fail(chatID int64, err error) {
	log.Error().Err(err).Int64("chat", chatID).Msg("telegram action failed")
	b.sendText(chatID, "⚠️ "+game.FailureMessage(err))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.out.Send(msg); err != nil {
		log.Warn().Err(err).Int64("chat", msg.ChatID).Msg("send message")
	}
}
