// internal/service/service.go
//
// Play service: the glue between the session store, the pure game engine and
// the quiz requester. Both front-ends (HTTP and Telegram) drive sessions
// through it.
//
// Responsibilities:
//   - Create, load and end sessions.
//   - Apply synchronous actions under the store lock (Do).
//   - Run question requests: mark the session busy under the lock, call the
//     model outside it, then apply QuestionReady/QuestionFailed for that
//     generation. Results for a superseded generation are dropped.

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/quiz"
	"github.com/robalobadob/quizbust/internal/store"
)

// Requester fetches a raw reply for a subject and knows how to parse it.
type Requester interface {
	Request(ctx context.Context, subject string) (string, error)
	Parser() quiz.Parser
}

// Service coordinates sessions, rules and question generation.
type Service struct {
	store     store.Store
	requester Requester
	rules     game.Rules
}

func New(st store.Store, rq Requester, rules game.Rules) *Service {
	return &Service{store: st, requester: rq, rules: rules}
}

// Rules returns the rules new sessions start with.
func (s *Service) Rules() game.Rules { return s.rules }

// NewSession creates a session in the input phase.
func (s *Service) NewSession(ctx context.Context) (game.Session, error) {
	sess, err := s.store.Create(ctx, s.rules)
	if err != nil {
		return game.Session{}, err
	}
	log.Info().Str("session", sess.ID).Msg("session created")
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (game.Session, error) {
	return s.store.Get(ctx, id)
}

// End discards a session. A request still in flight for it returns
// store.ErrNotFound once the model answers.
func (s *Service) End(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("session", id).Msg("session ended")
	return nil
}

// Do applies a synchronous action. On error the stored session is returned
// unchanged together with the error.
func (s *Service) Do(ctx context.Context, id string, a game.Action) (game.Session, error) {
	return s.store.Update(ctx, id, func(cur game.Session) (game.Session, error) {
		return game.Apply(cur, a)
	})
}

// RequestQuestion submits subject and waits for the generated question.
//
// A transport or parse failure is recorded on the session (LastError) and
// also returned, so callers can both render the session and report the cause.
func (s *Service) RequestQuestion(ctx context.Context, id, subject string) (game.Session, error) {
	sess, err := s.Do(ctx, id, game.RequestQuestion{Subject: subject})
	if err != nil {
		return sess, err
	}
	return s.fetch(ctx, sess)
}

// Next leaves the result phase: either to game over or by fetching another
// question on the same subject.
func (s *Service) Next(ctx context.Context, id string) (game.Session, error) {
	sess, err := s.Do(ctx, id, game.Next{})
	if err != nil || !sess.Busy {
		return sess, err
	}
	return s.fetch(ctx, sess)
}

// fetch runs the outstanding request of sess and applies its result.
func (s *Service) fetch(ctx context.Context, sess game.Session) (game.Session, error) {
	gen := sess.Generation
	l := log.With().Str("session", sess.ID).Uint64("generation", gen).Str("subject", sess.Subject).Logger()

	var result game.Action
	raw, reqErr := s.requester.Request(ctx, sess.Subject)
	if reqErr == nil {
		q, perr := s.requester.Parser().Parse(raw)
		if perr != nil {
			l.Warn().Err(perr).Str("raw", raw).Msg("unparsable quiz reply")
			reqErr = perr
		} else {
			result = game.QuestionReady{Generation: gen, Question: q}
		}
	} else {
		l.Warn().Err(reqErr).Msg("quiz request failed")
	}
	if result == nil {
		result = game.QuestionFailed{Generation: gen, Err: reqErr}
	}

	// The result must land even if the caller went away meanwhile, otherwise
	// the session would stay busy.
	applyCtx := context.WithoutCancel(ctx)
	next, err := s.Do(applyCtx, sess.ID, result)
	switch {
	case errors.Is(err, game.ErrStale):
		l.Info().Msg("dropping stale quiz result")
		cur, gerr := s.store.Get(applyCtx, sess.ID)
		if gerr != nil {
			return game.Session{}, gerr
		}
		return cur, nil
	case err != nil:
		return next, err
	}

	if reqErr != nil {
		return next, reqErr
	}
	if next.Question == nil {
		return next, quiz.ErrUnparsable
	}
	l.Info().Int("difficulty", next.Question.Difficulty).Str("category", next.Question.Category).Msg("question ready")
	return next, nil
}
