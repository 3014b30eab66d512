package quiz

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/llm"
)

// ErrEmptySubject is returned before any network call when the subject is blank.
var ErrEmptySubject = errors.New("please enter a subject")

// Requester turns a subject into a raw model reply.
// It sends exactly one request per call and never retries.
type Requester struct {
	Provider llm.Provider
	Builder  Builder
}

// NewRequester wires a provider with a prompt style.
func NewRequester(p llm.Provider, style Style) *Requester {
	return &Requester{Provider: p, Builder: Builder{Style: style}}
}

// Request returns the model's reply text for subject.
// Transport failures come back as *llm.TransportError.
func (r *Requester) Request(ctx context.Context, subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrEmptySubject
	}
	prompt, err := r.Builder.Build(subject)
	if err != nil {
		return "", err
	}

	c, err := r.Provider.Chat(ctx, llm.ChatRequest{
		Messages: llm.UserMessages(prompt),
		JSON:     r.Builder.Style == StyleJSON,
	})
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("provider", r.Provider.Name()).
		Str("model", c.Model).
		Int("completionTokens", c.CompletionTokens).
		Msg("quiz reply received")
	return c.Content, nil
}

// Parser returns the parser matching the requester's prompt style.
func (r *Requester) Parser() Parser { return r.Builder.Style.Parser() }
