// internal/llm/provider.go
//
// Provider abstraction over remote text-generation APIs.
// Responsibilities:
//   - A minimal chat request/response shape shared by every backend.
//   - TransportError: the single failure type callers see for network errors,
//     non-success statuses and empty completions.
//
// Implementations:
//   - OpenAI: any OpenAI-compatible chat-completions API (DeepSeek by default).
//   - Ollama: a local Ollama server.
//
// Credentials live in the provider; callers never see them.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is reported when the provider answered without any text.
var ErrEmptyCompletion = errors.New("empty completion")

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single non-streaming chat call.
type ChatRequest struct {
	Messages []Message
	// JSON asks the provider for a JSON-object response where supported.
	JSON bool
}

// Completion is the top choice of a chat call.
type Completion struct {
	ID               string
	Model            string
	Content          string
	FinishReason     string
	Created          time.Time
	PromptTokens     int
	CompletionTokens int
}

// Provider sends chat requests to a text-generation backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (Completion, error)
}

// TransportError wraps any failure talking to a provider.
// StatusCode is the upstream HTTP status, or 0 when no response was received.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message returns a short explanation suitable for players.
func (e *TransportError) Message() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return "The question service rejected our credentials."
	case e.StatusCode == http.StatusTooManyRequests:
		return "The question service is busy. Please wait and try again."
	case errors.Is(e.Err, ErrEmptyCompletion):
		return "The question service returned an empty reply."
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "The question service took too long to answer."
	default:
		return "Could not reach the question service."
	}
}

// UserMessages builds a single user-role conversation.
func UserMessages(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
