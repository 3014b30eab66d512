package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	api "github.com/ollama/ollama/api"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "gemma3n:e4b"
)

// OllamaConfig configures a local Ollama backend.
type OllamaConfig struct {
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Ollama implements Provider with the Ollama Go SDK.
type Ollama struct {
	client      *api.Client
	model       string
	temperature float32
}

func NewOllama(cfg OllamaConfig) (*Ollama, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	return &Ollama{
		client:      api.NewClient(base, &http.Client{Timeout: cfg.Timeout}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (p *Ollama) Name() string { return "ollama" }

func (p *Ollama) Chat(ctx context.Context, req ChatRequest) (Completion, error) {
	stream := false
	creq := &api.ChatRequest{
		Model:  p.model,
		Stream: &stream,
	}
	for _, m := range req.Messages {
		creq.Messages = append(creq.Messages, api.Message{Role: m.Role, Content: m.Content})
	}
	if req.JSON {
		creq.Format = json.RawMessage(`"json"`)
	}
	if p.temperature > 0 {
		creq.Options = map[string]any{"temperature": p.temperature}
	}

	var (
		sb   strings.Builder
		last api.ChatResponse
	)
	err := p.client.Chat(ctx, creq, func(cr api.ChatResponse) error {
		sb.WriteString(cr.Message.Content)
		last = cr
		return nil
	})
	if err != nil {
		te := &TransportError{Provider: p.Name(), Err: err}
		var se api.StatusError
		if errors.As(err, &se) {
			te.StatusCode = se.StatusCode
		}
		return Completion{}, te
	}
	if strings.TrimSpace(sb.String()) == "" {
		return Completion{}, &TransportError{Provider: p.Name(), Err: ErrEmptyCompletion}
	}

	return Completion{
		Model:            last.Model,
		Content:          sb.String(),
		FinishReason:     last.DoneReason,
		Created:          last.CreatedAt,
		PromptTokens:     last.PromptEvalCount,
		CompletionTokens: last.EvalCount,
	}, nil
}
