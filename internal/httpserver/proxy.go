// internal/httpserver/proxy.go
//
// Chat proxy: forwards a browser conversation to the configured provider
// using the server-held credential and answers with a chat.completion
// payload carrying only the fields the upstream API returns.
//
//   POST /deepseek   {"messages":[{"role","content"}...]} or {"message":"..."}
//   POST /api/chat   same request; the payload also carries "response",
//                    the reply text on its own

package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/llm"
)

func (s *Server) mountProxy() {
	s.r.Post("/deepseek", s.handleChat(false))
	s.r.Post("/api/chat", s.handleChat(true))
}

type chatReq struct {
	Messages []llm.Message `json:"messages"`
	Message  string        `json:"message"`
}

// messages normalises the request into a conversation. Turns without content
// are dropped and a missing role defaults to user.
func (c chatReq) messages() []llm.Message {
	var out []llm.Message
	for _, m := range c.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role == "" {
			m.Role = llm.RoleUser
		}
		out = append(out, m)
	}
	if len(out) == 0 && strings.TrimSpace(c.Message) != "" {
		out = llm.UserMessages(c.Message)
	}
	return out
}

// handleChat serves the proxy. withText adds the bare reply as "response".
func (s *Server) handleChat(withText bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatReq
		if err := decode(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
			return
		}
		msgs := req.messages()
		if len(msgs) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No messages provided"})
			return
		}

		c, err := s.provider.Chat(r.Context(), llm.ChatRequest{Messages: msgs})
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("provider", s.provider.Name()).Msg("chat proxy failed")
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": game.FailureMessage(err)})
			return
		}
		out := completionPayload(c)
		if withText {
			out.Response = c.Content
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type completion struct {
	ID       string   `json:"id"`
	Object   string   `json:"object"`
	Created  int64    `json:"created"`
	Model    string   `json:"model"`
	Choices  []choice `json:"choices"`
	Usage    usage    `json:"usage"`
	Response string   `json:"response,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      llm.Message `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// completionPayload renders c in the chat.completion wire shape.
func completionPayload(c llm.Completion) completion {
	finish := c.FinishReason
	if finish == "" {
		finish = "stop"
	}
	created := c.Created
	if created.IsZero() {
		created = time.Now()
	}
	return completion{
		ID:      c.ID,
		Object:  "chat.completion",
		Created: created.Unix(),
		Model:   c.Model,
		Choices: []choice{{
			Message:      llm.Message{Role: llm.RoleAssistant, Content: c.Content},
			FinishReason: finish,
		}},
		Usage: usage{
			PromptTokens:     c.PromptTokens,
			CompletionTokens: c.CompletionTokens,
			TotalTokens:      c.PromptTokens + c.CompletionTokens,
		},
	}
}
