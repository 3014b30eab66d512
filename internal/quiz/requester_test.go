package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalobadob/quizbust/internal/llm"
)

type fakeProvider struct {
	reply string
	err   error
	calls []llm.ChatRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (llm.Completion, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Model: "fake-1", Content: f.reply}, nil
}

func TestRequestSendsOneUserMessage(t *testing.T) {
	p := &fakeProvider{reply: "Science;3;What is H2O?;Water;Salt;Sugar;Oil;1"}
	r := NewRequester(p, StyleDelimited)

	raw, err := r.Request(context.Background(), "  Chemistry ")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if raw != p.reply {
		t.Fatalf("raw = %q", raw)
	}
	if len(p.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(p.calls))
	}
	msgs := p.calls[0].Messages
	if len(msgs) != 1 || msgs[0].Role != llm.RoleUser {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if !strings.Contains(msgs[0].Content, "about Chemistry.") {
		t.Fatalf("prompt does not name the subject: %q", msgs[0].Content)
	}
	if p.calls[0].JSON {
		t.Fatal("delimited style should not ask for JSON")
	}
	if _, err := r.Parser().Parse(raw); err != nil {
		t.Fatalf("parse reply: %v", err)
	}
}

func TestRequestEmptySubject(t *testing.T) {
	p := &fakeProvider{}
	r := NewRequester(p, StyleDelimited)
	if _, err := r.Request(context.Background(), " \t"); !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("expected ErrEmptySubject, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Fatal("no request should be sent for a blank subject")
	}
}

func TestRequestTransportError(t *testing.T) {
	terr := &llm.TransportError{Provider: "fake", StatusCode: 500, Err: errors.New("upstream down")}
	r := NewRequester(&fakeProvider{err: terr}, StyleJSON)
	_, err := r.Request(context.Background(), "Rivers")
	var got *llm.TransportError
	if !errors.As(err, &got) || got.StatusCode != 500 {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestBuilderStyles(t *testing.T) {
	d, err := Builder{Style: StyleDelimited}.Build("Jazz")
	if err != nil {
		t.Fatalf("build delimited: %v", err)
	}
	if !strings.Contains(d, "<correct choice number>") || !strings.Contains(d, "out of 5") {
		t.Fatalf("delimited prompt: %q", d)
	}

	j, err := Builder{Style: StyleJSON}.Build("Jazz")
	if err != nil {
		t.Fatalf("build json: %v", err)
	}
	if !strings.Contains(j, `"correct_choice"`) || !strings.Contains(j, "about Jazz.") {
		t.Fatalf("json prompt: %q", j)
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{"": StyleDelimited, "csv": StyleDelimited, "JSON": StyleJSON} {
		got, err := ParseStyle(in)
		if err != nil || got != want {
			t.Errorf("ParseStyle(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStyle("xml"); err == nil {
		t.Error("expected error for unknown style")
	}
}
