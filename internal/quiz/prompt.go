package quiz

import (
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/robalobadob/quizbust/assets"
)

// Style controls the reply format requested from the model.
//
//   - StyleDelimited: one ';'-separated line (the classic format).
//   - StyleJSON: a single JSON object, decoded strictly, with the delimited
//     parser kept as a fallback for models that ignore the instruction.
type Style int

const (
	StyleDelimited Style = iota
	StyleJSON
)

// ParseStyle maps a config value to a Style. Empty means StyleDelimited.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delimited", "csv":
		return StyleDelimited, nil
	case "json":
		return StyleJSON, nil
	default:
		return StyleDelimited, fmt.Errorf("unknown prompt style %q", s)
	}
}

func (s Style) String() string {
	if s == StyleJSON {
		return "json"
	}
	return "delimited"
}

// Parser returns the parser matching the style.
func (s Style) Parser() Parser {
	if s == StyleJSON {
		return Chain{JSON, Delimited}
	}
	return Delimited
}

// Builder renders the instruction prompt for a subject.
type Builder struct {
	Style Style
}

var (
	tmplOnce sync.Once
	tmpls    map[Style]*template.Template
	tmplErr  error
)

func loadTemplates() {
	tmpls = make(map[Style]*template.Template)
	for style, name := range map[Style]string{StyleDelimited: "delimited", StyleJSON: "json"} {
		text, err := assets.PromptTemplate(name)
		if err != nil {
			tmplErr = fmt.Errorf("load prompt %s: %w", name, err)
			return
		}
		t, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			tmplErr = fmt.Errorf("parse prompt %s: %w", name, err)
			return
		}
		tmpls[style] = t
	}
}

// Build returns the prompt text for subject.
func (b Builder) Build(subject string) (string, error) {
	tmplOnce.Do(loadTemplates)
	if tmplErr != nil {
		return "", tmplErr
	}
	t, ok := tmpls[b.Style]
	if !ok {
		return "", fmt.Errorf("no prompt for style %s", b.Style)
	}
	var sb strings.Builder
	err := t.Execute(&sb, map[string]any{
		"Subject":       strings.TrimSpace(subject),
		"MaxDifficulty": MaxDifficulty,
		"Choices":       NumChoices,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
