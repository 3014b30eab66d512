// internal/quiz/parser.go
//
// Parsers turn a raw model reply into a Question.
//
// Formats:
//   - Delimited: one line, eight ';'-separated fields
//       category;difficulty;question;choice1;choice2;choice3;choice4;correctChoiceNumber
//     The correct choice number is 1-based on the wire and stored zero-based.
//   - JSON: {"category","difficulty","question","choices":[4],"correct_choice"} decoded strictly.
//
// Parsing is all-or-nothing: every parser either returns a Question that passed
// Validate or an error wrapping ErrUnparsable.

package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// delimitedFields is the exact field count of a delimited reply.
const delimitedFields = 8

// Parser converts a plain-text model reply into a Question.
type Parser interface {
	Parse(raw string) (*Question, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(raw string) (*Question, error)

func (f ParserFunc) Parse(raw string) (*Question, error) { return f(raw) }

// Delimited parses the semicolon format.
var Delimited Parser = ParserFunc(ParseDelimited)

// ParseDelimited splits raw on ';' and requires exactly eight fields.
//
// Field 2 (difficulty) is read as the leading integer of the trimmed field, so
// "3/5" yields 3. Field 8 has every non-digit stripped before parsing, which
// tolerates trailing punctuation or markdown such as "2." or "**2**".
func ParseDelimited(raw string) (*Question, error) {
	parts := strings.Split(strings.TrimSpace(raw), ";")
	if len(parts) != delimitedFields {
		return nil, unparsable("want %d fields, got %d", delimitedFields, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	difficulty, err := leadingInt(parts[1])
	if err != nil {
		return nil, unparsable("difficulty %q is not a number", parts[1])
	}
	correct, err := strconv.Atoi(digitsOnly(parts[7]))
	if err != nil {
		return nil, unparsable("correct choice %q is not a number", parts[7])
	}

	q := Question{
		Category:     parts[0],
		Difficulty:   difficulty,
		Text:         parts[2],
		Choices:      []string{parts[3], parts[4], parts[5], parts[6]},
		CorrectIndex: correct - 1,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// jsonQuestion mirrors the structured reply. Pointers distinguish missing
// fields from zero values.
type jsonQuestion struct {
	Category      *string  `json:"category"`
	Difficulty    *int     `json:"difficulty"`
	Question      *string  `json:"question"`
	Choices       []string `json:"choices"`
	CorrectChoice *int     `json:"correct_choice"`
}

// JSON parses the structured format and fails closed on any schema violation.
var JSON Parser = ParserFunc(ParseJSON)

// ParseJSON decodes a single JSON object, optionally wrapped in a Markdown code
// fence. Unknown fields, missing fields and trailing data are all rejected.
func ParseJSON(raw string) (*Question, error) {
	body := stripFence(strings.TrimSpace(raw))
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var jq jsonQuestion
	if err := dec.Decode(&jq); err != nil {
		return nil, unparsable("json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, unparsable("json: trailing data after object")
	}

	switch {
	case jq.Category == nil:
		return nil, unparsable("json: missing category")
	case jq.Difficulty == nil:
		return nil, unparsable("json: missing difficulty")
	case jq.Question == nil:
		return nil, unparsable("json: missing question")
	case jq.CorrectChoice == nil:
		return nil, unparsable("json: missing correct_choice")
	}

	q := Question{
		Category:     strings.TrimSpace(*jq.Category),
		Difficulty:   *jq.Difficulty,
		Text:         strings.TrimSpace(*jq.Question),
		Choices:      make([]string, len(jq.Choices)),
		CorrectIndex: *jq.CorrectChoice - 1,
	}
	for i, c := range jq.Choices {
		q.Choices[i] = strings.TrimSpace(c)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

// Chain tries each parser in order and returns the first success.
type Chain []Parser

func (c Chain) Parse(raw string) (*Question, error) {
	var errs []error
	for _, p := range c {
		q, err := p.Parse(raw)
		if err == nil {
			return q, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, unparsable("no parsers configured")
	}
	return nil, errors.Join(errs...)
}

// leadingInt parses an optional sign followed by digits at the start of s and
// ignores whatever follows.
func leadingInt(s string) (int, error) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s[:end])
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		lang := strings.TrimFunc(s[:nl], unicode.IsSpace)
		if lang == "" || isWord(lang) {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func isWord(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) == ""
}
