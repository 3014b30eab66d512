package quiz

import (
	"errors"
	"testing"
)

func TestParseDelimited(t *testing.T) {
	q, err := ParseDelimited("Science;3;What is H2O?;Water;Salt;Sugar;Oil;1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Category != "Science" || q.Difficulty != 3 || q.Text != "What is H2O?" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if len(q.Choices) != 4 || q.Choices[0] != "Water" || q.Choices[3] != "Oil" {
		t.Fatalf("unexpected choices: %v", q.Choices)
	}
	if q.CorrectIndex != 0 {
		t.Fatalf("correct index = %d, want 0", q.CorrectIndex)
	}

	q, err = ParseDelimited("Math;2;2+2=?;3;4;5;6;2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.CorrectIndex != 1 {
		t.Fatalf("correct index = %d, want 1", q.CorrectIndex)
	}
}

func TestParseDelimitedTolerance(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		diff    int
		correct int
	}{
		{"padding", "  History ; 2 ; Who? ; A ; B ; C ; D ; 4 \n", 2, 3},
		{"difficulty suffix", "History;3/5;Who?;A;B;C;D;4", 3, 3},
		{"punctuated answer", "History;1;Who?;A;B;C;D;2.", 1, 1},
		{"markdown answer", "History;5;Who?;A;B;C;D;**3**", 5, 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := ParseDelimited(c.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if q.Difficulty != c.diff || q.CorrectIndex != c.correct {
				t.Fatalf("got difficulty %d correct %d", q.Difficulty, q.CorrectIndex)
			}
			if q.Choices[0] != "A" {
				t.Fatalf("choices not trimmed: %q", q.Choices[0])
			}
		})
	}
}

func TestParseDelimitedRejects(t *testing.T) {
	cases := map[string]string{
		"five fields":        "Science;3;What?;Water;Salt",
		"nine fields":        "Science;3;What?;A;B;C;D;1;extra",
		"empty":              "",
		"difficulty text":    "Science;hard;What?;A;B;C;D;1",
		"difficulty zero":    "Science;0;What?;A;B;C;D;1",
		"difficulty six":     "Science;6;What?;A;B;C;D;1",
		"correct zero":       "Science;3;What?;A;B;C;D;0",
		"correct five":       "Science;3;What?;A;B;C;D;5",
		"correct missing":    "Science;3;What?;A;B;C;D;",
		"empty choice":       "Science;3;What?;A;;C;D;1",
		"empty question":     "Science;3; ;A;B;C;D;1",
		"prose before reply": "Sure! Here it is: Science;3;What?;A;B;C;D;1;",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			q, err := ParseDelimited(raw)
			if !errors.Is(err, ErrUnparsable) {
				t.Fatalf("expected ErrUnparsable, got q=%+v err=%v", q, err)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	raw := "```json\n" + `{"category":"Geography","difficulty":2,"question":"Longest river?","choices":["Nile","Amazon","Yangtze","Danube"],"correct_choice":1}` + "\n```"
	q, err := ParseJSON(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if q.Category != "Geography" || q.Difficulty != 2 || q.CorrectIndex != 0 || q.Choices[1] != "Amazon" {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestParseJSONFailsClosed(t *testing.T) {
	cases := map[string]string{
		"unknown field":  `{"category":"G","difficulty":2,"question":"q","choices":["a","b","c","d"],"correct_choice":1,"hint":"x"}`,
		"missing answer": `{"category":"G","difficulty":2,"question":"q","choices":["a","b","c","d"]}`,
		"three choices":  `{"category":"G","difficulty":2,"question":"q","choices":["a","b","c"],"correct_choice":1}`,
		"trailing data":  `{"category":"G","difficulty":2,"question":"q","choices":["a","b","c","d"],"correct_choice":1} {}`,
		"bad difficulty": `{"category":"G","difficulty":9,"question":"q","choices":["a","b","c","d"],"correct_choice":1}`,
		"not json":       `G;2;q;a;b;c;d;1`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJSON(raw); !errors.Is(err, ErrUnparsable) {
				t.Fatalf("expected ErrUnparsable, got %v", err)
			}
		})
	}
}

func TestChainFallsBack(t *testing.T) {
	p := StyleJSON.Parser()
	q, err := p.Parse("G;2;q;a;b;c;d;3")
	if err != nil {
		t.Fatalf("fallback parse: %v", err)
	}
	if q.CorrectIndex != 2 {
		t.Fatalf("correct index = %d", q.CorrectIndex)
	}

	_, err = p.Parse("nothing useful")
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
	if _, err := (Chain{}).Parse("x"); !errors.Is(err, ErrUnparsable) {
		t.Fatalf("empty chain: %v", err)
	}
}

func TestStarsAndLetters(t *testing.T) {
	q := Question{Difficulty: 3}
	if got := q.Stars(); got != "★★★☆☆" {
		t.Fatalf("stars = %q", got)
	}
	if Letter(0) != "A" || Letter(3) != "D" {
		t.Fatalf("letters: %s %s", Letter(0), Letter(3))
	}
}
