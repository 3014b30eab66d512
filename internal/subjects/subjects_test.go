package subjects

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() < 10 {
		t.Fatalf("embedded list too short: %d", c.Len())
	}
	for _, s := range c.All() {
		if s == "" || s[0] == '#' {
			t.Fatalf("bad entry %q", s)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.txt")
	body := "# comment\nRivers\n\n  Jazz  \nrivers\nVolcanoes\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := c.All()
	want := []string{"Rivers", "Jazz", "Volcanoes"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New([]string{"", " ", "# only comments"}); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestSuggestionsDistinct(t *testing.T) {
	c, _ := New([]string{"a", "b", "c", "d", "e"})
	for i := 0; i < 20; i++ {
		got := c.Suggestions(3)
		if len(got) != 3 {
			t.Fatalf("len = %d", len(got))
		}
		seen := map[string]bool{}
		for _, s := range got {
			if seen[s] {
				t.Fatalf("duplicate %q in %v", s, got)
			}
			seen[s] = true
		}
	}
	if got := c.Suggestions(50); len(got) != 5 {
		t.Fatalf("oversized request returned %d", len(got))
	}
	if got := c.Suggestions(0); len(got) != 0 {
		t.Fatalf("zero request returned %v", got)
	}
}

func TestDailyDeterministic(t *testing.T) {
	c, _ := New([]string{"a", "b", "c", "d", "e", "f", "g"})
	day := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	later := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)

	if c.Daily(day, "salt") != c.Daily(later, "salt") {
		t.Fatal("same UTC day should give the same subject")
	}
	if DateKey(day) != "2024-05-01" {
		t.Fatalf("date key = %s", DateKey(day))
	}
	if idx := DayIndex(day, "salt", 7); idx < 0 || idx >= 7 {
		t.Fatalf("index out of range: %d", idx)
	}
	if DayIndex(day, "salt", 0) != 0 {
		t.Fatal("empty list should map to 0")
	}
}

func TestRandomFromCatalogue(t *testing.T) {
	c, _ := New([]string{"Rivers", "Jazz", "Chess"})
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		s := c.Random()
		switch s {
		case "Rivers", "Jazz", "Chess":
			seen[s] = true
		default:
			t.Fatalf("Random returned %q", s)
		}
	}
	if len(seen) < 2 {
		t.Fatalf("Random never varied: %v", seen)
	}

	one, _ := New([]string{"Only"})
	if got := one.Random(); got != "Only" {
		t.Fatalf("single subject: %q", got)
	}
}
