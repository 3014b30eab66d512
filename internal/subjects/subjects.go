// internal/subjects/subjects.go
//
// Subject catalogue used for suggestions and the subject of the day.
//
// Responsibilities:
//   - Load subjects from an operator-provided file or fall back to the embedded list.
//   - Supply Suggestions (n distinct random picks), Random, Daily and All.
//
// Loading (Load):
//   1. With a path, read one subject per line from that file
//      (SUBJECTS_FILE in the configuration).
//   2. Without one, use assets/subjects.txt.
//   Blank lines and lines starting with '#' are skipped; duplicates are
//   dropped case-insensitively, keeping the first spelling.

package subjects

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/robalobadob/quizbust/assets"
)

// Catalogue is an immutable list of subjects.
type Catalogue struct {
	list []string
}

// New builds a catalogue from list after trimming and de-duplication.
func New(list []string) (*Catalogue, error) {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, errors.New("subjects: list is empty")
	}
	return &Catalogue{list: out}, nil
}

// Load reads path, or the embedded default when path is empty.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		list, err := assets.SubjectsList()
		if err != nil {
			return nil, err
		}
		return New(list)
	}
	list, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return New(list)
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// All returns a copy of the list.
func (c *Catalogue) All() []string { return append([]string(nil), c.list...) }

// Len is the number of subjects.
func (c *Catalogue) Len() int { return len(c.list) }

// Random returns one cryptographically random subject.
func (c *Catalogue) Random() string { return c.list[randIntn(len(c.list))] }

// Suggestions returns up to n distinct subjects in random order.
func (c *Catalogue) Suggestions(n int) []string {
	if n <= 0 {
		return []string{}
	}
	n = min(n, len(c.list))
	pool := c.All()
	// partial Fisher-Yates
	for i := 0; i < n; i++ {
		j := i + randIntn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Daily returns the subject of the day for t, stable for a given salt.
func (c *Catalogue) Daily(t time.Time, salt string) string {
	return c.list[DayIndex(t, salt, len(c.list))]
}

func randIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}
