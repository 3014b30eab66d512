package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed prompts/*.tmpl subjects.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// SubjectsList returns the embedded default subjects.
func SubjectsList() ([]string, error) {
	return readLines("subjects.txt")
}

// PromptTemplate returns the raw text of prompts/<name>.tmpl.
func PromptTemplate(name string) (string, error) {
	b, err := FS.ReadFile("prompts/" + name + ".tmpl")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
