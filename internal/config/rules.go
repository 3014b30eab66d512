package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/quizbust/internal/game"
)

// LoadRules reads a YAML rules file. Keys that are absent keep their default
// value; unknown keys are rejected.
//
//	starting_balance: 5000
//	default_wager: 100
//	min_wager: 10
//	wager_step: 10
//	max_wager_cap: 1000
func LoadRules(path string) (game.Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return game.Rules{}, fmt.Errorf("rules: %w", err)
	}
	return ParseRules(b)
}

// ParseRules decodes YAML rules on top of game.DefaultRules and validates them.
func ParseRules(b []byte) (game.Rules, error) {
	r := game.DefaultRules()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return game.Rules{}, fmt.Errorf("rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return game.Rules{}, err
	}
	return r, nil
}
