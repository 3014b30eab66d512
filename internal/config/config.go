// internal/config/config.go
//
// Process configuration read from the environment (optionally seeded from .env
// by main) plus an optional YAML rules file.
//
// Environment variables:
//   PORT               HTTP port (5175)
//   LOG_LEVEL          zerolog level (info)
//   LLM_PROVIDER       openai | ollama (openai)
//   LLM_BASE_URL       provider endpoint (provider default)
//   LLM_API_KEY        credential; DEEPSEEK_API_KEY is accepted as a fallback
//   LLM_MODEL          model name (provider default)
//   LLM_TIMEOUT        per-request timeout (60s)
//   LLM_MAX_TOKENS     completion cap (1000)
//   LLM_TEMPERATURE    sampling temperature (0.7)
//   PROMPT_STYLE       delimited | json (delimited)
//   CLIENT_ORIGINS     comma-separated CORS origins (http://localhost:5173)
//   REQUEST_TIMEOUT    HTTP handler timeout (90s)
//   SESSION_TTL        idle session lifetime, 0 disables expiry (24h)
//   RULES_FILE         optional YAML file overriding game rules
//   SUBJECTS_FILE      optional subject list, one per line (embedded list)
//   DAILY_SALT         salt for the subject of the day
//   TELEGRAM_BOT_TOKEN enables the Telegram bot when set

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/quizbust/internal/game"
	"github.com/robalobadob/quizbust/internal/quiz"
	"github.com/robalobadob/quizbust/internal/subjects"
)

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	Port     string
	LogLevel string

	LLMProvider    string
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMTimeout     time.Duration
	LLMMaxTokens   int
	LLMTemperature float32
	PromptStyle    quiz.Style

	ClientOrigins  []string
	RequestTimeout time.Duration
	SessionTTL     time.Duration

	RulesFile    string
	SubjectsFile string
	DailySalt    string

	TelegramToken string
}

// FromEnv reads the configuration. Malformed values are reported rather than
// silently replaced by defaults.
func FromEnv() (Config, error) {
	var errs []string
	fail := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	c := Config{
		Port:          envOr("PORT", "5175"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LLMProvider:   strings.ToLower(envOr("LLM_PROVIDER", ProviderOpenAI)),
		LLMBaseURL:    os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:     envOr("LLM_API_KEY", os.Getenv("DEEPSEEK_API_KEY")),
		LLMModel:      os.Getenv("LLM_MODEL"),
		ClientOrigins: csvOr("CLIENT_ORIGINS", "http://localhost:5173"),
		RulesFile:     os.Getenv("RULES_FILE"),
		SubjectsFile:  os.Getenv("SUBJECTS_FILE"),
		DailySalt:     envOr("DAILY_SALT", "quizbust"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	var err error
	c.LLMTimeout, err = envDuration("LLM_TIMEOUT", 60*time.Second)
	fail(err)
	c.LLMMaxTokens, err = envInt("LLM_MAX_TOKENS", 1000)
	fail(err)
	c.LLMTemperature, err = envFloat32("LLM_TEMPERATURE", 0.7)
	fail(err)
	c.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", 90*time.Second)
	fail(err)
	c.SessionTTL, err = envDuration("SESSION_TTL", 24*time.Hour)
	fail(err)
	c.PromptStyle, err = quiz.ParseStyle(os.Getenv("PROMPT_STYLE"))
	fail(err)

	switch c.LLMProvider {
	case ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER: unknown provider %q", c.LLMProvider))
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return c, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// Rules returns the game rules, from RulesFile when set.
func (c Config) Rules() (game.Rules, error) {
	if c.RulesFile == "" {
		return game.DefaultRules(), nil
	}
	return LoadRules(c.RulesFile)
}

// Subjects loads the subject catalogue, from SubjectsFile when set.
func (c Config) Subjects() (*subjects.Catalogue, error) {
	return subjects.Load(c.SubjectsFile)
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %q is not an integer", k, v)
	}
	return n, nil
}

func envFloat32(k string, def float32) (float32, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a number", k, v)
	}
	return float32(f), nil
}

// envDuration accepts Go durations ("90s") or bare seconds ("90").
func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a duration", k, v)
	}
	return d, nil
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
