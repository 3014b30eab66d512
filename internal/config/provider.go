package config

import (
	"fmt"

	"github.com/robalobadob/quizbust/internal/llm"
)

// NewProvider builds the configured text-generation backend.
func (c Config) NewProvider() (llm.Provider, error) {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return llm.NewOpenAI(llm.OpenAIConfig{
			BaseURL:     c.LLMBaseURL,
			APIKey:      c.LLMAPIKey,
			Model:       c.LLMModel,
			MaxTokens:   c.LLMMaxTokens,
			Temperature: c.LLMTemperature,
			Timeout:     c.LLMTimeout,
		}), nil
	case ProviderOllama:
		return llm.NewOllama(llm.OllamaConfig{
			BaseURL:     c.LLMBaseURL,
			Model:       c.LLMModel,
			Temperature: c.LLMTemperature,
			Timeout:     c.LLMTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", c.LLMProvider)
	}
}
