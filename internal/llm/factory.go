package llm

import (
	"fmt"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
)

// NewFromConfig builds the completer for the configured provider. Groq is
// the default; "openai" and "anthropic" are also accepted.
func NewFromConfig(cfg *config.Config) (Completer, error) {
	switch cfg.Provider.Type {
	case "", "groq":
		return NewGroq(OpenAIConfig{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Agent.Model,
		})
	case "openai":
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Agent.Model,
		})
	case "anthropic":
		return NewAnthropic(AnthropicConfig{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Agent.Model,
		})
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
}
