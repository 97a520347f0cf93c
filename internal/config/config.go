package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultModel         = "llama3-8b-8192"
	DefaultMaxTokens     = 1024
	DefaultTemperature   = 0.5
	DefaultMaxIterations = 5
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 18790
	DefaultBufSize       = 100

	MinMaxTokens     = 256
	MaxMaxTokens     = 4096
	MinMaxIterations = 1
	MaxMaxIterations = 10
)

// GroqModels is the enumerated set of model identifiers accepted for the
// default groq provider.
var GroqModels = []string{
	"llama3-8b-8192",
	"llama3-70b-8192",
	"mixtral-8x7b-32768",
}

type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Provider ProviderConfig `json:"provider"`
	Tools    ToolsConfig    `json:"tools"`
	Channels ChannelsConfig `json:"channels"`
	Gateway  GatewayConfig  `json:"gateway"`
}

// AgentConfig is the per-run surface: which model answers, how creative it
// is, and how much searching it may do before it must stop.
type AgentConfig struct {
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	MaxTokens     int     `json:"maxTokens"`
	MaxIterations int     `json:"maxIterations"`
}

type ProviderConfig struct {
	Type    string `json:"type,omitempty"` // "groq" (default), "openai" or "anthropic"
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl,omitempty"`
}

// ToolsConfig selects which search tools the agent may use. The selection is
// fixed for the lifetime of a run; at least one must be enabled.
type ToolsConfig struct {
	WebSearch bool `json:"webSearch"`
	Arxiv     bool `json:"arxiv"`
	Wikipedia bool `json:"wikipedia"`
}

// Enabled reports whether any tool is selected.
func (t ToolsConfig) Enabled() bool {
	return t.WebSearch || t.Arxiv || t.Wikipedia
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	WebUI    WebUIConfig    `json:"webui"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
	Proxy     string   `json:"proxy,omitempty"`
}

type WebUIConfig struct {
	Enabled   bool     `json:"enabled"`
	AllowFrom []string `json:"allowFrom"`
}

type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Model:         DefaultModel,
			Temperature:   DefaultTemperature,
			MaxTokens:     DefaultMaxTokens,
			MaxIterations: DefaultMaxIterations,
		},
		Provider: ProviderConfig{},
		Tools: ToolsConfig{
			WebSearch: true,
			Arxiv:     true,
			Wikipedia: true,
		},
		Channels: ChannelsConfig{
			WebUI: WebUIConfig{Enabled: true},
		},
		Gateway: GatewayConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".searchagent")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if key := os.Getenv("SEARCHAGENT_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
		if cfg.Provider.Type == "" {
			cfg.Provider.Type = "openai"
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
		if cfg.Provider.Type == "" {
			cfg.Provider.Type = "anthropic"
		}
	}
	if url := os.Getenv("SEARCHAGENT_BASE_URL"); url != "" {
		cfg.Provider.BaseURL = url
	}
	if model := os.Getenv("SEARCHAGENT_MODEL"); model != "" {
		cfg.Agent.Model = model
	}
	if token := os.Getenv("SEARCHAGENT_TELEGRAM_TOKEN"); token != "" {
		cfg.Channels.Telegram.Token = token
	}
	if port := os.Getenv("SEARCHAGENT_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			cfg.Gateway.Port = parsed
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the run configuration ranges. Out-of-range numeric values
// are an error rather than silently clamped so a bad config file is noticed.
func (c *Config) Validate() error {
	if c.Agent.Model == "" {
		c.Agent.Model = DefaultModel
	}
	if c.Provider.Type == "" || c.Provider.Type == "groq" {
		if !validGroqModel(c.Agent.Model) {
			return fmt.Errorf("model %q is not a known groq model (want one of %v)", c.Agent.Model, GroqModels)
		}
	}
	if c.Agent.Temperature < 0 || c.Agent.Temperature > 1 {
		return fmt.Errorf("temperature %.2f out of range [0,1]", c.Agent.Temperature)
	}
	if c.Agent.MaxTokens == 0 {
		c.Agent.MaxTokens = DefaultMaxTokens
	}
	if c.Agent.MaxTokens < MinMaxTokens || c.Agent.MaxTokens > MaxMaxTokens {
		return fmt.Errorf("maxTokens %d out of range [%d,%d]", c.Agent.MaxTokens, MinMaxTokens, MaxMaxTokens)
	}
	if c.Agent.MaxIterations == 0 {
		c.Agent.MaxIterations = DefaultMaxIterations
	}
	if c.Agent.MaxIterations < MinMaxIterations || c.Agent.MaxIterations > MaxMaxIterations {
		return fmt.Errorf("maxIterations %d out of range [%d,%d]", c.Agent.MaxIterations, MinMaxIterations, MaxMaxIterations)
	}
	return nil
}

func validGroqModel(model string) bool {
	for _, m := range GroqModels {
		if m == model {
			return true
		}
	}
	return false
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
