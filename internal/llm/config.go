package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds provider selection and per-provider settings.
type Config struct {
	// Provider is one of "gemini", "anthropic", "openai", "openrouter", "mock".
	Provider string

	Gemini     ProviderConfig
	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig is the per-vendor key, model and optional endpoint.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the default models per provider.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.5-flash", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// envOverrides lists, per provider, the IQRO_* variables for key and model.
var envOverrides = []struct {
	provider string
	key      string
	model    string
	get      func(*Config) *ProviderConfig
}{
	{"gemini", "IQRO_GEMINI_API_KEY", "IQRO_GEMINI_MODEL", func(c *Config) *ProviderConfig { return &c.Gemini }},
	{"anthropic", "IQRO_ANTHROPIC_API_KEY", "IQRO_ANTHROPIC_MODEL", func(c *Config) *ProviderConfig { return &c.Anthropic }},
	{"openai", "IQRO_OPENAI_API_KEY", "IQRO_OPENAI_MODEL", func(c *Config) *ProviderConfig { return &c.OpenAI }},
	{"openrouter", "IQRO_OPENROUTER_API_KEY", "IQRO_OPENROUTER_MODEL", func(c *Config) *ProviderConfig { return &c.OpenRouter }},
}

// ConfigFromEnv builds a Config from IQRO_* variables. When
// IQRO_LLM_PROVIDER is unset it falls back to DiscoverConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, o := range envOverrides {
		pc := o.get(&cfg)
		if v := os.Getenv(o.key); v != "" {
			pc.APIKey = v
		}
		if v := os.Getenv(o.model); v != "" {
			pc.Model = v
		}
	}
	if u := os.Getenv("IQRO_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if p := os.Getenv("IQRO_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		return cfg
	}
	if found, ok := discover(cfg); ok {
		return found
	}
	return cfg
}

// DiscoverConfig probes the vendors' standard key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter).
func DiscoverConfig() (Config, bool) {
	return discover(DefaultConfig())
}

func discover(cfg Config) (Config, bool) {
	standard := []struct {
		provider string
		env      string
		get      func(*Config) *ProviderConfig
	}{
		{"gemini", "GEMINI_API_KEY", func(c *Config) *ProviderConfig { return &c.Gemini }},
		{"openai", "OPENAI_API_KEY", func(c *Config) *ProviderConfig { return &c.OpenAI }},
		{"anthropic", "ANTHROPIC_API_KEY", func(c *Config) *ProviderConfig { return &c.Anthropic }},
		{"openrouter", "OPENROUTER_API_KEY", func(c *Config) *ProviderConfig { return &c.OpenRouter }},
	}
	for _, s := range standard {
		pc := s.get(&cfg)
		if pc.APIKey == "" {
			pc.APIKey = os.Getenv(s.env)
		}
		if pc.APIKey != "" {
			cfg.Provider = s.provider
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var pc ProviderConfig
	switch c.Provider {
	case "gemini":
		pc = c.Gemini
	case "anthropic":
		pc = c.Anthropic
	case "openai":
		pc = c.OpenAI
	case "openrouter":
		pc = c.OpenRouter
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}
