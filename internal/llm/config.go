package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/lungchat/internal/backoff"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// Config selects and configures the LLM provider.
type Config struct {
	Provider string

	Anthropic ProviderConfig
	OpenAI    ProviderConfig // BaseURL lets this target OpenRouter or any compatible API
	Gemini    ProviderConfig
	Ollama    ProviderConfig // local server, no API key

	Retry   backoff.Policy
	Timeout time.Duration // per request including retries
}

// ProviderConfig is the per-provider connection setting.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns the defaults: Anthropic Haiku, three attempts.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAnthropic,
		Anthropic: ProviderConfig{Model: "claude-haiku"},
		OpenAI:    ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:    ProviderConfig{Model: "gemini-flash"},
		Ollama:    ProviderConfig{Model: "llama3.2", BaseURL: "http://localhost:11434"},
		Retry: backoff.Policy{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays LUNGCHAT_* environment variables on the defaults.
// When LUNGCHAT_LLM_PROVIDER is unset, the standard vendor key variables
// are probed (see DiscoverConfig).
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	explicit := os.Getenv("LUNGCHAT_LLM_PROVIDER")
	if explicit == "" {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	} else {
		cfg.Provider = explicit
	}

	overlay := func(dst *ProviderConfig, prefix string) {
		if v := os.Getenv(prefix + "_API_KEY"); v != "" {
			dst.APIKey = v
		}
		if v := os.Getenv(prefix + "_MODEL"); v != "" {
			dst.Model = v
		}
		if v := os.Getenv(prefix + "_BASE_URL"); v != "" {
			dst.BaseURL = v
		}
	}
	overlay(&cfg.Anthropic, "LUNGCHAT_ANTHROPIC")
	overlay(&cfg.OpenAI, "LUNGCHAT_OPENAI")
	overlay(&cfg.Gemini, "LUNGCHAT_GEMINI")
	overlay(&cfg.Ollama, "LUNGCHAT_OLLAMA")

	if v := os.Getenv("LUNGCHAT_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// DiscoverConfig picks the first provider whose vendor API key variable is
// set, in the order Gemini, OpenAI, Anthropic.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "LUNGCHAT_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "LUNGCHAT_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "LUNGCHAT_GEMINI_API_KEY"
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("LUNGCHAT_OLLAMA_BASE_URL is required for the ollama provider")
		}
		return nil
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
