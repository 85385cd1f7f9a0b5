package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → request log → provider.
//
// The mock provider answers every request with {"prediction":"NO"} so the
// LLM backend can be exercised offline.
func NewProvider(ctx context.Context, cfg Config, repo store.LLMRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOllama:
		base, err = NewOllamaProvider(cfg.Ollama)
	case ProviderMock:
		mock := NewMockProvider()
		mock.Fallback = &MockResponse{Content: json.RawMessage(`{"prediction":"NO"}`)}
		base = mock
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo, logger)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
