// Package predict provides the backends that turn a completed interview
// into a prediction label: the hosted HTTP service and an LLM fallback.
package predict

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/llm"
)

// New builds the predictor selected by cfg. provider is required for the
// LLM backend and ignored otherwise.
func New(cfg Config, provider llm.Provider, logger *zap.Logger) (interview.Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("predictor config: %w", err)
	}

	switch cfg.Backend {
	case BackendLLM:
		if provider == nil {
			return nil, errors.New("llm backend requires an LLM provider")
		}
		return NewLLMPredictor(provider), nil
	default:
		p, err := NewHTTPPredictor(cfg)
		if err != nil {
			return nil, err
		}
		return WithRetry(p, cfg.Retry, logger), nil
	}
}

// Rules returns the encoding rules matching cfg.
func Rules(cfg Config) []interview.Rule {
	return interview.DefaultRules(cfg.NormalizeGender)
}
