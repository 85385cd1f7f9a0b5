package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider calls a local Ollama server through its native chat API,
// so answers never leave the machine.
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider builds a provider for the server at cfg.BaseURL.
func NewOllamaProvider(cfg ProviderConfig) (*OllamaProvider, error) {
	// The native API lives at the root, not under the OpenAI-style /v1.
	base := strings.TrimSuffix(strings.TrimSuffix(cfg.BaseURL, "/"), "/v1")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("ollama base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ollama base URL %q must be absolute", cfg.BaseURL)
	}
	return &OllamaProvider{
		client: api.NewClient(u, http.DefaultClient),
		model:  cfg.Model,
	}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    p.model,
		Messages: ollamaMessages(req),
		Stream:   &stream,
		Options:  map[string]any{},
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		chatReq.Options["temperature"] = req.Temperature
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		chatReq.Format = def
	}

	var resp api.ChatResponse
	err := p.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return nil, ollamaError(err)
	}
	if resp.Message.Content == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("empty Ollama response")}
	}

	content := json.RawMessage(resp.Message.Content)
	if resp.DoneReason == "length" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.PromptEvalCount,
			OutputTokens: resp.EvalCount,
			TotalTokens:  resp.PromptEvalCount + resp.EvalCount,
		},
		Model:      resp.Model,
		StopReason: "end",
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

func ollamaMessages(req Request) []api.Message {
	var out []api.Message
	if req.System != "" {
		out = append(out, api.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		out = append(out, api.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func ollamaError(err error) error {
	var status api.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
