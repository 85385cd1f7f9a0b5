// Package llm talks to hosted language models. It backs the optional
// model-driven predictor used when the prediction service is not wanted.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for a prompt, optionally constrained to a
// JSON schema.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier the provider sends requests to.
	ModelID() string
}

// Request is a single-shot prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON matching it. The
	// returned Content is validated before it reaches the caller.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is a shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema is a named JSON Schema.
type Schema struct {
	Name        string // kebab-case, used as the OpenAI schema name
	Description string
	Definition  map[string]any
}

// Response is a provider's answer.
type Response struct {
	// Content is schema-validated JSON when the request carried a schema,
	// raw model text otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage is token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
