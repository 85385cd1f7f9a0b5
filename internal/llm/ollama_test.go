package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOllamaProvider(t *testing.T, handler http.HandlerFunc) *OllamaProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(ProviderConfig{BaseURL: server.URL + "/v1/", Model: "llama3.2"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func ollamaReply(content, doneReason string) string {
	b, _ := json.Marshal(map[string]any{
		"model":             "llama3.2",
		"created_at":        "2026-01-01T00:00:00Z",
		"message":           map[string]any{"role": "assistant", "content": content},
		"done":              true,
		"done_reason":       doneReason,
		"prompt_eval_count": 52,
		"eval_count":        7,
	})
	return string(b) + "\n"
}

func TestOllamaProvider_HappyPath(t *testing.T) {
	var sent struct {
		Model    string          `json:"model"`
		Stream   *bool           `json:"stream"`
		Format   json.RawMessage `json:"format"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
		Options map[string]any `json:"options"`
	}
	var path string
	p := newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, ollamaReply(`{"prediction":"YES"}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "Classify lung cancer risk.",
		Messages:  UserMessage("AGE: 70"),
		Schema:    predictionSchema(),
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"prediction":"YES"}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 52 || resp.Usage.OutputTokens != 7 || resp.Usage.TotalTokens != 59 {
		t.Fatalf("usage = %+v", resp.Usage)
	}

	if path != "/api/chat" {
		t.Fatalf("path = %q, want /api/chat", path)
	}
	if sent.Model != "llama3.2" || sent.Stream == nil || *sent.Stream {
		t.Fatalf("model/stream = %q/%v", sent.Model, sent.Stream)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", sent.Messages)
	}
	if len(sent.Format) == 0 || sent.Options["num_predict"] != float64(64) {
		t.Fatalf("format = %s, options = %v", sent.Format, sent.Options)
	}
}

func TestOllamaProvider_LengthAndSchema(t *testing.T) {
	p := newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ollamaReply(`{"pre`, "length"))
	})
	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x"), MaxTokens: 2})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}

	p = newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ollamaReply(`{"prediction":"MAYBE"}`, "stop"))
	})
	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x"), Schema: predictionSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestOllamaProvider_Errors(t *testing.T) {
	p := newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, "{}\n")
	})
	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}

	p = newTestOllamaProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"model \"llama3.2\" not found"}`+"\n")
	})
	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var u *ErrProviderUnavailable
	if !errors.As(err, &u) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestNewOllamaProvider_RejectsRelativeURL(t *testing.T) {
	if _, err := NewOllamaProvider(ProviderConfig{BaseURL: "localhost"}); err == nil {
		t.Fatal("expected an error for a relative URL")
	}
}
