package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/lungchat/internal/interview"
)

const (
	maxResponseBytes = 1 << 20
	maxErrorBody     = 512
)

// responseSchema is the reply contract: an object with a string prediction.
// Other fields are tolerated.
const responseSchema = `{
	"type": "object",
	"properties": {
		"prediction": {"type": "string"}
	},
	"required": ["prediction"]
}`

// HTTPPredictor posts the encoded record to the prediction service.
type HTTPPredictor struct {
	endpoint string
	client   *http.Client
	schema   *jsonschema.Schema
}

// HTTPOption configures an HTTPPredictor.
type HTTPOption func(*HTTPPredictor)

// WithHTTPClient replaces the default client. Its Timeout takes precedence
// over the one in Config.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPPredictor) { p.client = c }
}

// NewHTTPPredictor creates a predictor for cfg.Endpoint. cfg.Timeout bounds
// each request; zero disables it.
func NewHTTPPredictor(cfg Config, opts ...HTTPOption) (*HTTPPredictor, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("parse response schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("prediction-response.json", doc); err != nil {
		return nil, fmt.Errorf("add response schema: %w", err)
	}
	schema, err := c.Compile("prediction-response.json")
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}

	p := &HTTPPredictor{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		schema:   schema,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Endpoint returns the URL requests are sent to.
func (p *HTTPPredictor) Endpoint() string {
	return p.endpoint
}

// Predict sends one POST with the record as the JSON body and returns the
// prediction field of the reply.
func (p *HTTPPredictor) Predict(ctx context.Context, sub interview.Submission) (string, error) {
	body, err := json.Marshal(sub.Record)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ErrUnavailable{Endpoint: p.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &ErrUnavailable{Endpoint: p.endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ErrStatus{StatusCode: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}

	return p.parse(raw)
}

func (p *HTTPPredictor) parse(raw []byte) (string, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return "", &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := p.schema.Validate(doc); err != nil {
		return "", &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: err}
	}

	obj, _ := doc.(map[string]any)
	label, ok := obj["prediction"].(string)
	if !ok {
		return "", &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: errors.New("prediction is not a string")}
	}
	return label, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
