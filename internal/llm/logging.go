package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/store"
)

// LoggingProvider records every call in the LLM request log.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.LLMRepo
	logger   *zap.Logger
}

// WithLogging wraps p so each Generate call is appended to repo. The
// provider name is stored alongside the model. Failures to write the log
// go to logger and never fail the call.
func WithLogging(p Provider, provider string, repo store.LLMRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: provider, repo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	entry := store.LLMRequest{
		Timestamp:   start,
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			entry.Model = resp.Model
		}
		entry.ResponseBody = string(resp.Content)
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	l.logger.Debug("llm request",
		zap.String("provider", entry.Provider),
		zap.String("model", entry.Model),
		zap.String("purpose", entry.Purpose),
		zap.Duration("latency", latency),
		zap.Bool("success", entry.Success),
	)

	// The caller's context may already be cancelled; the log row should
	// still land.
	if logErr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), entry); logErr != nil {
		l.logger.Warn("failed to record LLM request", zap.Error(logErr))
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func describeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
