package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// Assessment is one finished or abandoned questionnaire run.
type Assessment struct {
	ID            int64
	SessionID     string
	StartedAt     time.Time
	FinishedAt    time.Time
	Phase         string
	Predictor     string
	HasPrediction bool
	Prediction    string
	Guidance      string
	Answers       json.RawMessage // encoded record, key order preserved
	Transcript    json.RawMessage
	ErrorMessage  string
}

// AssessmentRepo persists assessment history.
type AssessmentRepo interface {
	// Save inserts the assessment, replacing any earlier row for the same
	// session, and sets a.ID.
	Save(ctx context.Context, a *Assessment) error

	// Get returns the assessment with id, or nil if there is none.
	Get(ctx context.Context, id int64) (*Assessment, error)

	// List returns assessments newest first.
	List(ctx context.Context, opts QueryOpts) ([]Assessment, error)

	// DeleteAll removes every assessment and returns how many were deleted.
	DeleteAll(ctx context.Context) (int64, error)
}

// LLMRequest records a single LLM API call.
type LLMRequest struct {
	ID           int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates LLM calls sharing a purpose or model.
type LLMUsage struct {
	Name         string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// LLMRepo is the LLM request log.
type LLMRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, req LLMRequest) error

	// QueryLLMRequests returns requests newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequest, error)

	// GetLLMRequest returns the request with id, or nil if there is none.
	GetLLMRequest(ctx context.Context, id int64) (*LLMRequest, error)

	UsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	UsageByModel(ctx context.Context) ([]LLMUsage, error)

	DeleteAll(ctx context.Context) (int64, error)
}
