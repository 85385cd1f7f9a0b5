package interview

import (
	"context"
	"time"
)

// Phase is the lifecycle phase of an interview session.
type Phase int

const (
	PhaseInterviewing       Phase = iota // Answering questions
	PhaseAwaitingPrediction              // Last answer given, request in flight
	PhaseComplete                        // Prediction received
	PhaseStalled                         // Prediction failed; terminal, no recovery
)

func (p Phase) String() string {
	switch p {
	case PhaseInterviewing:
		return "interviewing"
	case PhaseAwaitingPrediction:
		return "awaiting-prediction"
	case PhaseComplete:
		return "complete"
	case PhaseStalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// MarshalText lets phases appear by name in JSON output.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether no further state change can happen.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseStalled
}

// Speaker identifies who produced a transcript line.
type Speaker string

const (
	SpeakerBot  Speaker = "bot"
	SpeakerUser Speaker = "user"
)

// TranscriptEntry is one line of the chat log. The transcript is only
// rendered, never consulted for flow decisions.
type TranscriptEntry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// RawAnswer is an answer as the user entered it, before encoding.
type RawAnswer struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Raw   string `json:"raw"`
}

// Submission is what a Predictor receives once the interview is complete.
type Submission struct {
	SessionID string
	Questions Questionnaire

	// Record is the encoded payload. Predictors must not modify it.
	Record *AnswerRecord

	// Answers holds the unencoded answers in interview order.
	Answers []RawAnswer
}

// Predictor classifies a completed interview and returns the label.
type Predictor interface {
	Predict(ctx context.Context, sub Submission) (string, error)
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	SessionID     string            `json:"session_id"`
	Phase         Phase             `json:"phase"`
	CurrentIndex  int               `json:"current_index"`
	Total         int               `json:"total"`
	IsComplete    bool              `json:"is_complete"`
	Prediction    string            `json:"prediction,omitempty"`
	HasPrediction bool              `json:"has_prediction"`
	Guidance      string            `json:"guidance,omitempty"`
	Record        *AnswerRecord     `json:"record"`
	Answers       []RawAnswer       `json:"answers"`
	Transcript    []TranscriptEntry `json:"transcript"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    time.Time         `json:"finished_at,omitzero"`
	ErrorMessage  string            `json:"error,omitempty"`
}
