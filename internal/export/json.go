package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/lungchat/internal/store"
)

type jsonAssessment struct {
	ID         int64           `json:"id"`
	SessionID  string          `json:"session_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at,omitzero"`
	Phase      string          `json:"phase"`
	Predictor  string          `json:"predictor"`
	Prediction *string         `json:"prediction"`
	Guidance   string          `json:"guidance,omitempty"`
	Answers    json.RawMessage `json:"answers"`
	Transcript json.RawMessage `json:"transcript"`
	Error      string          `json:"error,omitempty"`
}

// WriteJSON writes list as an indented JSON array. Answers keep their
// stored key order; a missing prediction is null.
func WriteJSON(w io.Writer, list []store.Assessment) error {
	out := make([]jsonAssessment, len(list))
	for i, a := range list {
		out[i] = jsonAssessment{
			ID:         a.ID,
			SessionID:  a.SessionID,
			StartedAt:  a.StartedAt,
			FinishedAt: a.FinishedAt,
			Phase:      a.Phase,
			Predictor:  a.Predictor,
			Guidance:   a.Guidance,
			Answers:    a.Answers,
			Transcript: a.Transcript,
			Error:      a.ErrorMessage,
		}
		if a.HasPrediction {
			label := a.Prediction
			out[i].Prediction = &label
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriterFor picks the export format from the file extension.
func WriterFor(path string) (func(io.Writer, []store.Assessment) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return WriteXLSX, nil
	case ".json":
		return WriteJSON, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want .xlsx or .json)", ext)
	}
}
