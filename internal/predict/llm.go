package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/llm"
)

const llmSystemPrompt = `You screen questionnaire answers for lung cancer risk.
Symptom answers are encoded 2 for yes and 1 for no. Gender is 1 for male
and 2 for female. Reply with a single JSON object whose "prediction" is
"YES" when the answers indicate elevated lung cancer risk and "NO"
otherwise. You are not giving medical advice; a doctor will follow up.`

var llmPredictionSchema = &llm.Schema{
	Name:        "lung-cancer-prediction",
	Description: "Binary lung cancer risk label",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prediction": map[string]any{
				"type": "string",
				"enum": []any{"YES", "NO"},
			},
		},
		"required":             []any{"prediction"},
		"additionalProperties": false,
	},
}

// LLMPredictor asks a language model for the label instead of the hosted
// service. It produces the same YES/NO vocabulary.
type LLMPredictor struct {
	provider llm.Provider
}

// NewLLMPredictor returns a predictor backed by provider.
func NewLLMPredictor(provider llm.Provider) *LLMPredictor {
	return &LLMPredictor{provider: provider}
}

func (p *LLMPredictor) Predict(ctx context.Context, sub interview.Submission) (string, error) {
	prompt, err := llmPrompt(sub)
	if err != nil {
		return "", err
	}

	resp, err := p.provider.Generate(llm.WithPurpose(ctx, llm.PurposePrediction), llm.Request{
		System:    llmSystemPrompt,
		Messages:  llm.UserMessage(prompt),
		Schema:    llmPredictionSchema,
		MaxTokens: 64,
	})
	if err != nil {
		return "", fmt.Errorf("llm prediction: %w", err)
	}

	var out struct {
		Prediction string `json:"prediction"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &ErrInvalidResponse{Body: string(resp.Content), Err: err}
	}
	return out.Prediction, nil
}

// llmPrompt lists each question with the user's answer and its encoding,
// followed by the exact payload the hosted service would receive.
func llmPrompt(sub interview.Submission) (string, error) {
	var b strings.Builder
	b.WriteString("Answers:\n")
	for _, a := range sub.Answers {
		v, _ := sub.Record.Get(a.Key)
		fmt.Fprintf(&b, "- %s (%s): %s => %s\n", a.Label, a.Key, a.Raw, v)
	}

	payload, err := json.Marshal(sub.Record)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	fmt.Fprintf(&b, "\nEncoded record: %s\n", payload)
	return b.String(), nil
}
