package interview

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockPredictor implements Predictor for testing.
type mockPredictor struct {
	mu    sync.Mutex
	label string
	err   error
	block chan struct{}
	calls []Submission
}

func (m *mockPredictor) Predict(ctx context.Context, sub Submission) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sub)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.label, nil
}

func (m *mockPredictor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

var scenarioAnswers = []string{"Female", "30", "No", "No", "No", "No", "No", "No", "No", "No", "No", "No", "No"}

func newTestController(t *testing.T, p Predictor, opts ...Option) *Controller {
	t.Helper()
	c, err := New(DefaultQuestions(), p, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func answerAll(t *testing.T, c *Controller, answers []string) {
	t.Helper()
	for i, a := range answers {
		if err := c.SubmitAnswer(context.Background(), a); err != nil {
			t.Fatalf("answer %d (%q): %v", i, a, err)
		}
	}
}

func waitDone(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("prediction did not finish")
	}
}

func TestController_ScenarioRecord(t *testing.T) {
	p := &mockPredictor{label: "NO"}
	c := newTestController(t, p)

	answerAll(t, c, scenarioAnswers)
	waitDone(t, c)

	if p.callCount() != 1 {
		t.Fatalf("predictor calls = %d, want 1", p.callCount())
	}
	rec := p.calls[0].Record
	if rec.Len() != 13 {
		t.Fatalf("record fields = %d, want 13", rec.Len())
	}
	if v, _ := rec.Get(KeyGender); v != StringValue("2") {
		t.Errorf("GENDER = %v, want \"2\"", v)
	}
	if v, _ := rec.Get(KeyAge); v != IntValue(30) {
		t.Errorf("AGE = %v, want 30", v)
	}
	for _, key := range DefaultQuestions().Keys()[2:] {
		if v, _ := rec.Get(key); v != StringValue("1") {
			t.Errorf("%s = %v, want \"1\"", key, v)
		}
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"GENDER":"2","AGE":30,"SMOKING_STATUS":"1","YELLOW_FINGERS":"1","ANXIETY":"1",` +
		`"PEER_PRESSURE":"1","CHRONIC_DISEASE":"1","FATIGUE":"1","ALLERGY":"1","WHEEZING":"1",` +
		`"ALCOHOL_CONSUMING":"1","COUGHING":"1","SHORTNESS_OF_BREATH":"1"}`
	if string(payload) != want {
		t.Fatalf("payload =\n%s\nwant\n%s", payload, want)
	}
}

func TestController_CompletionState(t *testing.T) {
	p := &mockPredictor{label: "NO"}
	c := newTestController(t, p)

	answerAll(t, c, scenarioAnswers)
	waitDone(t, c)

	snap := c.Snapshot()
	if snap.CurrentIndex != 13 || snap.Total != 13 {
		t.Fatalf("index = %d/%d, want 13/13", snap.CurrentIndex, snap.Total)
	}
	if !snap.IsComplete {
		t.Fatal("expected complete")
	}
	if snap.Phase != PhaseComplete {
		t.Fatalf("phase = %s, want complete", snap.Phase)
	}
	if _, ok := c.Current(); ok {
		t.Fatal("expected no current question")
	}
}

func TestController_TranscriptAndRawAnswers(t *testing.T) {
	p := &mockPredictor{label: "NO"}
	c := newTestController(t, p)

	answerAll(t, c, scenarioAnswers)
	waitDone(t, c)

	snap := c.Snapshot()
	// Two lines per answer plus the prediction announcement.
	if len(snap.Transcript) != 27 {
		t.Fatalf("transcript len = %d, want 27", len(snap.Transcript))
	}
	first, second := snap.Transcript[0], snap.Transcript[1]
	if first.Speaker != SpeakerBot || first.Text != "Please select your gender" {
		t.Errorf("transcript[0] = %+v", first)
	}
	if second.Speaker != SpeakerUser || second.Text != "Female" {
		t.Errorf("transcript[1] = %+v, want raw answer", second)
	}
	last := snap.Transcript[len(snap.Transcript)-1]
	if last.Speaker != SpeakerBot || last.Text != "Prediction: NO" {
		t.Errorf("last transcript = %+v", last)
	}
	if snap.Answers[1].Raw != "30" {
		t.Errorf("raw age = %q, want \"30\"", snap.Answers[1].Raw)
	}
}

func TestController_Guidance(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"YES", GuidancePositive},
		{"NO", GuidanceNegative},
		{"yes", GuidanceNegative},
		{"", GuidanceNegative},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c := newTestController(t, &mockPredictor{label: tt.label})
			answerAll(t, c, scenarioAnswers)
			waitDone(t, c)

			snap := c.Snapshot()
			if !snap.HasPrediction || snap.Prediction != tt.label {
				t.Fatalf("prediction = %q (%v), want %q", snap.Prediction, snap.HasPrediction, tt.label)
			}
			if snap.Guidance != tt.want {
				t.Fatalf("guidance = %q", snap.Guidance)
			}
		})
	}
}

func TestController_PredictionFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := &mockPredictor{err: errors.New("connection refused")}
	c := newTestController(t, p, WithLogger(zap.New(core)))

	answerAll(t, c, scenarioAnswers)
	waitDone(t, c)

	snap := c.Snapshot()
	if snap.HasPrediction || snap.Prediction != "" {
		t.Errorf("prediction set on failure: %q", snap.Prediction)
	}
	if snap.Guidance != "" {
		t.Errorf("guidance set on failure: %q", snap.Guidance)
	}
	if snap.Phase != PhaseStalled {
		t.Errorf("phase = %s, want stalled", snap.Phase)
	}
	if snap.ErrorMessage == "" {
		t.Error("expected error message kept for persistence")
	}
	if logs.Len() != 1 {
		t.Fatalf("log entries = %d, want 1", logs.Len())
	}
	if entry := logs.All()[0]; entry.Level != zapcore.ErrorLevel {
		t.Errorf("log level = %s, want error", entry.Level)
	}

	if err := c.SubmitAnswer(context.Background(), "Yes"); !errors.Is(err, ErrInterviewComplete) {
		t.Fatalf("submit after completion: err = %v, want ErrInterviewComplete", err)
	}
	if err := c.RunPrediction(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second prediction: err = %v, want ErrAlreadySubmitted", err)
	}
	if p.callCount() != 1 {
		t.Fatalf("predictor calls = %d, want 1", p.callCount())
	}
}

func TestController_SubmitAnswerPreconditions(t *testing.T) {
	c := newTestController(t, &mockPredictor{label: "NO"})

	if err := c.SubmitAnswer(context.Background(), ""); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("empty answer: err = %v, want ErrEmptyAnswer", err)
	}
	if answered, _ := c.Progress(); answered != 0 {
		t.Fatalf("empty answer advanced the interview to %d", answered)
	}
	if err := c.RunPrediction(context.Background()); !errors.Is(err, ErrNotComplete) {
		t.Fatalf("early prediction: err = %v, want ErrNotComplete", err)
	}
	if c.Phase() != PhaseInterviewing {
		t.Fatalf("phase = %s, want interviewing", c.Phase())
	}
}

func TestController_UnparseableAgeStoredAsNaN(t *testing.T) {
	p := &mockPredictor{label: "NO"}
	c := newTestController(t, p)

	answers := append([]string(nil), scenarioAnswers...)
	answers[1] = "abc"
	answerAll(t, c, answers)
	waitDone(t, c)

	if v, _ := p.calls[0].Record.Get(KeyAge); v.Kind() != ValueNaN {
		t.Fatalf("AGE = %v, want NaN", v)
	}
}

func TestController_ShortnessOfBreathDefault(t *testing.T) {
	p := &mockPredictor{label: "NO"}
	qs := Questionnaire{
		{Label: "Do you smoke?", Key: "SMOKING_STATUS", Kind: KindChoice, Options: []string{"Yes", "No"}},
	}
	c, err := New(qs, p)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	answerAll(t, c, []string{"Yes"})
	waitDone(t, c)

	v, ok := p.calls[0].Record.Get(KeyShortnessOfBreath)
	if !ok || v != StringValue("1") {
		t.Fatalf("SHORTNESS_OF_BREATH = %v (present %v), want defaulted \"1\"", v, ok)
	}
}

func TestController_ManualPrediction(t *testing.T) {
	p := &mockPredictor{label: "YES"}
	c := newTestController(t, p, WithManualPrediction(), WithSessionID("s-1"))

	answerAll(t, c, scenarioAnswers)
	if c.Phase() != PhaseAwaitingPrediction {
		t.Fatalf("phase = %s, want awaiting-prediction", c.Phase())
	}
	if p.callCount() != 0 {
		t.Fatalf("predictor called before RunPrediction")
	}

	if err := c.RunPrediction(context.Background()); err != nil {
		t.Fatalf("run prediction: %v", err)
	}
	if p.calls[0].SessionID != "s-1" {
		t.Errorf("session id = %q, want s-1", p.calls[0].SessionID)
	}
	if got := c.Snapshot().Guidance; got != GuidancePositive {
		t.Fatalf("guidance = %q", got)
	}
}

func TestController_CancelledPredictionLeavesStateUntouched(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := &mockPredictor{label: "YES", block: make(chan struct{})}
	c := newTestController(t, p, WithLogger(zap.New(core)))

	ctx, cancel := context.WithCancel(context.Background())
	for _, a := range scenarioAnswers {
		if err := c.SubmitAnswer(ctx, a); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	cancel()
	waitDone(t, c)

	snap := c.Snapshot()
	if snap.Phase != PhaseAwaitingPrediction {
		t.Fatalf("phase = %s, want awaiting-prediction", snap.Phase)
	}
	if snap.HasPrediction {
		t.Fatal("prediction set after cancellation")
	}
	if logs.Len() != 0 {
		t.Fatalf("log entries = %d, want 0", logs.Len())
	}
}

func TestController_Clock(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := start
	c := newTestController(t, &mockPredictor{label: "NO"},
		WithManualPrediction(),
		WithClock(func() time.Time { return now }),
	)
	answerAll(t, c, scenarioAnswers)
	now = start.Add(time.Minute)
	if err := c.RunPrediction(context.Background()); err != nil {
		t.Fatalf("run prediction: %v", err)
	}

	snap := c.Snapshot()
	if !snap.StartedAt.Equal(start) || !snap.FinishedAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("times = %s .. %s", snap.StartedAt, snap.FinishedAt)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, &mockPredictor{}); err == nil {
		t.Fatal("expected error for empty questionnaire")
	}
	if _, err := New(DefaultQuestions(), nil); err == nil {
		t.Fatal("expected error for nil predictor")
	}
}
