package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInterviewComplete = errors.New("interview already complete")
	ErrEmptyAnswer       = errors.New("answer is empty")
	ErrNotComplete       = errors.New("interview not complete")
	ErrAlreadySubmitted  = errors.New("prediction already requested")
)

// Controller drives one interview session: it walks the questionnaire,
// encodes answers into the record, and requests a single prediction once
// the last question is answered. A Controller is not reusable across
// sessions.
type Controller struct {
	questions   Questionnaire
	rules       []Rule
	predictor   Predictor
	logger      *zap.Logger
	now         func() time.Time
	autoPredict bool

	mu         sync.Mutex
	sessionID  string
	record     *AnswerRecord
	answers    []RawAnswer
	transcript []TranscriptEntry
	index      int
	complete   bool
	submitted  bool
	phase      Phase
	prediction string
	predicted  bool
	guidance   string
	err        error
	startedAt  time.Time
	finishedAt time.Time
	done       chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithRules replaces the default encoding rules.
func WithRules(rules []Rule) Option {
	return func(c *Controller) { c.rules = rules }
}

// WithLogger sets the diagnostic logger prediction failures are written to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSessionID sets the session identifier instead of a random UUID.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithManualPrediction stops SubmitAnswer from starting the prediction on
// the last answer; the caller invokes RunPrediction itself.
func WithManualPrediction() Option {
	return func(c *Controller) { c.autoPredict = false }
}

// New creates a Controller for questions that submits to predictor.
func New(questions Questionnaire, predictor Predictor, opts ...Option) (*Controller, error) {
	if err := questions.Validate(); err != nil {
		return nil, err
	}
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}

	c := &Controller{
		questions:   questions,
		rules:       DefaultRules(false),
		predictor:   predictor,
		logger:      zap.NewNop(),
		now:         time.Now,
		autoPredict: true,
		record:      NewAnswerRecord(questions.Keys()),
		phase:       PhaseInterviewing,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessionID == "" {
		c.sessionID = uuid.New().String()
	}
	c.startedAt = c.now()
	return c, nil
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Questions returns the questionnaire being asked.
func (c *Controller) Questions() Questionnaire {
	return c.questions
}

// Current returns the active question, or false once all are answered.
func (c *Controller) Current() (QuestionSpec, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index >= len(c.questions) {
		return QuestionSpec{}, false
	}
	return c.questions[c.index], true
}

// Progress returns how many questions have been answered out of the total.
func (c *Controller) Progress() (answered, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index, len(c.questions)
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Done is closed once the prediction request has resolved, successfully
// or not, or has been abandoned through its context.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// SubmitAnswer encodes raw as the answer to the active question and
// advances the interview. Answering the last question marks the session
// complete and, unless WithManualPrediction was given, starts the
// prediction in the background using ctx.
func (c *Controller) SubmitAnswer(ctx context.Context, raw string) error {
	c.mu.Lock()
	if c.index >= len(c.questions) {
		c.mu.Unlock()
		return ErrInterviewComplete
	}
	if raw == "" {
		c.mu.Unlock()
		return ErrEmptyAnswer
	}

	q := c.questions[c.index]
	c.record.Set(q.Key, Encode(c.rules, q, raw))
	c.answers = append(c.answers, RawAnswer{Key: q.Key, Label: q.Label, Raw: raw})
	c.transcript = append(c.transcript,
		TranscriptEntry{Speaker: SpeakerBot, Text: q.Label},
		TranscriptEntry{Speaker: SpeakerUser, Text: raw},
	)
	c.index++

	last := c.index == len(c.questions)
	if last {
		c.complete = true
		c.phase = PhaseAwaitingPrediction
	}
	c.mu.Unlock()

	if last && c.autoPredict {
		go func() { _ = c.RunPrediction(ctx) }()
	}
	return nil
}

// RunPrediction submits the completed record to the predictor. It issues
// at most one request per session. Failures are written to the diagnostic
// logger once and leave the session stalled without a result; the error
// is also returned for callers that run the prediction themselves.
func (c *Controller) RunPrediction(ctx context.Context) error {
	c.mu.Lock()
	if !c.complete {
		c.mu.Unlock()
		return ErrNotComplete
	}
	if c.submitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.submitted = true

	c.record.SetDefault(KeyShortnessOfBreath, StringValue("1"))
	sub := Submission{
		SessionID: c.sessionID,
		Questions: c.questions,
		Record:    c.record.Clone(),
		Answers:   append([]RawAnswer(nil), c.answers...),
	}
	c.mu.Unlock()

	defer close(c.done)

	label, err := c.predictor.Predict(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			// Session torn down mid-flight; nothing left to update.
			c.logger.Debug("prediction abandoned",
				zap.String("session_id", c.sessionID), zap.Error(err))
			return ctx.Err()
		}
		c.phase = PhaseStalled
		c.err = err
		c.finishedAt = c.now()
		c.logger.Error("prediction request failed",
			zap.String("session_id", c.sessionID), zap.Error(err))
		return fmt.Errorf("prediction: %w", err)
	}

	c.prediction = label
	c.predicted = true
	c.guidance = GuidanceFor(label)
	c.transcript = append(c.transcript, TranscriptEntry{
		Speaker: SpeakerBot,
		Text:    "Prediction: " + label,
	})
	c.phase = PhaseComplete
	c.finishedAt = c.now()
	return nil
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:     c.sessionID,
		Phase:         c.phase,
		CurrentIndex:  c.index,
		Total:         len(c.questions),
		IsComplete:    c.complete,
		Prediction:    c.prediction,
		HasPrediction: c.predicted,
		Guidance:      c.guidance,
		Record:        c.record.Clone(),
		Answers:       append([]RawAnswer(nil), c.answers...),
		Transcript:    append([]TranscriptEntry(nil), c.transcript...),
		StartedAt:     c.startedAt,
		FinishedAt:    c.finishedAt,
	}
	if c.err != nil {
		s.ErrorMessage = c.err.Error()
	}
	return s
}
