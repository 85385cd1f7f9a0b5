package chat

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/metrics"
	"github.com/abhisek/lungchat/internal/router"
	"github.com/abhisek/lungchat/internal/screen"
	"github.com/abhisek/lungchat/internal/store"
	"github.com/abhisek/lungchat/internal/ui/components"
	"github.com/abhisek/lungchat/internal/ui/layout"
)

// Deps are the collaborators a chat session needs. Assessments and
// Metrics may be nil.
type Deps struct {
	Questions     interview.Questionnaire
	Predictor     interview.Predictor
	PredictorName string
	Rules         []interview.Rule
	Assessments   store.AssessmentRepo
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

// ChatScreen runs one interview as a chat conversation.
type ChatScreen struct {
	deps   Deps
	ctrl   *interview.Controller
	ctx    context.Context
	cancel context.CancelFunc

	sel components.Select
	num components.NumberInput

	finished bool
	savedID  int64
	errMsg   string
}

var (
	_ screen.Screen           = (*ChatScreen)(nil)
	_ screen.KeyHintProvider  = (*ChatScreen)(nil)
	_ screen.ProgressProvider = (*ChatScreen)(nil)
	_ screen.EscapeHandler    = (*ChatScreen)(nil)
)

// New starts a fresh interview session.
func New(deps Deps) *ChatScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &ChatScreen{deps: deps, ctx: ctx, cancel: cancel}

	opts := []interview.Option{interview.WithLogger(deps.Logger)}
	if deps.Rules != nil {
		opts = append(opts, interview.WithRules(deps.Rules))
	}
	ctrl, err := interview.New(deps.Questions, deps.Predictor, opts...)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.ctrl = ctrl
	s.prepareInput()
	return s
}

func (s *ChatScreen) Init() tea.Cmd {
	if q, ok := s.current(); ok && q.Kind == interview.KindNumber {
		return s.num.Init()
	}
	return nil
}

func (s *ChatScreen) Title() string {
	return "Assessment"
}

func (s *ChatScreen) HandlesEscape() bool {
	return true
}

func (s *ChatScreen) Progress() layout.Progress {
	if s.ctrl == nil {
		return layout.Progress{}
	}
	answered, total := s.ctrl.Progress()
	return layout.Progress{Answered: answered, Total: total}
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.ctrl == nil || s.ctrl.Phase().Terminal() {
		return []layout.KeyHint{
			{Key: "N", Description: "New assessment"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if q, ok := s.current(); ok && q.Kind == interview.KindChoice {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-9", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
	return []layout.KeyHint{
		{Key: "0-9", Description: "Type"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionDoneMsg:
		return s, s.finish()

	case savedMsg:
		if msg.Err != nil {
			s.deps.Logger.Error("save assessment", zap.Error(msg.Err))
		} else {
			s.savedID = msg.ID
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if q, ok := s.current(); ok && q.Kind == interview.KindNumber {
		var cmd tea.Cmd
		s.num, cmd = s.num.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		// Abandoning mid-flight drops the prediction without a state change.
		s.cancel()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.ctrl == nil {
		return s, nil
	}
	if s.ctrl.Phase().Terminal() {
		if key == "n" || key == "N" {
			s.cancel()
			next := New(s.deps)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
		return s, nil
	}

	q, ok := s.current()
	if !ok {
		return s, nil
	}

	switch q.Kind {
	case interview.KindChoice:
		s.sel, _ = s.sel.Update(msg)
		if s.sel.Submitted {
			return s.submit(s.sel.Value())
		}
		return s, nil
	default:
		if key == "enter" {
			if !s.num.Validate() {
				return s, nil
			}
			return s.submit(s.num.Value())
		}
		var cmd tea.Cmd
		s.num, cmd = s.num.Update(msg)
		return s, cmd
	}
}

func (s *ChatScreen) submit(raw string) (screen.Screen, tea.Cmd) {
	if err := s.ctrl.SubmitAnswer(s.ctx, raw); err != nil {
		if !errors.Is(err, interview.ErrEmptyAnswer) {
			s.deps.Logger.Warn("submit answer", zap.Error(err))
		}
		s.prepareInput()
		return s, nil
	}

	if s.ctrl.Phase() == interview.PhaseAwaitingPrediction {
		done := s.ctrl.Done()
		return s, func() tea.Msg {
			<-done
			return predictionDoneMsg{}
		}
	}
	s.prepareInput()
	return s, s.Init()
}

// finish records a session that reached a terminal phase. Abandoned
// sessions close Done too but stay in awaiting-prediction and are skipped.
func (s *ChatScreen) finish() tea.Cmd {
	snap := s.ctrl.Snapshot()
	if !snap.Phase.Terminal() || s.finished {
		return nil
	}
	s.finished = true

	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveAssessment(snap.Phase)
	}
	repo := s.deps.Assessments
	if repo == nil {
		return nil
	}
	name := s.deps.PredictorName
	return func() tea.Msg {
		a, err := store.NewAssessment(snap, name)
		if err != nil {
			return savedMsg{Err: err}
		}
		if err := repo.Save(context.Background(), a); err != nil {
			return savedMsg{Err: err}
		}
		return savedMsg{ID: a.ID}
	}
}

func (s *ChatScreen) current() (interview.QuestionSpec, bool) {
	if s.ctrl == nil {
		return interview.QuestionSpec{}, false
	}
	return s.ctrl.Current()
}

func (s *ChatScreen) prepareInput() {
	q, ok := s.current()
	if !ok {
		return
	}
	switch q.Kind {
	case interview.KindChoice:
		s.sel = components.NewSelect(q.Options)
	default:
		s.num = components.NewNumberInput("Type a number", q.MinValue())
	}
}
