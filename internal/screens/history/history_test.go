package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lungchat/internal/router"
	"github.com/abhisek/lungchat/internal/store"
)

type mockRepo struct {
	list []store.Assessment
	err  error
	opts store.QueryOpts
}

func (m *mockRepo) Save(context.Context, *store.Assessment) error           { return nil }
func (m *mockRepo) Get(context.Context, int64) (*store.Assessment, error) { return nil, nil }
func (m *mockRepo) List(_ context.Context, opts store.QueryOpts) ([]store.Assessment, error) {
	m.opts = opts
	return m.list, m.err
}
func (m *mockRepo) DeleteAll(context.Context) (int64, error) { return 0, nil }

func loaded(t *testing.T, repo *mockRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_ListsAssessments(t *testing.T) {
	repo := &mockRepo{list: []store.Assessment{
		{ID: 2, Phase: "complete", Predictor: "http", HasPrediction: true, Prediction: "YES", StartedAt: time.Now(),
			Answers: json.RawMessage(`{"GENDER":1,"AGE":61,"SMOKING":"2"}`)},
		{ID: 1, Phase: "stalled", Predictor: "http", StartedAt: time.Now().Add(-time.Hour)},
	}}
	s := loaded(t, repo)

	if repo.opts.Limit != pageSize {
		t.Errorf("limit = %d, want %d", repo.opts.Limit, pageSize)
	}
	view := s.View(100, 30)
	for _, want := range []string{"#2", "YES", "#1", "stalled"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "AGE = 61") {
		t.Error("details should be collapsed initially")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "AGE = 61") {
		t.Error("enter should expand the selected row")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := loaded(t, &mockRepo{list: make([]store.Assessment, 3)})

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop")
	}
}

func TestHistoryScreen_EmptyAndError(t *testing.T) {
	if v := loaded(t, &mockRepo{}).View(80, 24); !strings.Contains(v, "No assessments yet") {
		t.Errorf("empty view = %q", v)
	}
	if v := loaded(t, &mockRepo{err: errors.New("disk gone")}).View(80, 24); !strings.Contains(v, "disk gone") {
		t.Errorf("error view = %q", v)
	}
}
