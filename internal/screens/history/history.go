package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/router"
	"github.com/abhisek/lungchat/internal/screen"
	"github.com/abhisek/lungchat/internal/store"
	"github.com/abhisek/lungchat/internal/ui/layout"
	"github.com/abhisek/lungchat/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Assessments []store.Assessment
	Err         error
}

// HistoryScreen lists past assessments, newest first.
type HistoryScreen struct {
	repo     store.AssessmentRepo
	list     []store.Assessment
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen backed by repo.
func New(repo store.AssessmentRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		list, err := repo.List(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Assessments: list, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

// HandlesEscape reports that Esc is handled by Update.
func (s *HistoryScreen) HandlesEscape() bool {
	return true
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.list = msg.Assessments
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.list)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.list) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, a := range s.list {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%s#%-4d %s  %-10s  %-4s  via %s",
			prefix, a.ID, a.StartedAt.Local().Format("Jan 02, 2006 15:04"),
			a.Phase, resultLabel(a), a.Predictor)
		b.WriteString("  " + style.Render(line) + "  " + phaseDot(a))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetails(a, width))
		}
	}
	return b.String()
}

func resultLabel(a store.Assessment) string {
	if !a.HasPrediction {
		return "-"
	}
	return a.Prediction
}

func phaseDot(a store.Assessment) string {
	var c color.Color = theme.TextDim
	switch {
	case a.HasPrediction && a.Prediction == interview.PositiveLabel:
		c = theme.Accent
	case a.HasPrediction:
		c = theme.Success
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

// renderDetails lists the encoded answers two per row.
func renderDetails(a store.Assessment, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	fields, err := a.Fields()
	if err != nil {
		return "      " + dim.Render("answers unreadable: "+err.Error()) + "\n"
	}

	col := max((width-8)/2, 20)
	var b strings.Builder
	for i, f := range fields {
		cell := fmt.Sprintf("%s = %s", f.Key, string(f.Value))
		if i%2 == 0 {
			b.WriteString("      " + lipgloss.NewStyle().Width(col).Render(dim.Render(cell)))
		} else {
			b.WriteString(dim.Render(cell) + "\n")
		}
	}
	if len(fields)%2 == 1 {
		b.WriteString("\n")
	}
	return b.String()
}
