package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/router"
	"github.com/abhisek/lungchat/internal/screen"
	"github.com/abhisek/lungchat/internal/screens/chat"
	"github.com/abhisek/lungchat/internal/screens/history"
	"github.com/abhisek/lungchat/internal/store"
	"github.com/abhisek/lungchat/internal/ui/components"
	"github.com/abhisek/lungchat/internal/ui/theme"
)

type statsLoadedMsg struct {
	Total int
	Last  *store.Assessment
}

// HomeScreen is the root menu.
type HomeScreen struct {
	deps  chat.Deps
	menu  components.Menu
	total int
	last  *store.Assessment
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates the home screen. History is offered only when deps carries
// an assessment repo.
func New(deps chat.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START ASSESSMENT", Hotkey: "s", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: chat.New(deps)} }
		}},
	}
	if deps.Assessments != nil {
		items = append(items, components.MenuItem{Label: "HISTORY", Hotkey: "h", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(deps.Assessments)} }
		}})
	}
	items = append(items, components.MenuItem{Label: "QUIT", Hotkey: "q", Action: func() tea.Cmd {
		return tea.Quit
	}})

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume reloads the counters after an assessment or history visit.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.deps.Assessments
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := repo.List(context.Background(), store.QueryOpts{})
		if err != nil || len(list) == 0 {
			return statsLoadedMsg{}
		}
		return statsLoadedMsg{Total: len(list), Last: &list[0]}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.total, h.last = m.Total, m.Last
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	sections := []string{
		renderBanner(width),
		theme.Subtitle.Render("Lung cancer risk screening, one question at a time"),
		h.renderStats(),
		h.menu.View(),
		theme.Hint.Render("This tool does not replace a medical diagnosis."),
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderStats() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if h.total == 0 {
		return dim.Render(fmt.Sprintf("%d questions · no assessments yet", len(h.deps.Questions)))
	}

	last := "no result"
	if h.last.HasPrediction {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if h.last.Prediction == interview.PositiveLabel {
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		last = style.Render(h.last.Prediction)
	}
	parts := []string{
		fmt.Sprintf("%d questions", len(h.deps.Questions)),
		fmt.Sprintf("%d assessments", h.total),
		"last: " + last + dim.Render(" on "+h.last.StartedAt.Local().Format("Jan 02")),
	}
	return dim.Render(strings.Join(parts, " · "))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
