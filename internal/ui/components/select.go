package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/ui/theme"
)

// Select is a single-choice selector over a fixed option list. There is no
// placeholder entry, so any confirmed choice is a real option.
type Select struct {
	Options   []string
	Selected  int
	Submitted bool
}

// NewSelect creates a selector with the first option highlighted.
func NewSelect(options []string) Select {
	return Select{Options: options}
}

// Update handles arrow navigation, digit shortcuts and enter.
func (s Select) Update(msg tea.Msg) (Select, tea.Cmd) {
	if s.Submitted || len(s.Options) == 0 {
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if s.Selected > 0 {
			s.Selected--
		}
	case "down", "j":
		if s.Selected < len(s.Options)-1 {
			s.Selected++
		}
	case "enter":
		s.Submitted = true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(s.Options) {
				s.Selected = i
				s.Submitted = true
			}
		}
	}
	return s, nil
}

// Value returns the confirmed option, or "" before enter.
func (s Select) Value() string {
	if !s.Submitted || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected]
}

// View renders the option list.
func (s Select) View() string {
	var b strings.Builder
	for i, opt := range s.Options {
		prefix := "  "
		if i == s.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)
		if i == s.Selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
