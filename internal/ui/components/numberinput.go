package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/ui/theme"
)

// NumberInput wraps bubbles/textinput and accepts digits only.
type NumberInput struct {
	Model textinput.Model
	Min   int
	err   string
}

// NewNumberInput creates a focused numeric input with a lower bound.
func NewNumberInput(placeholder string, min int) NumberInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 6
	ti.Focus()

	return NumberInput{Model: ti, Min: min}
}

// Init returns the cursor blink command.
func (n NumberInput) Init() tea.Cmd {
	return n.Model.Focus()
}

// Update drops any printable key that is not a digit.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return n, nil
		}
		n.err = ""
	}

	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

// Value returns the raw text.
func (n NumberInput) Value() string {
	return n.Model.Value()
}

// Validate checks the bound and remembers the message for View.
func (n *NumberInput) Validate() bool {
	v, err := strconv.Atoi(n.Model.Value())
	switch {
	case n.Model.Value() == "":
		n.err = "enter a number"
	case err != nil:
		n.err = "not a number"
	case v < n.Min:
		n.err = "must be at least " + strconv.Itoa(n.Min)
	default:
		n.err = ""
		return true
	}
	return false
}

// View renders the input with any validation message.
func (n NumberInput) View() string {
	view := n.Model.View()
	if n.err != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(n.err)
	}
	return view
}
