package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/ui/theme"
)

// Bubble renders one transcript line. Bot lines sit on the left, user lines
// on the right; both wrap at roughly two thirds of width.
func Bubble(fromUser bool, text string, width int) string {
	wrap := max(width*2/3, 10)
	if lipgloss.Width(text) > wrap {
		text = lipgloss.NewStyle().Width(wrap).Render(text)
	}
	if fromUser {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, theme.UserBubble.Render(text))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, theme.BotBubble.Render(text))
}

// Transcript renders bubbles bottom-aligned to height, dropping the oldest
// lines that do not fit.
func Transcript(lines []string, width, height int) string {
	var rendered []string
	used := 0
	for i := len(lines) - 1; i >= 0; i-- {
		h := lipgloss.Height(lines[i])
		if used+h > height && len(rendered) > 0 {
			break
		}
		rendered = append([]string{lines[i]}, rendered...)
		used += h
	}
	if pad := height - used; pad > 0 {
		rendered = append([]string{strings.Repeat("\n", pad-1)}, rendered...)
	}
	return strings.Join(rendered, "\n")
}
