package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/interview"
	"github.com/abhisek/lungchat/internal/ui/components"
	"github.com/abhisek/lungchat/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nCannot start assessment: " + s.errMsg)
	}

	snap := s.ctrl.Snapshot()
	inner := max(width-4, 20)

	var lines []string
	for _, e := range snap.Transcript {
		lines = append(lines, components.Bubble(e.Speaker == interview.SpeakerUser, e.Text, inner))
	}

	bottom := s.renderBottom(snap, inner)
	avail := max(height-lipgloss.Height(bottom)-1, 1)
	transcript := components.Transcript(lines, inner, avail)

	return lipgloss.NewStyle().Padding(0, 2).Render(transcript + "\n" + bottom)
}

// renderBottom draws whatever sits below the transcript for the phase.
func (s *ChatScreen) renderBottom(snap interview.Snapshot, width int) string {
	switch snap.Phase {
	case interview.PhaseInterviewing:
		q, ok := s.current()
		if !ok {
			return ""
		}
		prompt := components.Bubble(false, q.Label, width)
		progress := components.ProgressBar{Done: snap.CurrentIndex, Total: snap.Total, Width: width}.View()
		if q.Kind == interview.KindChoice {
			return progress + "\n" + prompt + "\n" + s.sel.View()
		}
		return progress + "\n" + prompt + "\n\n  " + s.num.View()

	case interview.PhaseAwaitingPrediction:
		return theme.Hint.Render("  Waiting for prediction...")

	default:
		return renderResult(snap, width)
	}
}

// renderResult draws the result panel. A stalled session gets the same
// panel with an empty label and no guidance, and never the error.
func renderResult(snap interview.Snapshot, width int) string {
	style := theme.ResultPending
	switch {
	case snap.Phase != interview.PhaseComplete:
	case snap.Prediction == interview.PositiveLabel:
		style = theme.ResultPositive
	default:
		style = theme.ResultNegative
	}
	body := lipgloss.NewStyle().Bold(true).Render("Prediction: " + snap.Prediction)
	if snap.Guidance != "" {
		body += "\n\n" + snap.Guidance
	}
	return style.Width(min(width, 80)).Render(strings.TrimSpace(body))
}
