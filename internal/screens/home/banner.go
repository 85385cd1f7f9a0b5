package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lungchat/internal/ui/theme"
)

const bannerArt = `
 ██╗     ██╗   ██╗███╗   ██╗ ██████╗  ██████╗██╗  ██╗ █████╗ ████████╗
 ██║     ██║   ██║████╗  ██║██╔════╝ ██╔════╝██║  ██║██╔══██╗╚══██╔══╝
 ██║     ██║   ██║██╔██╗ ██║██║  ███╗██║     ███████║███████║   ██║
 ██║     ██║   ██║██║╚██╗██║██║   ██║██║     ██╔══██║██╔══██║   ██║
 ███████╗╚██████╔╝██║ ╚████║╚██████╔╝╚██████╗██║  ██║██║  ██║   ██║
 ╚══════╝ ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝`

const bannerCompact = "L U N G C H A T"

// renderBanner falls back to spaced letters below 72 columns.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 72 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
