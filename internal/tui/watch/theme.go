// Package watch implements the rfd-discussd delivery watch TUI.
package watch

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the watch TUI.
// Even with a single default theme, this keeps all colors in one place
// and makes future theme support trivial.
type Theme struct {
	// Outcome colors
	OutcomeCreated lipgloss.Style
	OutcomeUpdated lipgloss.Style
	OutcomeNoop    lipgloss.Style
	OutcomeFailed  lipgloss.Style

	// UI elements
	Border    lipgloss.Style
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		OutcomeCreated: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		OutcomeUpdated: lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		OutcomeNoop:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		OutcomeFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
	}
}
