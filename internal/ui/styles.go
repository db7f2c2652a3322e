package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/planforge/planforge/internal/plan"
)

// Base text styles
var (
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleDim  = lipgloss.NewStyle().Foreground(ColorDim)
)

// Semantic styles
var (
	StyleHeader  = StyleBold.Foreground(ColorCyan)
	StyleSuccess = StyleBold.Foreground(ColorGreen)
	StyleWarning = StyleBold.Foreground(ColorYellow)
	StyleError   = StyleBold.Foreground(ColorRed)
)

// Per-status styles for plan rendering
var statusStyles = map[plan.Status]lipgloss.Style{
	plan.StatusPending:    StyleDim,
	plan.StatusWaiting:    lipgloss.NewStyle().Foreground(ColorYellow),
	plan.StatusInProgress: lipgloss.NewStyle().Foreground(ColorCyan),
	plan.StatusCompleted:  lipgloss.NewStyle().Foreground(ColorGreen),
	plan.StatusFailed:     lipgloss.NewStyle().Foreground(ColorRed),
	plan.StatusCancelled:  lipgloss.NewStyle().Foreground(ColorOrange),
}

// RenderStatus renders a status with its color.
func RenderStatus(s plan.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}
