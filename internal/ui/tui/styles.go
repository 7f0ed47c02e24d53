package tui

import "github.com/charmbracelet/lipgloss"

var (
	brand   = lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#2dd4bf"}
	success = lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	failure = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	notice  = lipgloss.AdaptiveColor{Light: "#a16207", Dark: "#facc15"}
	muted   = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(brand)
	labelStyle = lipgloss.NewStyle().Foreground(muted).Width(8)
	okStyle    = lipgloss.NewStyle().Foreground(success)
	errStyle   = lipgloss.NewStyle().Foreground(failure)
	noteStyle  = lipgloss.NewStyle().Foreground(notice)
	mutedStyle = lipgloss.NewStyle().Foreground(muted)
	boldStyle  = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brand).
			Padding(0, 1)
)

const (
	glyphDone    = "✓"
	glyphFailed  = "✗"
	glyphWaiting = "·"
	glyphNote    = "!"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
