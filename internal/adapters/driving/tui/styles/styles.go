// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header line.
	Title lipgloss.Style

	// Status style for the live status line.
	Status lipgloss.Style

	// Error style for failure notices.
	Error lipgloss.Style

	// Help style for the key hints footer.
	Help lipgloss.Style

	// Table style wraps the results table.
	Table lipgloss.Style
}

// New creates styles from the given theme.
func New(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		theme:  theme,
		Title:  lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Status: lipgloss.NewStyle().Foreground(theme.Success),
		Error:  lipgloss.NewStyle().Foreground(theme.Error),
		Help:   lipgloss.NewStyle().Foreground(theme.Muted),
		Table:  lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(theme.Border),
	}
}
