// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent highlights titles and the selected row.
	Accent lipgloss.Color

	// Info marks work in progress.
	Info lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks loaded resources.
	Success lipgloss.Color

	// Warning marks resources that have not started.
	Warning lipgloss.Color

	// Error marks failed resources.
	Error lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#7C3AED"), // Purple
		Info:       lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Bar:        lipgloss.Color("#181825"), // Near black
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style

	// StatusBar renders the bottom line.
	StatusBar lipgloss.Style

	// states colour load states.
	states map[domain.LoadState]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(theme.Info),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Accent),
		Error: lipgloss.NewStyle().Foreground(theme.Error),
		Help:  lipgloss.NewStyle().Foreground(theme.Muted),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		states: map[domain.LoadState]lipgloss.Style{
			domain.NotLoaded:    lipgloss.NewStyle().Foreground(theme.Warning),
			domain.Loading:      lipgloss.NewStyle().Foreground(theme.Info),
			domain.LoadComplete: lipgloss.NewStyle().Foreground(theme.Success),
			domain.LoadFailed:   lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
		},
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// State returns the style for a load state.
func (s *Styles) State(state domain.LoadState) lipgloss.Style {
	if st, ok := s.states[state]; ok {
		return st
	}
	return s.Normal
}
