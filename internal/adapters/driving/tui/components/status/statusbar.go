// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sceneload/internal/adapters/driving/report"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sceneload/internal/adapters/driving/tui/styles"
)

// State represents the loader phase shown on the left of the bar.
type State string

const (
	StateWorld     State = "world"
	StateResources State = "resources"
	StateSettled   State = "settled"
	StateError     State = "error"
)

// Bar displays load progress and keybinding hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	summary    report.Summary
	inProgress int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateWorld,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// The bar style pads one cell on each side.
	padding := s.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateWorld:
		return s.styles.Muted.Render("Loading world...")
	case StateResources:
		return s.styles.Normal.Render(fmt.Sprintf("%d of %d loaded, %d in progress",
			s.summary.Loaded, s.summary.Total, s.inProgress))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateSettled:
		text := fmt.Sprintf("%d of %d loaded", s.summary.Loaded, s.summary.Total)
		if s.summary.Failed > 0 {
			return s.styles.Error.Render(fmt.Sprintf("%s, %d failed", text, s.summary.Failed))
		}
		return s.styles.Normal.Render(text)
	}
	return ""
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, hint(b))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func hint(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetProgress records the latest row summary and outstanding request count.
func (s *Bar) SetProgress(summary report.Summary, inProgress int) {
	s.summary = summary
	s.inProgress = inProgress
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
