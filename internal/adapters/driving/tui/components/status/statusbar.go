// Package status provides the dashboard status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docsync/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateIdle        State = "idle"
	StateWatching    State = "watching"
	StateReconciling State = "reconciling"
	StateError       State = "error"
)

// Bar displays the watcher state, tenant, pending counts and
// keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	tenant  string
	pending int
	width   int
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
		styles:  s,
		keymap:  km,
		state:   StateIdle,
		message: "",
		tenant:  "",
		pending: 0,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the watcher state and tenant.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateReconciling:
		return s.styles.Muted.Render("Reconciling...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateWatching:
		left := s.styles.Success.Render("● watching")
		if s.tenant != "" {
			left += s.styles.Normal.Render("  " + s.tenant)
		}
		if s.pending > 0 {
			left += s.styles.Warning.Render(fmt.Sprintf("  %d pending", s.pending))
		}
		return left
	case StateIdle:
		left := s.styles.Muted.Render("○ idle")
		if s.tenant != "" {
			left += s.styles.Normal.Render("  " + s.tenant)
		}
		return left
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetTenant sets the tenant label.
func (s *Bar) SetTenant(tenant string) {
	s.tenant = tenant
}

// Tenant returns the tenant label.
func (s *Bar) Tenant() string {
	return s.tenant
}

// SetPending sets the pending change count.
func (s *Bar) SetPending(pending int) {
	s.pending = pending
}

// Pending returns the pending change count.
func (s *Bar) Pending() int {
	return s.pending
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateIdle
	s.message = ""
	s.pending = 0
}
