package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synapse/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that want esc delivered to them
// instead of popping the router, e.g. while a confirmation is open.
type EscapeHandler interface {
	HandlesEscape() bool
}

// StatusProvider supplies the right-hand side of the header.
type StatusProvider interface {
	Status() layout.Status
}

// TimerFiredMsg is delivered to the active screen after the app ran a
// deferred callback, so the screen can pick up the state change.
type TimerFiredMsg struct{}

// ThemeChangedMsg asks the app to re-resolve and apply the named theme.
type ThemeChangedMsg struct {
	Name string
}
