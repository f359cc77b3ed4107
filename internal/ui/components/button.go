package components

import (
	"github.com/abhisek/synapse/internal/ui/theme"
)

// Button is a styled, non-interactive label for the action bound to a key.
type Button struct {
	Label  string
	Active bool
}

func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	label := " " + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
