package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/ui/theme"
)

// MultiChoice renders the options of a multiple-choice question. While
// answering, the cursor moves with the arrow keys and enter or a number
// key picks an option. In reveal mode the correct option and a wrong pick
// are highlighted and input is ignored.
type MultiChoice struct {
	Options      []string
	Cursor       int
	Chosen       int
	CorrectIndex int
	Reveal       bool
}

// NewMultiChoice creates a selector. chosen is -1 when nothing is picked.
func NewMultiChoice(options []string, chosen int) MultiChoice {
	cursor := chosen
	if cursor < 0 {
		cursor = 0
	}
	return MultiChoice{Options: options, Cursor: cursor, Chosen: chosen, CorrectIndex: -1}
}

// Update handles navigation. picked reports that an option was chosen on
// this message; its index is in Chosen.
func (m MultiChoice) Update(msg tea.Msg) (mc MultiChoice, picked bool) {
	if m.Reveal {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, false
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		m.Chosen = m.Cursor
		return m, true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.Options) {
				m.Cursor, m.Chosen = i, i
				return m, true
			}
		}
	}
	return m, false
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Reveal && i == m.CorrectIndex:
			style = theme.Correct
		case m.Reveal && i == m.Chosen:
			style = theme.Incorrect
		case m.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
