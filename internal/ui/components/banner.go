package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/ui/theme"
)

const bannerArt = `┏━┓╻ ╻┏┓╻┏━┓┏━┓┏━┓┏━╸
┗━┓┗┳┛┃┗┫┣━┫┣━┛┗━┓┣╸
┗━┛ ╹ ╹ ╹╹ ╹╹  ┗━┛┗━╸`

const bannerCompact = "S Y N A P S E"

// Banner returns the app banner in the primary color, falling back to a
// single line below 30 columns.
func Banner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 30 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
