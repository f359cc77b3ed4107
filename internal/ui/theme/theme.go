// Package theme holds the colour palette and shared lipgloss styles. The
// styles are package-level and rebuilt by Apply when the theme changes.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a full set of UI colours.
type Palette struct {
	Name      string
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	Dark = Palette{
		Name:      "dark",
		Primary:   lipgloss.Color("#8AB4F8"),
		Secondary: lipgloss.Color("#34A853"),
		Accent:    lipgloss.Color("#FBBC05"),
		Success:   lipgloss.Color("#81C995"),
		Error:     lipgloss.Color("#F28B82"),
		Text:      lipgloss.Color("#E8EAED"),
		TextDim:   lipgloss.Color("#9AA0A6"),
		BgDark:    lipgloss.Color("#1E1F20"),
		BgCard:    lipgloss.Color("#282A2C"),
		Border:    lipgloss.Color("#5F6368"),
	}

	Light = Palette{
		Name:      "light",
		Primary:   lipgloss.Color("#1A73E8"),
		Secondary: lipgloss.Color("#188038"),
		Accent:    lipgloss.Color("#E37400"),
		Success:   lipgloss.Color("#137333"),
		Error:     lipgloss.Color("#C5221F"),
		Text:      lipgloss.Color("#202124"),
		TextDim:   lipgloss.Color("#5F6368"),
		BgDark:    lipgloss.Color("#FFFFFF"),
		BgCard:    lipgloss.Color("#F1F3F4"),
		Border:    lipgloss.Color("#DADCE0"),
	}
)

// Colours of the active palette.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Header lipgloss.Style
	Footer lipgloss.Style
	Card   lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
	Locked     lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
)

var active Palette

func init() {
	Apply(Dark)
}

// Active returns the palette currently applied.
func Active() Palette { return active }

// Resolve picks the palette for a stored theme name. "system" and unknown
// names follow the terminal background.
func Resolve(name string, darkBackground bool) Palette {
	switch name {
	case "dark":
		return Dark
	case "light":
		return Light
	}
	if darkBackground {
		return Dark
	}
	return Light
}

// Apply makes p the active palette and rebuilds every shared style.
func Apply(p Palette) {
	active = p

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	BgDark, BgCard, Border = p.BgDark, p.BgCard, p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Locked = lipgloss.NewStyle().
		Foreground(Border)

	ProgressFilled = lipgloss.NewStyle().
		Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(BgDark).
		Bold(true).
		Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
}
