package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// CompactWidth is the width below which the lesson list folds away.
	CompactWidth = 100

	gaugeCells = 10
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the right-hand side of the header: where the learner is, how
// far they got and whether progress could not be saved.
type Status struct {
	Label string
	// Percent is drawn as a gauge when Gauge is set.
	Percent int
	Gauge   bool
	Warning string
}

func IsCompactWidth(width int) bool {
	return width < CompactWidth
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"終端機視窗太小\n\n請調整到至少 %d x %d\n\n目前：%d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws a one-line bar: app name and screen title on the
// left, the status on the right.
func RenderHeader(title string, status Status, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Synapse")
	if title != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ›  ") +
			lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}
	return bar(theme.Header, left, renderStatus(status), width)
}

func renderStatus(s Status) string {
	var parts []string
	if s.Warning != "" {
		parts = append(parts, theme.Incorrect.Render("⚠ "+s.Warning))
	}
	if s.Label != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(s.Label))
	}
	if s.Gauge {
		parts = append(parts, Gauge(s.Percent, gaugeCells))
	}
	return strings.Join(parts, "  ")
}

// Gauge renders percent as a row of cells followed by the number.
func Gauge(percent, cells int) string {
	percent = max(0, min(100, percent))
	filled := (percent*cells + 50) / 100
	return lipgloss.NewStyle().Foreground(theme.Success).Render(strings.Repeat("▰", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("▱", cells-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %3d%%", percent))
}

// RenderFooter lists key hints, dropping trailing ones that do not fit.
// The last hint is always kept since it is the way out.
func RenderFooter(hints []KeyHint, width int) string {
	rendered := make([]string, len(hints))
	for i, h := range hints {
		rendered[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}

	const sep = "   "
	avail := width - 4
	for len(rendered) > 1 && lipgloss.Width(strings.Join(rendered, sep)) > avail {
		rendered = append(rendered[:len(rendered)-2], rendered[len(rendered)-1])
	}
	return bar(theme.Footer, strings.Join(rendered, sep), "", width)
}

// bar lays left and right out on one line of style.
func bar(style lipgloss.Style, left, right string, width int) string {
	inner := width - 4
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return style.Width(width).MaxHeight(1).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFrame stacks header, content and footer, giving the content all
// rows the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
