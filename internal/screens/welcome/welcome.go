package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

// keyGuide lists the shortcuts a first-time learner needs.
var keyGuide = [][2]string{
	{"Tab", "切換概念與挑戰"},
	{"1-9", "在概念頁試試示範指令"},
	{"Alt+↑↓", "切換課程"},
	{"Ctrl+B", "收合課程列表"},
	{"Esc", "返回上一頁"},
}

type tickMsg time.Time

// WelcomeScreen introduces the app on first launch, then hands over to the
// screen produced by homeFactory.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		// The first key skips the intro; the next one moves on.
		if w.elapsed < totalDur {
			w.elapsed = totalDur
			return w, nil
		}
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{components.Banner(width)}

	if w.elapsed >= phase1End {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("歡迎！一起從零開始寫網頁吧。"))
	}

	if w.elapsed >= totalDur {
		var b strings.Builder
		for _, k := range keyGuide {
			b.WriteString(fmt.Sprintf("%s  %s\n",
				theme.Selected.Width(8).Render(k[0]), theme.Body.Render(k[1])))
		}
		sections = append(sections, "", strings.TrimRight(b.String(), "\n"), "",
			lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Italic(true).
				Render("按任意鍵繼續"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
