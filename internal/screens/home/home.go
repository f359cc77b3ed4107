package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/preferences"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
)

// Options wires the home screen. The constructors build the screens the
// menu pushes; a nil NewHistory hides the history entry.
type Options struct {
	Repo       *curriculum.Repository
	Controller *lesson.Controller
	Progress   *progress.Store
	Prefs      *preferences.Preferences
	Log        *logger.Logger

	NewLearn   func(unitKey string) screen.Screen
	NewQuiz    func() screen.Screen
	NewHistory func() screen.Screen
}

// HomeScreen is the main menu: one entry per unit with its progress, the
// quiz, history, theme switching and quit.
type HomeScreen struct {
	ctx  context.Context
	opts Options
	log  *logger.Logger

	menu      components.Menu
	units     []curriculum.Unit
	percents  map[string]int
	themeName string

	// resetKey is the unit awaiting reset confirmation.
	resetKey string
	notice   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)

func New(opts Options) *HomeScreen {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	h := &HomeScreen{
		ctx:      context.Background(),
		opts:     opts,
		log:      log.With("component", "home"),
		units:    opts.Repo.Units(),
		percents: make(map[string]int),
	}
	h.themeName = preferences.ThemeSystem
	if opts.Prefs != nil {
		h.themeName = opts.Prefs.Theme(h.ctx)
	}
	h.refresh()
	return h
}

// Init reloads unit progress; the router calls it again when a pushed
// screen is popped.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) HandlesEscape() bool {
	return h.resetKey != ""
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.resetKey != "" {
		return []layout.KeyHint{
			{Key: "Y", Description: "確定重設"},
			{Key: "N", Description: "取消"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "選擇"},
		{Key: "Enter", Description: "開始"},
	}
	if h.selectedUnit() != "" {
		hints = append(hints, layout.KeyHint{Key: "X", Description: "重設進度"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "離開"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return h, nil
	}

	if h.resetKey != "" {
		switch kmsg.String() {
		case "y", "Y":
			h.confirmReset()
		case "n", "N", "esc":
			h.resetKey = ""
		}
		return h, nil
	}

	switch kmsg.String() {
	case "q":
		return h, tea.Quit
	case "x", "X":
		if key := h.selectedUnit(); key != "" {
			h.resetKey = key
			h.notice = ""
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) confirmReset() {
	key := h.resetKey
	h.resetKey = ""
	if err := h.opts.Controller.ResetUnit(h.ctx, key); err != nil {
		h.log.Warn("reset unit", "unit", key, "error", err)
		h.notice = "重設失敗：" + err.Error()
		return
	}
	h.notice = fmt.Sprintf("已重設「%s」的進度", key)
	h.refresh()
}

func (h *HomeScreen) cycleTheme() tea.Cmd {
	next := preferences.NextTheme(h.themeName)
	if h.opts.Prefs != nil {
		if err := h.opts.Prefs.SetTheme(h.ctx, next); err != nil {
			h.log.Warn("save theme", "error", err)
		}
	}
	h.themeName = next
	h.refresh()
	return func() tea.Msg { return screen.ThemeChangedMsg{Name: next} }
}

// refresh rebuilds the menu from stored progress, keeping the selection.
func (h *HomeScreen) refresh() {
	for _, u := range h.units {
		done := h.opts.Progress.Load(h.ctx, u.Key).Within(len(u.Lessons))
		h.percents[u.Key] = lesson.Percent(done.Len(), len(u.Lessons))
	}

	items := make([]components.MenuItem, 0, len(h.units)+4)
	for _, u := range h.units {
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%s  %s", u.Key, u.Title),
			Detail: components.NewProgressBar("", h.percents[u.Key], 40).View(),
			Action: h.push(func() screen.Screen { return h.opts.NewLearn(u.Key) }),
		})
	}
	items = append(items, components.MenuItem{
		Label:    "綜合測驗",
		Action:   h.push(h.opts.NewQuiz),
		Disabled: h.opts.NewQuiz == nil,
	})
	if h.opts.NewHistory != nil {
		items = append(items, components.MenuItem{Label: "學習紀錄", Action: h.push(h.opts.NewHistory)})
	}
	items = append(items,
		components.MenuItem{Label: "主題：" + themeLabel(h.themeName), Action: h.cycleTheme},
		components.MenuItem{Label: "離開", Action: func() tea.Cmd { return tea.Quit }},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		if build == nil {
			return nil
		}
		s := build()
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

// selectedUnit returns the key of the highlighted unit entry, or "".
func (h *HomeScreen) selectedUnit() string {
	if h.menu.Selected < len(h.units) {
		return h.units[h.menu.Selected].Key
	}
	return ""
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).Align(lipgloss.Center).
		Render(components.Banner(cw)))
	sections = append(sections, theme.Subtitle.Width(cw).Render("一步一步學會 HTML 與 CSS"))

	if h.resetKey != "" {
		msg := fmt.Sprintf("確定要清除「%s」的所有進度嗎？這個動作無法復原。\n\n[Y] 確定   [N] 取消", h.resetKey)
		sections = append(sections, components.Card(theme.Incorrect.Render(msg), cw))
	} else {
		sections = append(sections, components.Card(h.menu.View(), cw))
	}
	if h.notice != "" {
		sections = append(sections, theme.Hint.Render(h.notice))
	}

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func themeLabel(name string) string {
	switch name {
	case preferences.ThemeDark:
		return "深色"
	case preferences.ThemeLight:
		return "淺色"
	default:
		return "跟隨終端機"
	}
}
