package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/quiz"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
)

const pageSize = 50

// Source is the slice of store.EventRepo the screen reads.
type Source interface {
	QueryActivity(ctx context.Context, opts store.QueryOpts) ([]store.ActivityEvent, error)
}

type historyLoadedMsg struct {
	Events []store.ActivityEvent
	Err    error
}

// HistoryScreen lists recent lesson passes and quiz results.
type HistoryScreen struct {
	source   Source
	events   []store.ActivityEvent
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(source Source) *HistoryScreen {
	return &HistoryScreen{source: source}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := s.source.QueryActivity(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "捲動"},
		{Key: "Esc", Description: "返回"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n錯誤：%s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  讀取中…")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  還沒有紀錄，去完成第一課吧！")
	}

	// Keep the selection on screen.
	rows := max(height-2, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.events))

	var b strings.Builder
	b.WriteString("\n")
	for i := start; i < end; i++ {
		ev := s.events[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %s", prefix, ev.Timestamp.Local().Format("2006-01-02 15:04"), describe(ev))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func describe(ev store.ActivityEvent) string {
	switch ev.Kind {
	case store.ActivityLessonPass:
		s := fmt.Sprintf("%s 第 %d 課 通過", ev.UnitKey, ev.LessonIndex+1)
		if ev.Forced {
			s += "（開發者略過）"
		}
		return s
	case store.ActivityQuizResult:
		return fmt.Sprintf("綜合測驗 %d/%d（%d%%）%s",
			ev.Score, ev.Total, ev.Percent, quiz.BandFor(ev.Percent).Title())
	default:
		return ev.Kind
	}
}
