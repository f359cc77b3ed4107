package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/preferences"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/screens/history"
	"github.com/abhisek/synapse/internal/screens/home"
	"github.com/abhisek/synapse/internal/screens/learn"
	quizscreen "github.com/abhisek/synapse/internal/screens/quiz"
	"github.com/abhisek/synapse/internal/screens/welcome"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/abhisek/synapse/internal/tutor"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
)

// Options carries the engine the TUI drives. Queue must be the scheduler
// the controller was built with so its callbacks run on the event loop.
type Options struct {
	Repo       *curriculum.Repository
	Controller *lesson.Controller
	Progress   *progress.Store
	Prefs      *preferences.Preferences
	Events     store.EventRepo
	Tutor      *tutor.Service
	Queue      *timer.Queue
	Log        *logger.Logger
}

// deferredMsg runs a queued callback on the event loop.
type deferredMsg struct {
	fn func()
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	queue  *timer.Queue
	log    *logger.Logger

	themeName string
	dark      bool

	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Queue == nil {
		opts.Queue = &timer.Queue{}
	}

	newQuiz := func() screen.Screen {
		return quizscreen.New(quizscreen.Options{
			Bank:   opts.Repo.QuizBank(),
			Events: opts.Events,
			Tutor:  opts.Tutor,
			Log:    log,
		})
	}
	newLearn := func(unitKey string) screen.Screen {
		return learn.New(unitKey, learn.Options{
			Controller: opts.Controller,
			Repo:       opts.Repo,
			Scheduler:  opts.Queue,
			NewQuiz:    newQuiz,
		})
	}
	var newHistory func() screen.Screen
	if opts.Events != nil {
		newHistory = func() screen.Screen { return history.New(opts.Events) }
	}

	homeScreen := home.New(home.Options{
		Repo:       opts.Repo,
		Controller: opts.Controller,
		Progress:   opts.Progress,
		Prefs:      opts.Prefs,
		Log:        log,
		NewLearn:   newLearn,
		NewQuiz:    newQuiz,
		NewHistory: newHistory,
	})

	// A learner without any stored progress gets the intro first.
	var first screen.Screen = homeScreen
	if stored, err := opts.Progress.StoredUnits(context.Background()); err == nil && len(stored) == 0 {
		first = welcome.New(func() screen.Screen { return homeScreen })
	}

	m := AppModel{
		router:    router.New(first),
		queue:     opts.Queue,
		log:       log,
		themeName: preferences.ThemeSystem,
		dark:      true,
	}
	if opts.Prefs != nil {
		m.themeName = opts.Prefs.Theme(context.Background())
	}
	m.applyTheme()
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(tea.RequestBackgroundColor, m.router.Active().Init())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.BackgroundColorMsg:
		m.dark = msg.IsDark()
		m.applyTheme()
		return m, nil

	case screen.ThemeChangedMsg:
		m.themeName = msg.Name
		m.applyTheme()
		return m, nil

	case deferredMsg:
		msg.fn()
		cmd = m.router.Update(screen.TimerFiredMsg{})

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				cmd = m.router.Update(msg)
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		default:
			cmd = m.router.Update(msg)
		}

	default:
		cmd = m.router.Update(msg)
	}

	return m, tea.Batch(cmd, m.drainTimers())
}

// drainTimers turns callbacks queued during this update into ticks.
func (m AppModel) drainTimers() tea.Cmd {
	pending := m.queue.Drain()
	if len(pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(pending))
	for i, d := range pending {
		fn := d.Fn
		cmds[i] = tea.Tick(d.Delay, func(time.Time) tea.Msg { return deferredMsg{fn: fn} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) applyTheme() {
	p := theme.Resolve(m.themeName, m.dark)
	theme.Apply(p)
	m.log.Debug("theme applied", "preference", m.themeName, "palette", p.Name)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer as one frame.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", layout.Status{}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "返回"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "結束"})
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
