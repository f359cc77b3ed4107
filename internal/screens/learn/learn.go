// Package learn is the lesson screen: lesson list, insight and challenge
// tabs, the live-validated editor and the playground preview.
package learn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/abhisek/synapse/internal/ui/layout"
)

// CollapseLock is how long the lesson list ignores further collapse
// toggles after one.
const CollapseLock = 400 * time.Millisecond

type tab int

const (
	tabInsight tab = iota
	tabChallenge
)

// Options wires the screen to the engine.
type Options struct {
	Controller *lesson.Controller
	Repo       *curriculum.Repository
	// Scheduler runs the collapse lock; normally the app's timer queue.
	Scheduler timer.Scheduler
	// NewQuiz builds the quiz screen offered when a unit is finished. Nil
	// hides the offer.
	NewQuiz func() screen.Screen
}

// LearnScreen implements screen.Screen for one unit.
type LearnScreen struct {
	ctx     context.Context
	unitKey string
	opts    Options

	editor   textarea.Model
	play     *lesson.Playground
	tab      tab
	cmdIndex int

	collapsed bool
	collapse  timer.Guard

	lessonIndex int
	result      challenge.Result
	evaluated   bool
	errMsg      string
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.StatusProvider = (*LearnScreen)(nil)

// New creates a LearnScreen for unitKey. The unit is selected in Init.
func New(unitKey string, opts Options) *LearnScreen {
	ed := textarea.New()
	ed.ShowLineNumbers = false
	ed.CharLimit = artifact.MaxInputBytes
	ed.SetHeight(6)

	return &LearnScreen{
		ctx:         context.Background(),
		unitKey:     unitKey,
		opts:        opts,
		editor:      ed,
		lessonIndex: -1,
	}
}

func (s *LearnScreen) Init() tea.Cmd {
	ctrl := s.opts.Controller
	if err := ctrl.SelectUnit(s.ctx, s.unitKey); err != nil {
		if errors.Is(err, curriculum.ErrNotFound) {
			s.errMsg = fmt.Sprintf("找不到單元 %q", s.unitKey)
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.play = lesson.NewPlayground(ctrl.View().Artifact, s.opts.Repo.GroupOrder(s.unitKey))
	s.sync()
	return nil
}

// Leave releases the unit when the screen is popped.
func (s *LearnScreen) Leave() {
	s.opts.Controller.Leave()
}

func (s *LearnScreen) Title() string {
	return "Learn"
}

func (s *LearnScreen) Status() layout.Status {
	v := s.opts.Controller.View()
	if !v.HasUnit {
		return layout.Status{}
	}
	st := layout.Status{Label: v.UnitKey, Percent: v.Percent, Gauge: true}
	if v.StorageWarning {
		st.Warning = "進度未儲存"
	}
	return st
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	v := s.opts.Controller.View()
	if v.Finished {
		hints := []layout.KeyHint{{Key: "Enter", Description: "回到首頁"}}
		if s.opts.NewQuiz != nil {
			hints = append(hints, layout.KeyHint{Key: "T", Description: "進行測驗"})
		}
		return hints
	}

	hints := []layout.KeyHint{
		{Key: "Tab", Description: "概念/挑戰"},
		{Key: "Alt+↑↓", Description: "切換課程"},
		{Key: "Ctrl+B", Description: "收合列表"},
	}
	switch {
	case s.tab == tabInsight:
		hints = append(hints, layout.KeyHint{Key: "1-9", Description: "試試指令"})
	case v.ReadOnly:
		hints = append(hints, layout.KeyHint{Key: "N", Description: "下一課"})
	}
	if s.opts.Controller.Debug() {
		hints = append(hints, layout.KeyHint{Key: "Alt+`", Description: "略過"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "返回"})
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, nil
	}

	switch msg := msg.(type) {
	case screen.TimerFiredMsg:
		return s, s.sync()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.editor.Focused() {
		return s, s.updateEditor(msg)
	}
	return s, nil
}

func (s *LearnScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	ctrl := s.opts.Controller
	v := ctrl.View()

	if v.Finished {
		switch msg.String() {
		case "enter":
			return s, router.Pop
		case "t", "T":
			if s.opts.NewQuiz != nil {
				quiz := s.opts.NewQuiz()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: quiz} }
			}
		}
		return s, nil
	}

	switch msg.String() {
	case "tab", "alt+q":
		if s.tab == tabInsight {
			s.tab = tabChallenge
		} else {
			s.tab = tabInsight
		}
		return s, s.focus()
	case "alt+`":
		if err := ctrl.ForcePass(s.ctx); err == nil {
			s.result, s.evaluated = challenge.Result{Outcome: challenge.Pass}, true
		}
		return s, s.sync()
	case "ctrl+b":
		if s.collapse.Start(s.opts.Scheduler, CollapseLock, func() {}) {
			s.collapsed = !s.collapsed
		}
		return s, nil
	case "alt+up":
		ctrl.SelectLesson(v.LessonIndex - 1)
		return s, s.sync()
	case "alt+down":
		ctrl.SelectLesson(v.LessonIndex + 1)
		return s, s.sync()
	}

	if s.tab == tabInsight {
		return s, s.handleInsightKey(msg)
	}

	if v.ReadOnly {
		switch msg.String() {
		case "n", "N", "enter":
			if v.IsLastLesson {
				return s, router.Pop
			}
			ctrl.SelectLesson(v.LessonIndex + 1)
			return s, s.sync()
		}
		return s, nil
	}

	return s, s.updateEditor(msg)
}

// updateEditor forwards msg to the editor and validates only when the
// submission text changed.
func (s *LearnScreen) updateEditor(msg tea.Msg) tea.Cmd {
	before := s.editor.Value()
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	if s.editor.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, s.validate())
}

func (s *LearnScreen) handleInsightKey(msg tea.KeyPressMsg) tea.Cmd {
	ctrl := s.opts.Controller
	v := ctrl.View()
	n := len(s.play.Commands())

	switch key := msg.String(); key {
	case "up", "k":
		ctrl.SelectLesson(v.LessonIndex - 1)
		return s.sync()
	case "down", "j":
		ctrl.SelectLesson(v.LessonIndex + 1)
		return s.sync()
	case "left", "h":
		if s.cmdIndex > 0 {
			s.cmdIndex--
		}
	case "right", "l":
		if s.cmdIndex < n-1 {
			s.cmdIndex++
		}
	case "space", "enter":
		s.play.Toggle(s.cmdIndex)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < n {
				s.cmdIndex = i
				s.play.Toggle(i)
			}
		}
	}
	return nil
}

// validate runs live validation of the editor content. A passing style
// answer is also applied to the playground element.
func (s *LearnScreen) validate() tea.Cmd {
	input := s.editor.Value()
	ctrl := s.opts.Controller
	s.result = ctrl.Evaluate(s.ctx, input)
	s.evaluated = input != ""
	if s.result.Outcome == challenge.Pass && ctrl.View().Artifact == artifact.KindStyle {
		s.play.ApplyStyle(input)
	}
	return s.sync()
}

// sync picks up lesson changes made by the controller: a new lesson gets a
// fresh editor, playground and the insight tab.
func (s *LearnScreen) sync() tea.Cmd {
	v := s.opts.Controller.View()
	if !v.HasUnit || v.LessonIndex == s.lessonIndex {
		return s.focus()
	}
	s.lessonIndex = v.LessonIndex
	s.editor.Reset()
	s.play.Load(v.Lesson.Commands)
	s.cmdIndex = 0
	s.tab = tabInsight
	s.result, s.evaluated = challenge.Result{}, false
	return s.focus()
}

// focus gives the editor focus only on the challenge tab of a lesson that
// still accepts answers.
func (s *LearnScreen) focus() tea.Cmd {
	v := s.opts.Controller.View()
	if s.tab == tabChallenge && !v.ReadOnly && !v.Finished {
		return s.editor.Focus()
	}
	s.editor.Blur()
	return nil
}
