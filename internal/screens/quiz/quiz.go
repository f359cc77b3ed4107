// Package quiz is the quiz screen. The session lives only as long as the
// screen; leaving discards it.
package quiz

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/quiz"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/tutor"
	"github.com/abhisek/synapse/internal/ui/components"
	"github.com/abhisek/synapse/internal/ui/layout"
)

const explainPollInterval = 200 * time.Millisecond

// Recorder receives finished quiz results. store.EventRepo satisfies it.
type Recorder interface {
	AppendActivity(ctx context.Context, data store.ActivityEventData) error
}

// Options wires the screen.
type Options struct {
	Bank   []curriculum.QuizQuestion
	Events Recorder
	// Tutor explains wrong answers in review; nil disables it.
	Tutor *tutor.Service
	Log   *logger.Logger
}

type explainPollMsg struct{}

// QuizScreen implements screen.Screen for one quiz session.
type QuizScreen struct {
	ctx     context.Context
	opts    Options
	log     *logger.Logger
	session *quiz.Session

	choice components.MultiChoice
	input  components.TextInput

	confirming bool
	left       bool

	explanations map[int]*tutor.Explanation
	explaining   int
	explainErr   string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

func New(opts Options) *QuizScreen {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	s := &QuizScreen{
		ctx:          context.Background(),
		opts:         opts,
		log:          log.With("component", "quiz"),
		session:      quiz.NewSession(opts.Bank),
		explanations: make(map[int]*tutor.Explanation),
		explaining:   -1,
	}
	s.load()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.input.Model.Focus()
}

// Leave stops explanation polling; the session is dropped with the screen.
func (s *QuizScreen) Leave() {
	s.left = true
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Status() layout.Status {
	switch s.session.Phase() {
	case quiz.PhaseResults:
		return layout.Status{Label: "得分", Percent: s.session.Percent(), Gauge: true}
	case quiz.PhaseReview:
		return layout.Status{Label: fmt.Sprintf("檢討 %d / %d", s.session.Index()+1, s.session.Total())}
	}
	return layout.Status{Label: fmt.Sprintf("%d / %d", s.session.Index()+1, s.session.Total())}
}

// HandlesEscape keeps esc inside the screen while a confirmation is open
// or while reviewing, where it returns to the results.
func (s *QuizScreen) HandlesEscape() bool {
	return s.confirming || s.session.Phase() == quiz.PhaseReview
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "交卷"},
			{Key: "N", Description: "繼續作答"},
		}
	}
	switch s.session.Phase() {
	case quiz.PhaseResults:
		return []layout.KeyHint{
			{Key: "R", Description: "檢視答案"},
			{Key: "A", Description: "重新測驗"},
			{Key: "Esc", Description: "返回"},
		}
	case quiz.PhaseReview:
		hints := []layout.KeyHint{
			{Key: "Tab", Description: "下一題"},
			{Key: "Shift+Tab", Description: "上一題"},
		}
		if s.opts.Tutor.Enabled() {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "AI 解說"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "結果"})
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "下一題"},
		{Key: "Shift+Tab", Description: "上一題"},
		{Key: "Enter", Description: "選擇"},
		{Key: "Esc", Description: "離開"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainPollMsg:
		return s, s.pollExplanation()
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.textActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if s.confirming {
		switch key {
		case "y", "Y", "enter":
			s.confirming = false
			s.submit()
		case "n", "N", "esc":
			s.confirming = false
		}
		return nil
	}

	switch s.session.Phase() {
	case quiz.PhaseResults:
		switch key {
		case "r", "R":
			if err := s.session.Review(); err == nil {
				s.load()
			}
		case "a", "A":
			s.session.Retry()
			s.explanations = make(map[int]*tutor.Explanation)
			s.explaining, s.explainErr = -1, ""
			s.load()
			return s.input.Model.Focus()
		}
		return nil

	case quiz.PhaseReview:
		switch key {
		case "tab", "right", "l":
			s.next()
		case "shift+tab", "left", "h":
			s.previous()
		case "esc":
			_ = s.session.ShowResults()
		case "e", "E":
			return s.requestExplanation()
		}
		return nil
	}

	switch key {
	case "tab":
		s.next()
		return nil
	case "shift+tab":
		s.previous()
		return nil
	}

	q, _ := s.session.Current()
	if q.Type == curriculum.MultipleChoice {
		var picked bool
		s.choice, picked = s.choice.Update(msg)
		if picked {
			_ = s.session.AnswerChoice(s.choice.Chosen)
		}
		return nil
	}

	if key == "enter" {
		s.next()
		return nil
	}
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	// Cursor movement and blinks leave the question unanswered.
	if v := s.input.Value(); v != before {
		_ = s.session.AnswerText(v)
	}
	return cmd
}

func (s *QuizScreen) next() {
	switch s.session.Next() {
	case quiz.StepAdvanced:
		s.load()
	case quiz.StepConfirmSubmit:
		s.confirming = true
	}
}

func (s *QuizScreen) previous() {
	if s.session.Previous() {
		s.load()
	}
}

func (s *QuizScreen) submit() {
	if err := s.session.Submit(); err != nil {
		return
	}
	s.log.Info("quiz submitted", "session", s.session.ID, "score", s.session.Score(), "total", s.session.Total())
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.AppendActivity(s.ctx, store.ActivityEventData{
		Kind:      store.ActivityQuizResult,
		SessionID: s.session.ID,
		Score:     s.session.Score(),
		Total:     s.session.Total(),
		Percent:   s.session.Percent(),
	})
	if err != nil {
		s.log.Warn("record quiz result", "error", err)
	}
}

// load rebuilds the answer widgets for the current question.
func (s *QuizScreen) load() {
	q, ok := s.session.Current()
	if !ok {
		return
	}
	i := s.session.Index()
	a := s.session.Answer(i)
	fb, reveal := s.session.Feedback(i)

	chosen := -1
	if a != nil && q.Type == curriculum.MultipleChoice {
		chosen = a.Choice
	}
	s.choice = components.NewMultiChoice(q.Options, chosen)
	if reveal {
		s.choice.Reveal = true
		s.choice.CorrectIndex = q.AnswerIndex
	}

	s.input = components.NewTextInput("輸入你的答案", 200)
	if a != nil && q.Type == curriculum.FreeText {
		s.input.SetValue(a.Text)
	}
	if reveal {
		s.input.Mark(fb.Correct)
		s.input.Model.Blur()
	}
}

func (s *QuizScreen) textActive() bool {
	if s.confirming || s.session.Phase() != quiz.PhaseActive {
		return false
	}
	q, _ := s.session.Current()
	return q.Type == curriculum.FreeText
}

func (s *QuizScreen) requestExplanation() tea.Cmd {
	if !s.opts.Tutor.Enabled() {
		return nil
	}
	i := s.session.Index()
	fb, ok := s.session.Feedback(i)
	if !ok || fb.Correct || s.explanations[i] != nil || s.explaining == i {
		return nil
	}

	q, _ := s.session.Current()
	in := tutor.Input{
		QuestionIndex: i,
		Topic:         q.Topic,
		Prompt:        q.Prompt,
		Reference:     fb.Reference,
	}
	if q.Type == curriculum.MultipleChoice {
		in.Options = q.Options
	}
	if a := s.session.Answer(i); a != nil {
		if q.Type == curriculum.MultipleChoice {
			if a.Choice >= 0 && a.Choice < len(q.Options) {
				in.UserAnswer = q.Options[a.Choice]
			}
		} else {
			in.UserAnswer = a.Text
		}
	}

	s.explaining, s.explainErr = i, ""
	s.opts.Tutor.RequestExplanation(s.ctx, in)
	return explainTick()
}

func (s *QuizScreen) pollExplanation() tea.Cmd {
	if s.left || s.explaining < 0 {
		return nil
	}
	exp, err, done := s.opts.Tutor.ConsumeExplanation()
	if !done {
		return explainTick()
	}
	if err != nil {
		s.explainErr = "AI 解說暫時無法使用"
	} else if exp != nil {
		s.explanations[exp.QuestionIndex] = exp
	}
	s.explaining = -1
	return nil
}

func explainTick() tea.Cmd {
	return tea.Tick(explainPollInterval, func(time.Time) tea.Msg {
		return explainPollMsg{}
	})
}
