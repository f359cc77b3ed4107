package quiz

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/llm"
	"github.com/abhisek/synapse/internal/quiz"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/tutor"
)

type recorder struct {
	events []store.ActivityEventData
}

func (r *recorder) AppendActivity(_ context.Context, d store.ActivityEventData) error {
	r.events = append(r.events, d)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	tabKey      = tea.KeyPressMsg{Code: tea.KeyTab}
	shiftTabKey = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	escKey      = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func newScreen(t *testing.T, svc *tutor.Service) (*QuizScreen, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(Options{Bank: curriculum.Default().QuizBank(), Events: rec, Tutor: svc})
	s.Init()
	return s, rec
}

func send(s *QuizScreen, msgs ...tea.Msg) {
	for _, m := range msgs {
		s.Update(m)
	}
}

func submitWithFirstAnswerOnly(s *QuizScreen) {
	send(s, keyPress('2'))
	for i := 0; i < s.session.Total()-1; i++ {
		send(s, tabKey)
	}
	send(s, tabKey, keyPress('y'))
}

func TestQuizScreen_AnswerAndNavigate(t *testing.T) {
	s, _ := newScreen(t, nil)
	assert.Equal(t, "Quiz", s.Title())
	assert.Equal(t, "1 / 10", s.Status().Label)
	assert.False(t, s.HandlesEscape())

	send(s, keyPress('2'))
	a := s.session.Answer(0)
	require.NotNil(t, a)
	assert.Equal(t, 1, a.Choice)

	send(s, tabKey)
	assert.Equal(t, 1, s.session.Index())
	send(s, shiftTabKey)
	assert.Equal(t, 0, s.session.Index())
	assert.Equal(t, 1, s.choice.Chosen, "answer restored on return")
}

func TestQuizScreen_FreeTextAnswer(t *testing.T) {
	s, _ := newScreen(t, nil)
	for s.session.Index() < 4 {
		send(s, tabKey)
	}
	q, _ := s.session.Current()
	require.Equal(t, curriculum.FreeText, q.Type)

	for _, r := range "p{}" {
		send(s, keyPress(r))
	}
	a := s.session.Answer(4)
	require.NotNil(t, a)
	assert.Equal(t, "p{}", a.Text)

	send(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, 5, s.session.Index(), "enter moves on from a text answer")
}

func TestQuizScreen_CursorKeysDoNotAnswer(t *testing.T) {
	s, _ := newScreen(t, nil)
	for s.session.Index() < 4 {
		send(s, tabKey)
	}
	send(s, tea.KeyPressMsg{Code: tea.KeyLeft}, tea.KeyPressMsg{Code: tea.KeyHome})
	assert.Nil(t, s.session.Answer(4))

	for s.session.Index() < s.session.Total()-1 {
		send(s, tabKey)
	}
	send(s, tabKey, keyPress('y'))
	require.Equal(t, quiz.PhaseResults, s.session.Phase())
	fb, ok := s.session.Feedback(4)
	require.True(t, ok)
	assert.False(t, fb.Answered)
}

func TestQuizScreen_SubmitConfirmation(t *testing.T) {
	s, rec := newScreen(t, nil)
	for i := 0; i < s.session.Total()-1; i++ {
		send(s, tabKey)
	}
	send(s, tabKey)
	require.True(t, s.confirming)
	assert.True(t, s.HandlesEscape())
	assert.Contains(t, s.View(100, 30), "10")

	send(s, keyPress('n'))
	assert.False(t, s.confirming)
	assert.Equal(t, quiz.PhaseActive, s.session.Phase())

	send(s, tabKey, keyPress('y'))
	assert.Equal(t, quiz.PhaseResults, s.session.Phase())
	require.Len(t, rec.events, 1)
	assert.Equal(t, store.ActivityQuizResult, rec.events[0].Kind)
	assert.Equal(t, 0, rec.events[0].Score)
	assert.Equal(t, 10, rec.events[0].Total)
	assert.Equal(t, s.session.ID, rec.events[0].SessionID)
}

func TestQuizScreen_ReviewAndRetry(t *testing.T) {
	s, rec := newScreen(t, nil)
	submitWithFirstAnswerOnly(s)
	require.Equal(t, quiz.PhaseResults, s.session.Phase())
	assert.Equal(t, 1, rec.events[0].Score)
	assert.Equal(t, 10, rec.events[0].Percent)
	assert.Contains(t, s.View(100, 30), "再接再厲")

	send(s, keyPress('r'))
	require.Equal(t, quiz.PhaseReview, s.session.Phase())
	assert.True(t, s.HandlesEscape())
	assert.True(t, s.choice.Reveal)

	send(s, keyPress('3'))
	assert.Equal(t, 1, s.session.Answer(0).Choice, "review is read-only")

	send(s, escKey)
	assert.Equal(t, quiz.PhaseResults, s.session.Phase())

	oldID := s.session.ID
	send(s, keyPress('a'))
	assert.Equal(t, quiz.PhaseActive, s.session.Phase())
	assert.NotEqual(t, oldID, s.session.ID)
	assert.Nil(t, s.session.Answer(0))
}

func TestQuizScreen_Explanation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"id 選擇器用 #。","tip":"# = id"}`),
	})
	s, _ := newScreen(t, tutor.NewService(mock, tutor.DefaultConfig(), nil))
	submitWithFirstAnswerOnly(s)
	send(s, keyPress('r'))

	send(s, keyPress('e'))
	assert.Equal(t, -1, s.explaining, "correct answers get no explanation")

	send(s, tabKey)
	_, cmd := s.Update(keyPress('e'))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, s.explaining)

	deadline := time.Now().Add(5 * time.Second)
	for s.explaining >= 0 && time.Now().Before(deadline) {
		s.Update(explainPollMsg{})
		time.Sleep(5 * time.Millisecond)
	}
	require.NotNil(t, s.explanations[1])
	assert.Equal(t, "# = id", s.explanations[1].Tip)
	assert.Contains(t, s.View(120, 40), "id 選擇器")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Messages[0].Content, "Learner answered: (no answer)")
}

func TestQuizScreen_LeaveStopsPolling(t *testing.T) {
	s, _ := newScreen(t, tutor.NewService(llm.NewMockProvider(), tutor.DefaultConfig(), nil))
	s.explaining = 0
	s.Leave()
	_, cmd := s.Update(explainPollMsg{})
	assert.Nil(t, cmd)
}
