package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/preferences"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/abhisek/synapse/internal/ui/layout"
	"github.com/abhisek/synapse/internal/ui/theme"
)

type recordingScreen struct {
	msgs   []tea.Msg
	escape bool
	status layout.Status
}

func (s *recordingScreen) Init() tea.Cmd { return nil }
func (s *recordingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}
func (s *recordingScreen) View(int, int) string  { return "recording" }
func (s *recordingScreen) Title() string         { return "Recorder" }
func (s *recordingScreen) HandlesEscape() bool   { return s.escape }
func (s *recordingScreen) Status() layout.Status { return s.status }

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), progress.Key("HTML"), "[]"))
	repo := curriculum.Default()
	ps := progress.NewStore(kv, nil)
	q := &timer.Queue{}
	return newAppModel(Options{
		Repo:       repo,
		Controller: lesson.NewController(repo, ps, challenge.New(nil), q, lesson.Options{}),
		Progress:   ps,
		Prefs:      preferences.New(kv, nil),
		Queue:      q,
	})
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestApp_EscPopsUnlessScreenHandlesIt(t *testing.T) {
	m := newTestModel(t)
	esc := tea.KeyPressMsg{Code: tea.KeyEscape}

	_, cmd := update(m, esc)
	assert.Nil(t, cmd, "nothing to pop at the root")

	rec := &recordingScreen{}
	m.router.Push(rec)

	_, cmd = update(m, esc)
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())

	rec.escape = true
	update(m, esc)
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, esc, rec.msgs[0])
}

func TestApp_DeferredCallbacksRunOnLoop(t *testing.T) {
	m := newTestModel(t)
	rec := &recordingScreen{}
	m.router.Push(rec)

	ran := false
	m.queue.After(10*time.Millisecond, func() { ran = true })

	_, cmd := update(m, tea.KeyPressMsg{Code: 'a', Text: "a"})
	require.NotNil(t, cmd, "queued callback becomes a tick")
	assert.Empty(t, m.queue.Drain())
	assert.False(t, ran)

	update(m, deferredMsg{fn: func() { ran = true }})
	assert.True(t, ran)
	assert.Equal(t, screen.TimerFiredMsg{}, rec.msgs[len(rec.msgs)-1])
}

func TestApp_ThemeFollowsPreferenceAndBackground(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, screen.ThemeChangedMsg{Name: preferences.ThemeLight})
	assert.Equal(t, theme.Light.Name, theme.Active().Name)

	m, _ = update(m, screen.ThemeChangedMsg{Name: preferences.ThemeSystem})
	assert.Equal(t, theme.Dark.Name, theme.Active().Name, "system follows the assumed dark background")

	theme.Apply(theme.Dark)
}

func TestApp_ViewShowsTitleAndStatus(t *testing.T) {
	m := newTestModel(t)
	m.router.Push(&recordingScreen{status: layout.Status{Label: "CSS", Percent: 40, Gauge: true, Warning: "進度未儲存"}})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	frame := m.render()
	assert.Contains(t, frame, "Recorder")
	assert.Contains(t, frame, "CSS")
	assert.Contains(t, frame, "40%")
	assert.Contains(t, frame, "進度未儲存")
	assert.Contains(t, frame, "recording")
}

func TestApp_FirstLaunchShowsWelcome(t *testing.T) {
	kv := store.NewMemoryKV()
	repo := curriculum.Default()
	ps := progress.NewStore(kv, nil)
	q := &timer.Queue{}
	m := newAppModel(Options{
		Repo:       repo,
		Controller: lesson.NewController(repo, ps, challenge.New(nil), q, lesson.Options{}),
		Progress:   ps,
		Queue:      q,
	})
	assert.Equal(t, "", m.router.Active().Title())

	require.NoError(t, kv.Set(context.Background(), progress.Key("CSS"), "[0]"))
	m = newAppModel(Options{
		Repo:       repo,
		Controller: lesson.NewController(repo, ps, challenge.New(nil), q, lesson.Options{}),
		Progress:   ps,
		Queue:      q,
	})
	assert.Equal(t, "Home", m.router.Active().Title())
}
