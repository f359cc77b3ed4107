package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/store"
)

type fakeSource struct {
	events []store.ActivityEvent
	err    error
	opts   store.QueryOpts
}

func (f *fakeSource) QueryActivity(_ context.Context, opts store.QueryOpts) ([]store.ActivityEvent, error) {
	f.opts = opts
	return f.events, f.err
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestHistoryScreen_ListsActivity(t *testing.T) {
	src := &fakeSource{events: []store.ActivityEvent{
		{Timestamp: time.Now(), ActivityEventData: store.ActivityEventData{
			Kind: store.ActivityQuizResult, Score: 8, Total: 10, Percent: 80,
		}},
		{Timestamp: time.Now(), ActivityEventData: store.ActivityEventData{
			Kind: store.ActivityLessonPass, UnitKey: "CSS", LessonIndex: 2, Forced: true,
		}},
	}}
	s := New(src)
	load(t, s)

	assert.Equal(t, pageSize, src.opts.Limit)
	view := s.View(120, 30)
	assert.Contains(t, view, "8/10")
	assert.Contains(t, view, "CSS 第 3 課")
	assert.Contains(t, view, "略過")
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := New(&fakeSource{events: make([]store.ActivityEvent, 3)})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, s.selected)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}

func TestHistoryScreen_EmptyAndError(t *testing.T) {
	s := New(&fakeSource{})
	assert.Contains(t, s.View(80, 20), "讀取中")
	load(t, s)
	assert.Contains(t, s.View(80, 20), "還沒有紀錄")

	s = New(&fakeSource{err: errors.New("db gone")})
	load(t, s)
	assert.Contains(t, s.View(80, 20), "db gone")
}
