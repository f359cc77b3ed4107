package learn

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/router"
	"github.com/abhisek/synapse/internal/screen"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/abhisek/synapse/internal/ui/layout"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "quiz" }
func (stubScreen) Title() string                             { return "Quiz" }

type harness struct {
	screen *LearnScreen
	ctrl   *lesson.Controller
	kv     *store.MemoryKV
	clock  *timer.Manual
}

func newHarness(t *testing.T, unit string, debug bool) *harness {
	t.Helper()
	h := &harness{kv: store.NewMemoryKV(), clock: timer.NewManual()}
	repo := curriculum.Default()
	h.ctrl = lesson.NewController(repo, progress.NewStore(h.kv, nil), challenge.New(nil), h.clock, lesson.Options{Debug: debug})
	h.screen = New(unit, Options{
		Controller: h.ctrl,
		Repo:       repo,
		Scheduler:  h.clock,
		NewQuiz:    func() screen.Screen { return stubScreen{} },
	})
	h.screen.Init()
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.screen.Update(msg)
	return cmd
}

// fire advances the clock and delivers the notification the app sends
// after running deferred callbacks.
func (h *harness) fire() {
	h.clock.Advance(lesson.AdvanceDelay)
	h.send(screen.TimerFiredMsg{})
}

func typeText(h *harness, s string) {
	for _, r := range s {
		h.send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func special(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func TestLearnScreen_Init(t *testing.T) {
	h := newHarness(t, "CSS", false)

	assert.Equal(t, "Learn", h.screen.Title())
	assert.Equal(t, layout.Status{Label: "CSS", Percent: 0, Gauge: true}, h.screen.Status())
	assert.Equal(t, tabInsight, h.screen.tab)
	assert.NotEmpty(t, h.screen.View(120, 40))
	assert.NotEmpty(t, h.screen.KeyHints())
}

func TestLearnScreen_UnknownUnit(t *testing.T) {
	h := newHarness(t, "JS", false)

	assert.Contains(t, h.screen.View(100, 30), "JS")
	assert.Nil(t, h.send(special(tea.KeyTab)))
}

func TestLearnScreen_LiveValidationPassesAndAdvances(t *testing.T) {
	h := newHarness(t, "CSS", false)

	h.send(special(tea.KeyTab))
	require.Equal(t, tabChallenge, h.screen.tab)
	require.True(t, h.screen.editor.Focused())

	typeText(h, "color: red;")
	assert.Equal(t, challenge.Fail, h.screen.result.Outcome)
	assert.True(t, h.screen.result.ShowHint)

	h.screen.editor.Reset()
	typeText(h, "background-color: red;")
	assert.Equal(t, challenge.Pass, h.screen.result.Outcome)

	v := h.ctrl.View()
	assert.True(t, v.ReadOnly)
	assert.True(t, v.AdvancePending)
	assert.False(t, h.screen.editor.Focused(), "passed lesson no longer takes input")

	raw, ok, err := h.kv.Get(context.Background(), progress.Key("CSS"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[0]", raw)

	h.fire()
	idx, _ := h.ctrl.LessonIndex()
	assert.Equal(t, 1, idx)
	assert.Equal(t, tabInsight, h.screen.tab)
	assert.Empty(t, h.screen.editor.Value())
	assert.Equal(t, 20, h.screen.Status().Percent)
}

type blinkMsg struct{}

func TestLearnScreen_ValidatesOnlyWhenTextChanges(t *testing.T) {
	h := newHarness(t, "CSS", false)
	h.send(special(tea.KeyTab))
	typeText(h, "color: red;")
	require.Equal(t, challenge.Fail, h.screen.result.Outcome)

	h.screen.result, h.screen.evaluated = challenge.Result{}, false
	h.send(special(tea.KeyLeft))
	h.send(special(tea.KeyHome))
	h.send(blinkMsg{})
	assert.Equal(t, challenge.Result{}, h.screen.result)
	assert.False(t, h.screen.evaluated)
	assert.Equal(t, "color: red;", h.screen.editor.Value())

	typeText(h, " ")
	assert.Equal(t, challenge.Fail, h.screen.result.Outcome)
	assert.True(t, h.screen.evaluated)
}

func TestLearnScreen_LockedLessonNotSelectable(t *testing.T) {
	h := newHarness(t, "HTML", false)

	h.send(special(tea.KeyDown))
	idx, _ := h.ctrl.LessonIndex()
	assert.Equal(t, 0, idx)
}

func TestLearnScreen_PlaygroundToggle(t *testing.T) {
	h := newHarness(t, "CSS", false)

	h.send(tea.KeyPressMsg{Code: '1', Text: "1"})
	assert.True(t, h.screen.play.IsActive(0))
	assert.Contains(t, h.screen.play.Render(), "color: pink")

	h.send(tea.KeyPressMsg{Code: '2', Text: "2"})
	assert.False(t, h.screen.play.IsActive(0), "same property replaced")
	assert.True(t, h.screen.play.IsActive(1))
}

func TestLearnScreen_CollapseLock(t *testing.T) {
	h := newHarness(t, "CSS", false)
	ctrlB := tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}

	h.send(ctrlB)
	assert.True(t, h.screen.collapsed)
	h.send(ctrlB)
	assert.True(t, h.screen.collapsed, "toggle ignored while locked")

	h.clock.Advance(CollapseLock)
	h.send(ctrlB)
	assert.False(t, h.screen.collapsed)
}

func TestLearnScreen_DeveloperPass(t *testing.T) {
	devPass := tea.KeyPressMsg{Code: '`', Mod: tea.ModAlt}

	h := newHarness(t, "CSS", false)
	h.send(devPass)
	assert.False(t, h.ctrl.View().ReadOnly, "ignored without debug")

	h = newHarness(t, "CSS", true)
	for i := 0; i < 5; i++ {
		h.send(devPass)
		h.fire()
	}
	v := h.ctrl.View()
	require.True(t, v.Finished)
	assert.Equal(t, 100, v.Percent)
	assert.Contains(t, h.screen.View(100, 30), "恭喜")

	cmd := h.send(tea.KeyPressMsg{Code: 't', Text: "t"})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.ReplaceScreenMsg)
	assert.True(t, ok)
}

func TestLearnScreen_CompletedLessonIsReadOnly(t *testing.T) {
	h := newHarness(t, "CSS", true)
	h.send(tea.KeyPressMsg{Code: '`', Mod: tea.ModAlt})
	h.fire()

	h.send(tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModAlt})
	idx, _ := h.ctrl.LessonIndex()
	require.Equal(t, 0, idx)

	h.send(special(tea.KeyTab))
	assert.False(t, h.screen.editor.Focused())
	assert.Contains(t, h.screen.View(120, 40), "挑戰完成")

	h.send(tea.KeyPressMsg{Code: 'n', Text: "n"})
	idx, _ = h.ctrl.LessonIndex()
	assert.Equal(t, 1, idx)
}

func TestLearnScreen_LeaveReleasesUnit(t *testing.T) {
	h := newHarness(t, "CSS", false)
	h.screen.Leave()
	assert.False(t, h.ctrl.View().HasUnit)
}
