// Package lesson owns unit and lesson selection, gating, live challenge
// validation and the persisted completion set of the active unit.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/timer"
)

// AdvanceDelay is how long success feedback stays up before the
// controller moves on from a passed lesson.
const AdvanceDelay = time.Second

var (
	ErrNoActiveUnit  = errors.New("no active unit")
	ErrDebugDisabled = errors.New("developer pass requires debug mode")
)

// Editor is the text-editing widget feeding live validation.
type Editor interface {
	Value() string
}

// ActivityRecorder receives lesson pass events. store.EventRepo satisfies it.
type ActivityRecorder interface {
	AppendActivity(ctx context.Context, data store.ActivityEventData) error
}

// Options configures a Controller.
type Options struct {
	// Debug enables ForcePass.
	Debug  bool
	Log    *logger.Logger
	Events ActivityRecorder
}

// Controller is the lesson progression state machine. It is not safe for
// concurrent use; drive it from one event loop.
type Controller struct {
	repo      *curriculum.Repository
	progress  *progress.Store
	validator *challenge.Validator
	sched     timer.Scheduler
	opts      Options
	log       *logger.Logger

	unit      *curriculum.Unit
	index     int
	completed progress.Set
	passed    map[int]bool

	// generation changes whenever the session is torn down; deferred
	// advances from an older generation do nothing.
	generation int
	pending    int
	finished   bool
	last       challenge.Result
	storageErr error
}

// NewController wires a Controller. sched delivers the deferred advance
// after a pass.
func NewController(repo *curriculum.Repository, ps *progress.Store, v *challenge.Validator, sched timer.Scheduler, opts Options) *Controller {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		repo:      repo,
		progress:  ps,
		validator: v,
		sched:     sched,
		opts:      opts,
		log:       log.With("component", "lesson"),
		index:     -1,
		completed: progress.Set{},
		passed:    make(map[int]bool),
	}
}

// SelectUnit activates the unit with key, loading its progress. Unknown
// keys return curriculum.ErrNotFound and leave the state untouched.
func (c *Controller) SelectUnit(ctx context.Context, key string) error {
	u, err := c.repo.GetUnit(key)
	if err != nil {
		return err
	}

	total := len(u.Lessons)
	completed := c.progress.Load(ctx, key).Within(total)

	c.teardown()
	c.unit = &u
	c.completed = completed
	c.storageErr = nil
	if completed.Len() >= total {
		c.index = total - 1
	} else {
		c.index = completed.Len()
	}

	c.log.Debug("unit selected", "unit", key, "completed", completed.Len(), "lesson", c.index)
	return nil
}

// SelectLesson moves to lesson index. It returns false without changing
// anything when no unit is active, the index is out of range, or the
// lesson is locked.
func (c *Controller) SelectLesson(index int) bool {
	if c.unit == nil || index < 0 || index >= len(c.unit.Lessons) {
		return false
	}
	if index > c.completed.Len() {
		return false
	}
	c.index = index
	c.finished = false
	c.last = challenge.Result{}
	return true
}

// MarkComplete adds index to the completed set and saves the full set.
// A save failure keeps progress in memory and raises the storage warning.
func (c *Controller) MarkComplete(ctx context.Context, index int) error {
	if c.unit == nil {
		return ErrNoActiveUnit
	}
	if index < 0 || index >= len(c.unit.Lessons) {
		return fmt.Errorf("unit %q lesson %d: %w", c.unit.Key, index, curriculum.ErrNotFound)
	}

	c.completed.Add(index)
	if err := c.progress.Save(ctx, c.unit.Key, c.completed); err != nil {
		c.storageErr = err
		c.log.Warn("progress not saved; continuing in memory", "unit", c.unit.Key, "error", err)
	}
	return nil
}

// ResetUnit irreversibly clears the stored progress of key. When key is the
// active unit its in-memory mirror is reset too; other units' state is not
// touched.
func (c *Controller) ResetUnit(ctx context.Context, key string) error {
	if _, err := c.repo.GetUnit(key); err != nil {
		return err
	}
	if err := c.progress.Clear(ctx, key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	c.log.Info("unit progress reset", "unit", key)

	if c.unit != nil && c.unit.Key == key {
		c.teardown()
		c.completed = progress.Set{}
		c.index = 0
		c.storageErr = nil
	}
	return nil
}

// OnEditorChange validates the editor's current value.
func (c *Controller) OnEditorChange(ctx context.Context, e Editor) challenge.Result {
	return c.Evaluate(ctx, e.Value())
}

// Evaluate runs live validation of input against the current lesson. Lessons
// already completed or passed are read-only and never reach the validator.
func (c *Controller) Evaluate(ctx context.Context, input string) challenge.Result {
	if c.unit == nil || c.index < 0 {
		return challenge.Result{}
	}
	if c.readOnly(c.index) {
		return challenge.Result{Outcome: challenge.Pass}
	}

	lesson := c.unit.Lessons[c.index]
	res := c.validator.Check(lesson, c.unit.Artifact, input)
	c.last = res
	if res.Outcome == challenge.Pass {
		c.pass(ctx, false)
	}
	return res
}

// ForcePass marks the current lesson passed without running the validator.
// It is only available in debug mode.
func (c *Controller) ForcePass(ctx context.Context) error {
	if !c.opts.Debug {
		return ErrDebugDisabled
	}
	if c.unit == nil || c.index < 0 {
		return ErrNoActiveUnit
	}
	if c.readOnly(c.index) {
		return nil
	}
	c.last = challenge.Result{Outcome: challenge.Pass}
	c.pass(ctx, true)
	return nil
}

func (c *Controller) pass(ctx context.Context, forced bool) {
	idx := c.index
	c.passed[idx] = true
	_ = c.MarkComplete(ctx, idx)

	c.log.Info("lesson passed", "unit", c.unit.Key, "lesson", idx, "forced", forced)
	if c.opts.Events != nil {
		err := c.opts.Events.AppendActivity(ctx, store.ActivityEventData{
			Kind:        store.ActivityLessonPass,
			UnitKey:     c.unit.Key,
			LessonIndex: idx,
			Forced:      forced,
		})
		if err != nil {
			c.log.Warn("record lesson pass", "error", err)
		}
	}

	gen := c.generation
	c.pending++
	c.sched.After(AdvanceDelay, func() { c.advance(gen, idx) })
}

func (c *Controller) advance(gen, passed int) {
	if gen != c.generation {
		return
	}
	c.pending--
	if c.unit == nil {
		return
	}
	c.last = challenge.Result{}
	if passed+1 < len(c.unit.Lessons) {
		c.index = passed + 1
		c.finished = false
		return
	}
	c.finished = true
}

// teardown ends the in-session state: read-only marks, pending advances
// and feedback.
func (c *Controller) teardown() {
	c.generation++
	c.pending = 0
	c.passed = make(map[int]bool)
	c.finished = false
	c.last = challenge.Result{}
}

func (c *Controller) readOnly(i int) bool {
	return c.passed[i] || c.completed.Has(i)
}

// LessonIndex returns the current lesson; ok is false when no unit is active.
func (c *Controller) LessonIndex() (index int, ok bool) {
	if c.unit == nil {
		return 0, false
	}
	return c.index, true
}

// UnitKey returns the active unit key, or "".
func (c *Controller) UnitKey() string {
	if c.unit == nil {
		return ""
	}
	return c.unit.Key
}

// Completed returns a copy of the completed set of the active unit.
func (c *Controller) Completed() progress.Set {
	return c.completed.Clone()
}

// Debug reports whether ForcePass is enabled.
func (c *Controller) Debug() bool { return c.opts.Debug }

// Leave deactivates the current unit, discarding pending advances.
func (c *Controller) Leave() {
	c.teardown()
	c.unit = nil
	c.index = -1
	c.completed = progress.Set{}
	c.storageErr = nil
}

// Percent returns round(completed/total*100) for a unit.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
