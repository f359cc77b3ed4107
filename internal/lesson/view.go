package lesson

import (
	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
)

// Status is the gating state of one lesson.
type Status int

const (
	StatusAvailable Status = iota
	StatusCompleted
	StatusLocked
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusLocked:
		return "locked"
	default:
		return "available"
	}
}

// LessonStatus describes one entry of the lesson list.
type LessonStatus struct {
	Index  int
	Title  string
	Status Status
	Active bool
}

// View is everything a renderer needs after a transition.
type View struct {
	HasUnit   bool
	UnitKey   string
	UnitTitle string
	Artifact  artifact.Kind

	// LessonIndex is -1 when no unit is active.
	LessonIndex    int
	Lessons        []LessonStatus
	CompletedCount int
	TotalLessons   int
	Percent        int

	Lesson   curriculum.Lesson
	ReadOnly bool
	// Passed is set once the current lesson passed in this session.
	Passed       bool
	IsLastLesson bool
	Result       challenge.Result

	AdvancePending bool
	Finished       bool
	StorageWarning bool
}

// Gating computes lesson statuses for a unit with the given completed
// set size. Shared by the controller and progress listings.
func Gating(u curriculum.Unit, isCompleted func(int) bool, completedCount, active int) []LessonStatus {
	out := make([]LessonStatus, len(u.Lessons))
	for i, l := range u.Lessons {
		st := StatusAvailable
		switch {
		case isCompleted(i):
			st = StatusCompleted
		case i > completedCount:
			st = StatusLocked
		}
		out[i] = LessonStatus{Index: i, Title: l.Title, Status: st, Active: i == active}
	}
	return out
}

// View snapshots the controller state.
func (c *Controller) View() View {
	if c.unit == nil {
		return View{LessonIndex: -1}
	}

	total := len(c.unit.Lessons)
	v := View{
		HasUnit:        true,
		UnitKey:        c.unit.Key,
		UnitTitle:      c.unit.Title,
		Artifact:       c.unit.Artifact,
		LessonIndex:    c.index,
		Lessons:        Gating(*c.unit, c.completed.Has, c.completed.Len(), c.index),
		CompletedCount: c.completed.Len(),
		TotalLessons:   total,
		Percent:        Percent(c.completed.Len(), total),
		AdvancePending: c.pending > 0,
		Finished:       c.finished,
		StorageWarning: c.storageErr != nil,
	}
	if c.index >= 0 && c.index < total {
		v.Lesson = c.unit.Lessons[c.index]
		v.ReadOnly = c.readOnly(c.index)
		v.Passed = c.passed[c.index]
		v.IsLastLesson = c.index == total-1
		v.Result = c.last
	}
	return v
}
