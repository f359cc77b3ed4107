// Package challenge runs lesson predicates against the learner's input.
package challenge

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/logger"
)

// Outcome is the classification of one evaluation.
type Outcome int

const (
	Fail Outcome = iota
	Pass
)

func (o Outcome) String() string {
	if o == Pass {
		return "pass"
	}
	return "fail"
}

// MinInputLength is the trimmed input length (in runes) below which a
// failed attempt shows no hint, so an empty editor does not flash errors.
const MinInputLength = 3

// Result is what the learner sees after an evaluation.
type Result struct {
	Outcome  Outcome
	ShowHint bool
	Hint     string
}

// Validator evaluates challenges. The zero value is not usable; call New.
type Validator struct {
	log *logger.Logger
}

// New creates a Validator. A nil log discards output.
func New(log *logger.Logger) *Validator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Validator{log: log}
}

// Evaluate runs the lesson predicate against a. Errors and panics raised by
// the predicate are reported as Fail.
func (v *Validator) Evaluate(lesson curriculum.Lesson, a artifact.Artifact) (outcome Outcome) {
	pred := lesson.Challenge.Validator
	if pred == nil || a == nil {
		return Fail
	}

	defer func() {
		if r := recover(); r != nil {
			v.log.Debug("validator panicked", "lesson", lesson.Title, "panic", fmt.Sprint(r))
			outcome = Fail
		}
	}()

	ok, err := pred(a)
	if err != nil {
		v.log.Debug("validator error", "lesson", lesson.Title, "error", err)
		return Fail
	}
	if !ok {
		return Fail
	}
	return Pass
}

// Check builds the artifact of kind from input and evaluates it. A failed
// build is a Fail like any other.
func (v *Validator) Check(lesson curriculum.Lesson, kind artifact.Kind, input string) Result {
	outcome := Fail
	a, err := artifact.Build(kind, input)
	if err != nil {
		v.log.Debug("artifact build failed", "lesson", lesson.Title, "error", err)
	} else {
		outcome = v.Evaluate(lesson, a)
	}

	if outcome == Pass {
		return Result{Outcome: Pass}
	}
	if utf8.RuneCountInString(strings.TrimSpace(input)) < MinInputLength {
		return Result{Outcome: Fail}
	}
	return Result{Outcome: Fail, ShowHint: true, Hint: lesson.Challenge.Hint}
}
