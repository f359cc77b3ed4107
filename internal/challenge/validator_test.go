package challenge

import (
	"errors"
	"testing"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/curriculum"
)

func lessonWith(pred curriculum.Predicate) curriculum.Lesson {
	return curriculum.Lesson{
		Title:     "test",
		Challenge: curriculum.Challenge{Prompt: "p", Hint: "try harder", Validator: pred},
	}
}

func TestEvaluateClassifies(t *testing.T) {
	v := New(nil)
	a := artifact.ParseStyle("color: red")

	tests := []struct {
		name string
		pred curriculum.Predicate
		want Outcome
	}{
		{"true", func(artifact.Artifact) (bool, error) { return true, nil }, Pass},
		{"false", func(artifact.Artifact) (bool, error) { return false, nil }, Fail},
		{"error", func(artifact.Artifact) (bool, error) { return true, errors.New("boom") }, Fail},
		{"panic", func(artifact.Artifact) (bool, error) { panic("nil element") }, Fail},
		{"nil", nil, Fail},
	}
	for _, tt := range tests {
		if got := v.Evaluate(lessonWith(tt.pred), a); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCheckHintPolicy(t *testing.T) {
	v := New(nil)
	pred := func(a artifact.Artifact) (bool, error) {
		c, _ := artifact.StyleOf(a, "color")
		return c == "red", nil
	}
	lesson := lessonWith(pred)

	tests := []struct {
		input    string
		outcome  Outcome
		showHint bool
	}{
		{"", Fail, false},
		{"  ab \n", Fail, false},
		{"abc", Fail, true},
		{"color: blue", Fail, true},
		{"color: red", Pass, false},
	}
	for _, tt := range tests {
		got := v.Check(lesson, artifact.KindStyle, tt.input)
		if got.Outcome != tt.outcome || got.ShowHint != tt.showHint {
			t.Errorf("Check(%q) = %+v, want outcome %v hint %v", tt.input, got, tt.outcome, tt.showHint)
		}
		if got.ShowHint && got.Hint != "try harder" {
			t.Errorf("hint = %q", got.Hint)
		}
	}
}

func TestCheckBuildFailureIsFail(t *testing.T) {
	v := New(nil)
	lesson := lessonWith(func(artifact.Artifact) (bool, error) { return true, nil })

	got := v.Check(lesson, artifact.Kind("canvas"), "anything long enough")
	if got.Outcome != Fail || !got.ShowHint {
		t.Errorf("got %+v, want fail with hint", got)
	}
}
