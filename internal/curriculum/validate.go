package curriculum

import (
	"fmt"
	"strings"

	"github.com/abhisek/synapse/internal/artifact"
)

// validate performs structural checks on units and quiz questions.
// Returns a combined error describing all problems found, or nil if valid.
func validate(units []Unit, quiz []QuizQuestion) error {
	var errs []string

	keys := make(map[string]bool, len(units))
	for _, u := range units {
		if u.Key == "" {
			errs = append(errs, "unit with empty key")
		}
		if keys[u.Key] {
			errs = append(errs, fmt.Sprintf("duplicate unit key: %q", u.Key))
		}
		keys[u.Key] = true

		if u.Artifact != artifact.KindStyle && u.Artifact != artifact.KindDocument {
			errs = append(errs, fmt.Sprintf("unit %q has unknown artifact kind %q", u.Key, u.Artifact))
		}
		if len(u.Lessons) == 0 {
			errs = append(errs, fmt.Sprintf("unit %q has no lessons", u.Key))
		}
		for i, l := range u.Lessons {
			if l.Challenge.Validator == nil {
				errs = append(errs, fmt.Sprintf("unit %q lesson %d has no validator", u.Key, i))
			}
			for _, c := range l.Commands {
				if c.Kind() == CommandStyle && u.Artifact != artifact.KindStyle {
					errs = append(errs, fmt.Sprintf("unit %q lesson %d: style command %q in a markup unit", u.Key, i, c.Label))
				}
			}
		}
	}

	for i, q := range quiz {
		switch q.Type {
		case MultipleChoice:
			if len(q.Options) < 2 {
				errs = append(errs, fmt.Sprintf("question %d needs at least two options", i))
			}
			if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
				errs = append(errs, fmt.Sprintf("question %d answer index %d out of range", i, q.AnswerIndex))
			}
		case FreeText:
			if strings.TrimSpace(q.AnswerText) == "" {
				errs = append(errs, fmt.Sprintf("question %d has an empty reference answer", i))
			}
		default:
			errs = append(errs, fmt.Sprintf("question %d has unknown type %q", i, q.Type))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("curriculum validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
