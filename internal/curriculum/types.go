package curriculum

import "github.com/abhisek/synapse/internal/artifact"

// Unit is a named curriculum track with an ordered lesson sequence.
type Unit struct {
	Key      string
	Title    string
	Order    int
	Artifact artifact.Kind
	Lessons  []Lesson
}

// Lesson is one teachable step with instructional content and a challenge.
type Lesson struct {
	Title     string
	Insight   string
	Commands  []Command
	Challenge Challenge
}

// Predicate decides whether an artifact satisfies a challenge. It must be
// free of side effects; errors and panics count as a failed attempt.
type Predicate func(artifact.Artifact) (bool, error)

// Challenge is the exercise attached to a lesson.
type Challenge struct {
	Prompt    string
	Hint      string
	Validator Predicate
	Rules     []Rule
}

// CommandKind distinguishes how a demo command changes the preview.
type CommandKind int

const (
	// CommandMarkup contributes a fragment to the composed preview; one
	// command per group is active at a time.
	CommandMarkup CommandKind = iota
	// CommandLayout replaces the whole preview.
	CommandLayout
	// CommandStyle sets a single property on the preview element.
	CommandStyle
)

// Command is a demo snippet the learner can toggle in the playground.
type Command struct {
	Group    string `json:"group,omitempty"`
	Label    string `json:"label"`
	Content  string `json:"content,omitempty"`
	Property string `json:"property,omitempty"`
	Value    string `json:"value,omitempty"`
}

func (c Command) Kind() CommandKind {
	switch {
	case c.Property != "":
		return CommandStyle
	case c.Group == "":
		return CommandLayout
	default:
		return CommandMarkup
	}
}

// QuestionType is the answer format of a quiz question.
type QuestionType string

const (
	MultipleChoice QuestionType = "multipleChoice"
	FreeText       QuestionType = "freeText"
)

// QuizQuestion is one entry of the quiz bank. AnswerIndex is meaningful
// for MultipleChoice, AnswerText for FreeText.
type QuizQuestion struct {
	Topic       string
	Type        QuestionType
	Prompt      string
	Options     []string
	AnswerIndex int
	AnswerText  string
}

// ReferenceAnswer returns the correct answer as display text.
func (q QuizQuestion) ReferenceAnswer() string {
	if q.Type == MultipleChoice {
		if q.AnswerIndex >= 0 && q.AnswerIndex < len(q.Options) {
			return q.Options[q.AnswerIndex]
		}
		return ""
	}
	return q.AnswerText
}
