// Package quiz runs the quiz session state machine: answering, scoring,
// results and a read-only review pass. Sessions are never persisted.
package quiz

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/google/uuid"
)

var (
	ErrReadOnly      = errors.New("quiz answers are read-only outside the active phase")
	ErrWrongPhase    = errors.New("operation not allowed in this phase")
	ErrInvalidAnswer = errors.New("answer does not fit the question")
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseActive  Phase = iota // Answering questions
	PhaseResults              // Score summary
	PhaseReview               // Read-only walkthrough after submission
)

func (p Phase) String() string {
	switch p {
	case PhaseResults:
		return "results"
	case PhaseReview:
		return "review"
	default:
		return "active"
	}
}

// Step reports what Next did.
type Step int

const (
	// StepNone means nothing changed.
	StepNone Step = iota
	// StepAdvanced moved to the following question.
	StepAdvanced
	// StepConfirmSubmit means the last active question was reached; the
	// caller must confirm and call Submit.
	StepConfirmSubmit
	// StepResults means review finished and the session is back at results.
	StepResults
)

// Answer is a user's answer. Choice is used for multiple choice questions,
// Text for free text ones.
type Answer struct {
	Choice int
	Text   string
}

// Session is one run through the quiz bank. Not safe for concurrent use.
type Session struct {
	ID        string
	StartedAt time.Time

	questions []curriculum.QuizQuestion
	phase     Phase
	index     int
	answers   []*Answer
	score     int
}

// NewSession starts a session over bank at question 0 with no answers.
func NewSession(bank []curriculum.QuizQuestion) *Session {
	s := &Session{questions: bank}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.ID = uuid.New().String()
	s.StartedAt = time.Now()
	s.phase = PhaseActive
	s.index = 0
	s.answers = make([]*Answer, len(s.questions))
	s.score = 0
}

// Retry discards every answer and the score and re-enters the active phase
// at question 0 with a fresh ID.
func (s *Session) Retry() { s.reset() }

func (s *Session) Phase() Phase  { return s.phase }
func (s *Session) Index() int    { return s.index }
func (s *Session) Total() int    { return len(s.questions) }
func (s *Session) Score() int    { return s.score }
func (s *Session) IsLast() bool  { return s.index == len(s.questions)-1 }
func (s *Session) IsFirst() bool { return s.index == 0 }

// Current returns the question at the current index.
func (s *Session) Current() (curriculum.QuizQuestion, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return curriculum.QuizQuestion{}, false
	}
	return s.questions[s.index], true
}

// Answer returns the answer to question i, or nil when unanswered.
func (s *Session) Answer(i int) *Answer {
	if i < 0 || i >= len(s.answers) || s.answers[i] == nil {
		return nil
	}
	a := *s.answers[i]
	return &a
}

// AnswerChoice records option i for the current multiple choice question.
func (s *Session) AnswerChoice(i int) error {
	q, err := s.answerable()
	if err != nil {
		return err
	}
	if q.Type != curriculum.MultipleChoice || i < 0 || i >= len(q.Options) {
		return fmt.Errorf("question %d option %d: %w", s.index, i, ErrInvalidAnswer)
	}
	s.answers[s.index] = &Answer{Choice: i}
	return nil
}

// AnswerText records text for the current free text question. An empty
// string is still an answer.
func (s *Session) AnswerText(text string) error {
	q, err := s.answerable()
	if err != nil {
		return err
	}
	if q.Type != curriculum.FreeText {
		return fmt.Errorf("question %d: %w", s.index, ErrInvalidAnswer)
	}
	s.answers[s.index] = &Answer{Text: text}
	return nil
}

func (s *Session) answerable() (curriculum.QuizQuestion, error) {
	if s.phase != PhaseActive {
		return curriculum.QuizQuestion{}, ErrReadOnly
	}
	q, ok := s.Current()
	if !ok {
		return q, ErrInvalidAnswer
	}
	return q, nil
}

// Next moves forward. Past the last question it never advances: in the
// active phase it asks for submit confirmation, in review it returns to
// results.
func (s *Session) Next() Step {
	switch s.phase {
	case PhaseActive, PhaseReview:
	default:
		return StepNone
	}
	if s.index < len(s.questions)-1 {
		s.index++
		return StepAdvanced
	}
	if s.phase == PhaseActive {
		return StepConfirmSubmit
	}
	s.phase = PhaseResults
	return StepResults
}

// Previous moves back one question. It reports whether the index changed.
func (s *Session) Previous() bool {
	if s.phase == PhaseResults || s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Submit scores the session and shows results.
func (s *Session) Submit() error {
	if s.phase != PhaseActive {
		return fmt.Errorf("submit from %s: %w", s.phase, ErrWrongPhase)
	}
	s.score = 0
	for i := range s.questions {
		if s.correct(i) {
			s.score++
		}
	}
	s.phase = PhaseResults
	return nil
}

// Review starts the read-only walkthrough at question 0.
func (s *Session) Review() error {
	if s.phase != PhaseResults {
		return fmt.Errorf("review from %s: %w", s.phase, ErrWrongPhase)
	}
	s.phase = PhaseReview
	s.index = 0
	return nil
}

// ShowResults leaves review for the results summary.
func (s *Session) ShowResults() error {
	if s.phase != PhaseReview {
		return fmt.Errorf("results from %s: %w", s.phase, ErrWrongPhase)
	}
	s.phase = PhaseResults
	return nil
}

// Percent is round(score/total*100).
func (s *Session) Percent() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.score) / float64(len(s.questions)) * 100))
}

// Feedback is the per-question correctness shown after submission.
type Feedback struct {
	Correct   bool
	Answered  bool
	Reference string
}

// Feedback returns correctness for question i. It is unavailable while
// the session is still active.
func (s *Session) Feedback(i int) (Feedback, bool) {
	if s.phase == PhaseActive || i < 0 || i >= len(s.questions) {
		return Feedback{}, false
	}
	return Feedback{
		Correct:   s.correct(i),
		Answered:  s.answers[i] != nil,
		Reference: s.questions[i].ReferenceAnswer(),
	}, true
}

func (s *Session) correct(i int) bool {
	a := s.answers[i]
	if a == nil {
		return false
	}
	q := s.questions[i]
	switch q.Type {
	case curriculum.MultipleChoice:
		return a.Choice == q.AnswerIndex
	case curriculum.FreeText:
		return Equal(a.Text, q.AnswerText)
	}
	return false
}

// Band groups a percentage into a results message.
type Band int

const (
	BandKeepGoing Band = iota
	BandGood
	BandPerfect
)

// Band returns the results band for the current percentage.
func (s *Session) Band() Band { return BandFor(s.Percent()) }

// BandFor maps a percentage to its band.
func BandFor(percent int) Band {
	switch {
	case percent >= 100:
		return BandPerfect
	case percent >= 70:
		return BandGood
	default:
		return BandKeepGoing
	}
}

func (b Band) Title() string {
	switch b {
	case BandPerfect:
		return "完美！恭喜你全部答對！"
	case BandGood:
		return "表現得很好！"
	default:
		return "再接再厲！"
	}
}

// Summary is the body text under the title; correct is the raw score.
func (b Band) Summary(correct int) string {
	switch b {
	case BandPerfect:
		return "你對 HTML 與 CSS 的基礎觀念非常紮實。"
	case BandGood:
		return fmt.Sprintf("你答對了 %d 題，離精通只有一步之遙。", correct)
	default:
		return "別氣餒，複習一下錯誤的題目，你會變得更強。"
	}
}
