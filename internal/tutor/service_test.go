package tutor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/abhisek/synapse/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExplanation = `{"explanation":"<a> 標籤用 href 屬性指定連結目標。","tip":"href = hyperlink reference"}`

func wrongAnswer() Input {
	return Input{
		QuestionIndex: 2,
		Topic:         "HTML",
		Prompt:        "哪個屬性用來指定連結的網址？",
		Options:       []string{"src", "href", "link"},
		UserAnswer:    "src",
		Reference:     "href",
	}
}

func waitConsume(t *testing.T, s *Service) (*Explanation, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if exp, err, done := s.ConsumeExplanation(); done {
			return exp, err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("explanation never finished")
	return nil, nil
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validExplanation)})
	s := NewService(mock, DefaultConfig(), nil)

	exp, err := s.Explain(context.Background(), wrongAnswer())
	require.NoError(t, err)
	assert.Equal(t, 2, exp.QuestionIndex)
	assert.Contains(t, exp.Text, "href")
	assert.NotEmpty(t, exp.Tip)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "answer-explanation", calls[0].Schema.Name)
	msg := calls[0].Messages[0].Content
	assert.Contains(t, msg, "Learner answered: src")
	assert.Contains(t, msg, "Correct answer: href")
	assert.Contains(t, msg, "2. href")
}

func TestRequestAndConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validExplanation)})
	s := NewService(mock, DefaultConfig(), nil)

	_, _, done := s.ConsumeExplanation()
	assert.False(t, done, "nothing requested")

	s.RequestExplanation(context.Background(), wrongAnswer())
	exp, err := waitConsume(t, s)
	require.NoError(t, err)
	require.NotNil(t, exp)

	_, _, done = s.ConsumeExplanation()
	assert.False(t, done, "consume clears the slot")
}

func TestRequestFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	s := NewService(mock, DefaultConfig(), nil)

	s.RequestExplanation(context.Background(), wrongAnswer())
	exp, err := waitConsume(t, s)
	assert.Nil(t, exp)
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestSchemaViolationIsError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"explanation":"x"}`)})
	_, err := NewService(mock, DefaultConfig(), nil).Explain(context.Background(), wrongAnswer())
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestDisabledService(t *testing.T) {
	s := NewService(nil, DefaultConfig(), nil)
	assert.False(t, s.Enabled())
	s.RequestExplanation(context.Background(), wrongAnswer())
	_, _, done := s.ConsumeExplanation()
	assert.False(t, done)
}

func TestPromptWithoutAnswer(t *testing.T) {
	in := wrongAnswer()
	in.UserAnswer = "  "
	in.Options = nil
	msg := buildUserMessage(in)
	assert.Contains(t, msg, "(no answer)")
	assert.NotContains(t, msg, "Options:")
}

type labelRecorder struct {
	purpose, topic string
}

func (r *labelRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	r.purpose, r.topic = llm.PurposeFrom(ctx), llm.TopicFrom(ctx)
	return &llm.Response{Content: json.RawMessage(validExplanation)}, nil
}

func (r *labelRecorder) ModelID() string { return "recorder" }

func TestExplainLabelsRequest(t *testing.T) {
	rec := &labelRecorder{}
	_, err := NewService(rec, DefaultConfig(), nil).Explain(context.Background(), wrongAnswer())
	require.NoError(t, err)
	assert.Equal(t, Purpose, rec.purpose)
	assert.Equal(t, "HTML", rec.topic)
}
