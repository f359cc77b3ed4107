package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Purpose string // LLM events only
	Kind    string // activity events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider string
	Model    string
	Purpose  string
	// Topic is the quiz topic an explanation was requested for.
	Topic        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one topic or model.
type LLMUsage struct {
	Topic        string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Activity kinds.
const (
	ActivityLessonPass = "lesson_pass"
	ActivityQuizResult = "quiz_result"
)

// ActivityEventData records learner activity worth showing in history.
// Lesson fields are set for ActivityLessonPass, quiz fields for
// ActivityQuizResult.
type ActivityEventData struct {
	Kind string

	UnitKey     string
	LessonIndex int
	Forced      bool

	SessionID string
	Score     int
	Total     int
	Percent   int
}

// ActivityEvent is a stored activity event.
type ActivityEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ActivityEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	// GetLLMEvent returns the event with id, or nil when it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByTopic(ctx context.Context, purpose string) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendActivity records a lesson pass or quiz result.
	AppendActivity(ctx context.Context, data ActivityEventData) error
	// QueryActivity returns activity events newest first.
	QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEvent, error)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
