package llm

import "context"

type (
	purposeKey struct{}
	topicKey   struct{}
)

// WithPurpose labels requests made with ctx, e.g. "explain", for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}

// WithTopic labels requests made with ctx with the quiz topic they concern.
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, topicKey{}, topic)
}

func TopicFrom(ctx context.Context) string {
	v, _ := ctx.Value(topicKey{}).(string)
	return v
}
