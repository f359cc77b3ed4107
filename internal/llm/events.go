package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/store"
)

// eventProvider records every request in the event store and the log.
type eventProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logger.Logger
}

// WithEvents wraps p so each call is appended to repo as an LLM event.
// A nil repo only logs.
func WithEvents(p Provider, providerName string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.NewNop()
	}
	return &eventProvider{inner: p, provider: providerName, repo: repo, log: log.With("component", "llm")}
}

func (e *eventProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := e.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    e.provider,
		Model:       e.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		Topic:       TopicFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		e.log.Warn("llm request failed", "purpose", data.Purpose, "topic", data.Topic, "model", data.Model, "error", err)
	} else {
		e.log.Debug("llm request", "purpose", data.Purpose, "model", data.Model,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens, "latency_ms", data.LatencyMs)
	}

	if e.repo != nil {
		if logErr := e.repo.AppendLLMRequest(ctx, data); logErr != nil {
			e.log.Warn("record llm event", "error", logErr)
		}
	}
	return resp, err
}

func (e *eventProvider) ModelID() string { return e.inner.ModelID() }

// describeRequest renders a request for the event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
