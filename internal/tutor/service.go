// Package tutor asks a language model to explain quiz answers. It is
// optional: without a provider nothing is requested.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/synapse/internal/llm"
	"github.com/abhisek/synapse/internal/logger"
)

// Purpose labels explanation requests in the LLM event log.
const Purpose = "explain"

// Service generates explanations asynchronously. A newer request makes the
// result of an older one unobservable.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger

	mu      sync.Mutex
	seq     int
	ready   bool
	pending *Explanation
	err     error
}

// NewService returns nil when provider is nil; a nil Service is disabled.
func NewService(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	if provider == nil {
		return nil
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log.With("component", "tutor")}
}

// Enabled reports whether explanations can be requested.
func (s *Service) Enabled() bool { return s != nil }

// RequestExplanation starts generation in the background.
func (s *Service) RequestExplanation(ctx context.Context, in Input) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.ready, s.pending, s.err = false, nil, nil
	s.mu.Unlock()

	go func() {
		exp, err := s.Explain(ctx, in)
		if err != nil {
			s.log.Warn("explanation failed", "question", in.QuestionIndex, "error", err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending, s.err, s.ready = exp, err, true
	}()
}

// ConsumeExplanation returns the finished result of the latest request and
// clears it. done is false while generation is running or nothing was
// requested.
func (s *Service) ConsumeExplanation() (exp *Explanation, err error, done bool) {
	if s == nil {
		return nil, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, nil, false
	}
	exp, err = s.pending, s.err
	s.pending, s.err, s.ready = nil, nil, false
	return exp, err, true
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explain generates an explanation synchronously.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	ctx = llm.WithTopic(llm.WithPurpose(ctx, Purpose), in.Topic)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &Explanation{QuestionIndex: in.QuestionIndex, Text: out.Explanation, Tip: out.Tip}, nil
}
