package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/synapse/internal/store"
)

func TestPrintTopicUsage(t *testing.T) {
	var buf bytes.Buffer
	printTopicUsage(&buf, []store.LLMUsage{
		{Topic: "CSS", Calls: 3, Failures: 1, InputTokens: 300, OutputTokens: 60, AvgLatencyMs: 120},
		{Topic: "HTML", Calls: 2, InputTokens: 200, OutputTokens: 40, AvgLatencyMs: 80},
		{Topic: "", Calls: 1, InputTokens: 10, OutputTokens: 5},
	})
	out := buf.String()

	assert.Contains(t, out, "Explanations by Topic")
	assert.Contains(t, out, "CSS")
	assert.Contains(t, out, "HTML")

	var total string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "TOTAL") {
			total = line
		}
	}
	assert.Equal(t, []string{"TOTAL", "6", "1", "510", "105"}, strings.Fields(total))
}

func TestPrintModelCostPartialTotal(t *testing.T) {
	var buf bytes.Buffer
	printModelCost(&buf, []store.LLMUsage{
		{Model: "claude-haiku-4-5", Calls: 2, InputTokens: 1_000_000, OutputTokens: 0},
		{Model: "home-made-model", Calls: 1, InputTokens: 50, OutputTokens: 50},
	})
	out := buf.String()

	assert.Contains(t, out, "$1.00")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: home-made-model")
}

func TestPrintLLMEvents(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvents(&buf, nil)
	assert.Contains(t, buf.String(), "沒有符合的解說紀錄")

	buf.Reset()
	printLLMEvents(&buf, []store.LLMEvent{{
		ID:        7,
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Model: "claude-haiku-4-5", Topic: "CSS", InputTokens: 12, OutputTokens: 34, Success: false,
		},
	}})
	out := buf.String()
	assert.Contains(t, out, "Topic")
	assert.Contains(t, out, "CSS")
	assert.Contains(t, out, "12/34")
	assert.Contains(t, out, "✗")
}

func TestPrintLLMEvent(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvent(&buf, &store.LLMEvent{
		ID: 3,
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "anthropic", Model: "claude-haiku-4-5", Topic: "HTML",
			RequestBody: "why is <p> a block?\n",
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Topic:     HTML")
	assert.Contains(t, out, "why is <p> a block?")
	assert.Contains(t, out, "(not captured)")
	assert.NotContains(t, out, "Error:")
}

func TestTopicLabel(t *testing.T) {
	assert.Equal(t, "-", topicLabel(""))
	assert.Equal(t, "CSS", topicLabel("CSS"))
}
