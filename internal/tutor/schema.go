package tutor

import "github.com/abhisek/synapse/internal/llm"

// ExplanationSchema is the structured output of an explanation request.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Why the reference answer to a web basics quiz question is correct",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences explaining the correct answer and the learner's mistake",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short memory aid",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}
