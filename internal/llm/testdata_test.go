package llm

func explanationSchema() *Schema {
	return &Schema{
		Name:        "test-explanation",
		Description: "Why an answer is right",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explanation": map[string]any{"type": "string", "minLength": 1},
				"tip":         map[string]any{"type": "string"},
				"confidence":  map[string]any{"type": "string", "enum": []any{"low", "high"}},
				"lines":       map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
			},
			"required":             []any{"explanation"},
			"additionalProperties": false,
		},
	}
}

const explanationJSON = `{"explanation":"background-color sets the fill of the box.","tip":"Use a named color."}`
