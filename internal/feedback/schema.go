package feedback

import "github.com/abhisek/iqro/internal/llm"

// Schema is the structured verdict requested from the model.
var Schema = &llm.Schema{
	Name:        "pronunciation-feedback",
	Description: "A verdict on how closely a learner's reading matched the expected sound",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "How close the reading was, 100 being exact",
			},
			"verdict": map[string]any{
				"type":        "string",
				"enum":        []any{"correct", "close", "incorrect"},
				"description": "correct: acceptable reading; close: right letter, wrong vowel or length; incorrect: different sound",
			},
			"tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "At most 3 short, encouraging tips for a child. Empty when correct.",
			},
		},
		"required":             []any{"score", "verdict", "tips"},
		"additionalProperties": false,
	},
}
