package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var verdictSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":   map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"verdict": map[string]any{"type": "string", "enum": []string{"correct", "close", "incorrect"}},
		},
		"required":             []string{"score", "verdict"},
		"additionalProperties": false,
	},
}

func TestValidate_Accepts(t *testing.T) {
	if err := validateResponse(verdictSchema, json.RawMessage(`{"score":90,"verdict":"correct"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `score: 90`,
		"missing field": `{"score":90}`,
		"bad enum":      `{"score":90,"verdict":"great"}`,
		"out of range":  `{"score":190,"verdict":"correct"}`,
		"extra field":   `{"score":90,"verdict":"correct","x":1}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			err := validateResponse(verdictSchema, json.RawMessage(raw))
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFinish_TruncatedStructuredOutput(t *testing.T) {
	_, err := finish(Request{Schema: verdictSchema}, json.RawMessage(`{"score":`), "m", "max_tokens", Usage{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestFinish_FillsTotalTokens(t *testing.T) {
	resp, err := finish(Request{}, json.RawMessage(`hi`), "m", "end", Usage{InputTokens: 3, OutputTokens: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 7 {
		t.Fatalf("expected 7 total tokens, got %d", resp.Usage.TotalTokens)
	}
}
