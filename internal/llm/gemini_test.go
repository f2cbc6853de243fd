package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema_Converts(t *testing.T) {
	s := geminiSchema(verdictSchema.Definition)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected object, got %q", s.Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %v", s.Required)
	}
	verdict := s.Properties["verdict"]
	if verdict == nil || verdict.Type != genai.TypeString {
		t.Fatalf("verdict property not converted: %+v", verdict)
	}
	if len(verdict.Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %v", verdict.Enum)
	}
}

func TestGeminiSchema_DecodedJSONLists(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"required": []any{"a"},
	})
	if s.Type != genai.TypeArray || s.Items == nil || s.Items.Type != genai.TypeString {
		t.Fatalf("array schema not converted: %+v", s)
	}
	if len(s.Required) != 1 || s.Required[0] != "a" {
		t.Fatalf("expected required [a], got %v", s.Required)
	}
}
