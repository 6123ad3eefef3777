package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func classificationSchema() *Schema {
	return &Schema{
		Name:        "test-classification",
		Description: "A merchant category classification",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mcc": map[string]any{
					"type":    "string",
					"pattern": "^[0-9]{4}$",
				},
				"confidence": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 1,
				},
			},
			"required":             []any{"mcc", "confidence"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponseAccepts(t *testing.T) {
	raw := json.RawMessage(`{"mcc": "5411", "confidence": 0.92}`)
	if err := validateResponse(classificationSchema(), raw); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
}

func TestValidateResponseRejectsMissingField(t *testing.T) {
	raw := json.RawMessage(`{"mcc": "5411"}`)
	err := validateResponse(classificationSchema(), raw)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestValidateResponseRejectsBadPattern(t *testing.T) {
	raw := json.RawMessage(`{"mcc": "54", "confidence": 0.9}`)
	if err := validateResponse(classificationSchema(), raw); err == nil {
		t.Fatal("expected validation error for two-digit code")
	}
}

func TestValidateResponseRejectsMalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{"mcc": `)
	err := validateResponse(classificationSchema(), raw)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	raw := json.RawMessage(`anything at all, not even JSON`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidateResponseCachesCompiledSchema(t *testing.T) {
	schema := classificationSchema()
	raw := json.RawMessage(`{"mcc": "5812", "confidence": 0.75}`)
	for i := 0; i < 3; i++ {
		if err := validateResponse(schema, raw); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
	if _, ok := schemaCache.Load(schema.Name); !ok {
		t.Error("expected schema to be cached after validation")
	}
}
