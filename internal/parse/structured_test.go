package parse

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/mcceval/internal/mcc"
)

func TestStructuredFieldCopy(t *testing.T) {
	raw := json.RawMessage(`{
		"suggested_mcc": "5411",
		"mcc_suggestion_description": "Grocery Stores and Supermarkets",
		"analysis": ["Name contains the word Grocery.", "Strong retail food signal."],
		"confidence": 0.92,
		"requires_full_search": false,
		"is_non_descriptive": false,
		"may_be_high_risk": false,
		"suspicious_classification": true
	}`)

	res := Structured(raw, testTable())
	if res.Code != "5411" {
		t.Errorf("code = %q, want 5411", res.Code)
	}
	if res.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", res.Confidence)
	}
	if !res.SuspiciousPriorCode {
		t.Error("suspicious flag not carried over")
	}
	if res.Rationale != "Name contains the word Grocery. Strong retail food signal." {
		t.Errorf("rationale = %q", res.Rationale)
	}
	if res.Industry == "" {
		t.Error("industry not derived from code")
	}
}

func TestStructuredCoercion(t *testing.T) {
	raw := json.RawMessage(`{
		"suggested_mcc": "411",
		"confidence": 1.7
	}`)

	res := Structured(raw, testTable())
	if res.Code != "0411" {
		t.Errorf("code = %q, want zero-padded 0411", res.Code)
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped to 1.0", res.Confidence)
	}
}

func TestStructuredRiskLevelFromTable(t *testing.T) {
	raw := json.RawMessage(`{
		"suggested_mcc": "7995",
		"confidence": 0.8
	}`)

	res := Structured(raw, testTable())
	if res.RiskLevel != mcc.RiskProhibited {
		t.Errorf("risk = %q, want prohibited from table", res.RiskLevel)
	}
	if res.Description != "Gambling Establishments" {
		t.Errorf("description = %q, want canonical", res.Description)
	}
}

func TestStructuredMalformedDegrades(t *testing.T) {
	for _, raw := range []string{`not json`, `{"suggested_mcc": ""}`, `{}`} {
		res := Structured(json.RawMessage(raw), testTable())
		if res.Code != FallbackCode {
			t.Errorf("%q: code = %q, want fallback", raw, res.Code)
		}
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("%q: confidence %v out of range", raw, res.Confidence)
		}
	}
}

func TestStructuredNegativeConfidenceClamped(t *testing.T) {
	raw := json.RawMessage(`{"suggested_mcc": "5812", "confidence": -0.3}`)
	res := Structured(raw, nil)
	if res.Confidence != 0 {
		t.Errorf("confidence = %v, want clamped to 0", res.Confidence)
	}
}
