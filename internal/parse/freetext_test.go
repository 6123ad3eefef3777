package parse

import (
	"strings"
	"testing"

	"github.com/abhisek/mcceval/internal/mcc"
)

func testTable() *mcc.Table {
	return mcc.NewTable([]mcc.Entry{
		{Code: "5411", Description: "Grocery Stores and Supermarkets"},
		{Code: "5812", Description: "Eating Places and Restaurants"},
		{Code: "5814", Description: "Fast Food Restaurants"},
		{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores"},
		{Code: "7230", Description: "Barber and Beauty Shops"},
		{Code: "7299", Description: "Miscellaneous Personal Services"},
		{Code: "7995", Description: "Gambling Establishments", Risk: mcc.RiskProhibited},
	})
}

const wellFormedReply = `1. **Analysis**:
The merchant name contains the word "Grill" which strongly suggests a food service establishment.

2. **Industry Classification**:
Restaurants and Food Service

3. **Primary MCC**: 5812

4. **MCC Description**: Eating Places and Restaurants

5. **Reasoning**:
The word "Grill" is a direct business identifier for a restaurant.

6. **Confidence**: High (90% confident)

7. **Alternative MCCs**:
5814 - Fast Food Restaurants
Could apply if the establishment is counter-service only.
5999 - Miscellaneous and Specialty Retail Stores
Unlikely but possible if food is secondary.
`

func TestFreeTextWellFormed(t *testing.T) {
	res := FreeText(wellFormedReply, testTable())

	if res.Code != "5812" {
		t.Errorf("code = %q, want 5812", res.Code)
	}
	if res.Description != "Eating Places and Restaurants" {
		t.Errorf("description = %q", res.Description)
	}
	if res.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9 (percentage over qualitative word)", res.Confidence)
	}
	if len(res.Alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(res.Alternatives))
	}
	if res.Alternatives[0].Code != "5814" {
		t.Errorf("first alternative = %q, want 5814", res.Alternatives[0].Code)
	}
	if res.Alternatives[1].Code != "5999" {
		t.Errorf("second alternative = %q, want 5999", res.Alternatives[1].Code)
	}
	if !strings.Contains(res.Alternatives[0].Rationale, "counter-service") {
		t.Errorf("alternative rationale not captured: %q", res.Alternatives[0].Rationale)
	}
	if !strings.Contains(res.Rationale, "direct business identifier") {
		t.Errorf("rationale not captured: %q", res.Rationale)
	}
}

func TestFreeTextConfidenceDecreasingAlternatives(t *testing.T) {
	res := FreeText(wellFormedReply, testTable())
	primary := res.Confidence
	prev := primary
	for i, alt := range res.Alternatives {
		if alt.Confidence >= prev {
			t.Errorf("alternative %d confidence %v not below %v", i, alt.Confidence, prev)
		}
		if alt.Confidence < 0.1 {
			t.Errorf("alternative %d confidence %v below floor", i, alt.Confidence)
		}
		prev = alt.Confidence
	}
}

func TestFreeTextQualitativeConfidenceWords(t *testing.T) {
	cases := []struct {
		line string
		want float64
	}{
		{"Confidence: High", 0.95},
		{"Confidence: Medium", 0.8},
		{"Confidence: Low", 0.6},
		{"Confidence: High (85% confident)", 0.85},
		{"Confidence: 0.72", 0.72},
	}
	for _, tc := range cases {
		text := "Primary MCC: 5812\n" + tc.line + "\n"
		res := FreeText(text, nil)
		if res.Confidence != tc.want {
			t.Errorf("%q: confidence = %v, want %v", tc.line, res.Confidence, tc.want)
		}
	}
}

func TestFreeTextCodeFromReasoning(t *testing.T) {
	text := `Analysis:
The name suggests a barber shop.

Reasoning:
The suggested code: 7230 fits the described services.
`
	res := FreeText(text, testTable())
	if res.Code != "7230" {
		t.Errorf("code = %q, want 7230 extracted from reasoning", res.Code)
	}
}

func TestFreeTextCodeFromAnyLine(t *testing.T) {
	text := "After careful review the most fitting MCC is 5411 based on the name."
	res := FreeText(text, testTable())
	if res.Code != "5411" {
		t.Errorf("code = %q, want 5411", res.Code)
	}
	if res.Description != "Grocery Stores and Supermarkets" {
		t.Errorf("description = %q, want canonical table description", res.Description)
	}
}

func TestFreeTextGarbledNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"complete nonsense with no structure at all",
		"!!!@@@###\n\n\n%%%",
		strings.Repeat("lorem ipsum dolor sit amet ", 50),
		"numbers like 12 and 345 but nothing usable here",
	}
	for _, text := range inputs {
		res := FreeText(text, testTable())
		if res.Code != FallbackCode {
			t.Errorf("%.30q: code = %q, want fallback %s", text, res.Code, FallbackCode)
		}
		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("%.30q: confidence %v out of range", text, res.Confidence)
		}
		if len(res.Alternatives) < 2 {
			t.Errorf("%.30q: expected at least two alternatives, got %d", text, len(res.Alternatives))
		}
	}
}

func TestFreeTextGenericAlternativesByLeadingDigit(t *testing.T) {
	cases := []struct {
		code string
		want []string
	}{
		{"5411", []string{"5999", "5499"}},
		{"7230", []string{"7399", "7311"}},
		{"8011", []string{"8999", "8931"}},
		{"4121", []string{"5999", "7299"}},
	}
	for _, tc := range cases {
		text := "Primary MCC: " + tc.code + "\n"
		res := FreeText(text, nil)
		if len(res.Alternatives) != 2 {
			t.Fatalf("%s: alternatives = %d, want 2", tc.code, len(res.Alternatives))
		}
		for i, want := range tc.want {
			if res.Alternatives[i].Code != want {
				t.Errorf("%s: alternative %d = %q, want %q", tc.code, i, res.Alternatives[i].Code, want)
			}
		}
	}
}

func TestFreeTextNoAlternativeEqualsPrimary(t *testing.T) {
	// Primary is itself a generic pool member; the pool must skip it.
	text := "Primary MCC: 7399\n"
	res := FreeText(text, nil)
	for _, alt := range res.Alternatives {
		if alt.Code == res.Code {
			t.Errorf("alternative %q duplicates primary", alt.Code)
		}
	}
}

func TestFreeTextRoundTrip(t *testing.T) {
	table := testTable()
	first := FreeText(wellFormedReply, table)
	second := FreeText(RenderSections(first), table)

	if first.Code != second.Code {
		t.Errorf("code drifted: %q vs %q", first.Code, second.Code)
	}
	if first.Description != second.Description {
		t.Errorf("description drifted: %q vs %q", first.Description, second.Description)
	}
	if first.Confidence != second.Confidence {
		t.Errorf("confidence drifted: %v vs %v", first.Confidence, second.Confidence)
	}
	if len(first.Alternatives) != len(second.Alternatives) {
		t.Fatalf("alternatives drifted: %d vs %d", len(first.Alternatives), len(second.Alternatives))
	}
	for i := range first.Alternatives {
		if first.Alternatives[i].Code != second.Alternatives[i].Code {
			t.Errorf("alternative %d code drifted: %q vs %q", i, first.Alternatives[i].Code, second.Alternatives[i].Code)
		}
		if first.Alternatives[i].Confidence != second.Alternatives[i].Confidence {
			t.Errorf("alternative %d confidence drifted: %v vs %v", i, first.Alternatives[i].Confidence, second.Alternatives[i].Confidence)
		}
	}
}
