package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/mcceval/internal/llm"
)

func TestNarrativeParsesSectionedReply(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.QueueResponse(`1. Analysis:
The name "Bella Hair Studio" directly indicates hair styling services.

2. Industry Classification:
Personal Services

3. Primary MCC: 7230

4. MCC Description: Barber and Beauty Shops

5. Reasoning:
"Hair Studio" is a direct identifier for a beauty shop.

6. Confidence: High (92% confident)

7. Alternative MCCs:
7298 - Health and Beauty Spas
If the studio offers broader spa services.
5999 - Miscellaneous Retail
If product sales dominate.`)

	s := NewNarrative(testDeps(mock))
	d, err := s.Classify(context.Background(), Query{SubjectName: "Bella Hair Studio"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "7230" {
		t.Errorf("code = %q, want 7230", d.Code)
	}
	if d.Confidence != 0.92 {
		t.Errorf("confidence = %v, want 0.92", d.Confidence)
	}
	if d.Description != "Barber and Beauty Shops" {
		t.Errorf("description = %q", d.Description)
	}
	if len(d.Alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(d.Alternatives))
	}
	checkInvariants(t, d)
}

func TestNarrativeGarbledReplyDegrades(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.QueueResponse("I am sorry, I cannot help with that request.")

	s := NewNarrative(testDeps(mock))
	d, err := s.Classify(context.Background(), Query{SubjectName: "Mystery Ventures"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "7299" {
		t.Errorf("code = %q, want parser fallback 7299", d.Code)
	}
	checkInvariants(t, d)
}

func TestNarrativeServiceErrorUsesPatterns(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.QueueError(&llm.ErrProviderUnavailable{Err: errors.New("down")})

	s := NewNarrative(testDeps(mock))
	d, err := s.Classify(context.Background(), Query{SubjectName: "Sunset Auto Repair"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "7538" {
		t.Errorf("code = %q, want pattern match 7538", d.Code)
	}
	checkInvariants(t, d)
}

func TestNarrativePatternFallbackPriorWins(t *testing.T) {
	s := NewNarrative(testDeps(nil))
	d, err := s.Classify(context.Background(), Query{
		SubjectName: "Zxqy Holdings",
		PriorCode:   "5942",
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "5942" {
		t.Errorf("code = %q, want prior code reused", d.Code)
	}
	checkInvariants(t, d)
}

func TestNarrativePatternFallbackPersonNameDefault(t *testing.T) {
	s := NewNarrative(testDeps(nil))
	d, err := s.Classify(context.Background(), Query{SubjectName: "Johnson Ventures"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Code != "7299" {
		t.Errorf("code = %q, want 7299 for service-like name", d.Code)
	}
	d2, err := s.Classify(context.Background(), Query{SubjectName: "Zxqy"})
	if err != nil {
		t.Fatal(err)
	}
	if d2.Code != "5999" {
		t.Errorf("code = %q, want 5999 retail default for single token", d2.Code)
	}
}
