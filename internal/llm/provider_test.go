package llm

import (
	"context"
	"testing"
	"time"
)

func TestMockProviderFIFO(t *testing.T) {
	mock := NewMockProvider()
	mock.QueueResponse(`{"mcc": "5411"}`)
	mock.QueueResponse(`{"mcc": "5812"}`)

	ctx := context.Background()
	first, err := mock.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := mock.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if string(first.Content) != `{"mcc": "5411"}` {
		t.Errorf("first response out of order: %s", first.Content)
	}
	if string(second.Content) != `{"mcc": "5812"}` {
		t.Errorf("second response out of order: %s", second.Content)
	}
}

func TestMockProviderEmptyQueue(t *testing.T) {
	mock := NewMockProvider()
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{}` {
		t.Errorf("expected empty object, got %s", resp.Content)
	}
}

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.Generate(context.Background(), Request{
		System:   "You are an MCC classifier.",
		Messages: []Message{{Role: RoleUser, Content: "Classify: Joe's Coffee"}},
	})
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 recorded call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Messages[0].Content != "Classify: Joe's Coffee" {
		t.Errorf("recorded call content mismatch: %q", mock.Calls[0].Messages[0].Content)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := WithPurpose(context.Background(), "tier-screen")
	if got := PurposeFrom(ctx); got != "tier-screen" {
		t.Errorf("PurposeFrom = %q, want tier-screen", got)
	}
	if got := PurposeFrom(context.Background()); got != "" {
		t.Errorf("PurposeFrom on bare context = %q, want empty", got)
	}
}

type captureLog struct {
	records []RequestRecord
}

func (c *captureLog) AppendRequest(_ context.Context, rec RequestRecord) error {
	c.records = append(c.records, rec)
	return nil
}

func TestRequestLogDecorator(t *testing.T) {
	mock := NewMockProvider()
	mock.QueueResponse(`{"mcc": "5734"}`)

	sink := &captureLog{}
	p := WithRequestLog(mock, sink)

	ctx := WithPurpose(context.Background(), "full-classify")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	rec := sink.records[0]
	if rec.Purpose != "full-classify" {
		t.Errorf("purpose = %q, want full-classify", rec.Purpose)
	}
	if rec.Model != "mock" {
		t.Errorf("model = %q, want mock", rec.Model)
	}
	if time.Since(rec.Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %v", rec.Timestamp)
	}
}

func TestEstimateCost(t *testing.T) {
	usage := Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	if got := EstimateCost("gpt-4o", usage); got != 12.50 {
		t.Errorf("gpt-4o cost = %v, want 12.50", got)
	}
	if got := EstimateCost("some-unknown-model", usage); got != 0 {
		t.Errorf("unknown model cost = %v, want 0", got)
	}
}
