package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/mcceval/internal/evaluator"
	"github.com/abhisek/mcceval/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

func TestRecordRunStoresMetrics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "merchants.csv")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("BeginRun returned empty run ID")
	}

	rep := &evaluator.Report{
		Strategies: []string{"tiered", "baseline"},
		Rows:       make([]evaluator.Row, 8),
		Metrics: map[string]evaluator.Metrics{
			"tiered":   {Correct: 6, Total: 8},
			"baseline": {Correct: 4, Total: 8},
		},
	}
	if err := s.RecordRun(ctx, run, "out.csv", rep); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := s.RunMetrics(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunMetrics: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RunMetrics returned %d strategies, want 2", len(got))
	}
	if got["tiered"] != (evaluator.Metrics{Correct: 6, Total: 8}) {
		t.Errorf("tiered metrics = %+v", got["tiered"])
	}
	if got["baseline"] != (evaluator.Metrics{Correct: 4, Total: 8}) {
		t.Errorf("baseline metrics = %+v", got["baseline"])
	}

	var records int
	var finished string
	err = s.DB().QueryRow(`SELECT records, finished_at FROM runs WHERE id = ?`, run.ID).
		Scan(&records, &finished)
	if err != nil {
		t.Fatalf("query run: %v", err)
	}
	if records != 8 {
		t.Errorf("records = %d, want 8", records)
	}
	if finished == "" {
		t.Error("finished_at not set")
	}
}

func TestRequestLogPersists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "merchants.csv")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	sink := s.RequestLog(run.ID)
	rec := llm.RequestRecord{
		Timestamp:    time.Now(),
		Purpose:      "tier-screen",
		Model:        "gpt-4o",
		InputTokens:  812,
		OutputTokens: 145,
		DurationMS:   1200,
		CostUSD:      0.0035,
	}
	if err := sink.AppendRequest(ctx, rec); err != nil {
		t.Fatalf("AppendRequest: %v", err)
	}
	if err := sink.AppendRequest(ctx, llm.RequestRecord{
		Timestamp: time.Now(),
		Purpose:   "tier-screen",
		Model:     "gpt-4o",
		Err:       "rate limited",
	}); err != nil {
		t.Fatalf("AppendRequest: %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM requests WHERE run_id = ?`, run.ID).Scan(&count); err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 2 {
		t.Fatalf("requests = %d, want 2", count)
	}

	var purpose, model string
	var inputTokens int
	err = s.DB().QueryRow(
		`SELECT purpose, model, input_tokens FROM requests WHERE run_id = ? AND error = ''`, run.ID).
		Scan(&purpose, &model, &inputTokens)
	if err != nil {
		t.Fatalf("query request: %v", err)
	}
	if purpose != "tier-screen" || model != "gpt-4o" || inputTokens != 812 {
		t.Errorf("stored request = (%q, %q, %d)", purpose, model, inputTokens)
	}
}
