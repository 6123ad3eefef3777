package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mcceval/internal/evaluator"
	"github.com/abhisek/mcceval/internal/llm"
)

// Run is one evaluation run tracked in the store.
type Run struct {
	ID        string
	StartedAt time.Time
	InputPath string
}

// BeginRun registers a new run and returns it. The run's request log can be
// attached to a provider immediately; metrics land later via RecordRun.
func (s *Store) BeginRun(ctx context.Context, inputPath string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		InputPath: inputPath,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input_path) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.InputPath)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordRun marks a run finished and stores its per-strategy metrics and
// output location.
func (s *Store) RecordRun(ctx context.Context, run *Run, outputPath string, rep *evaluator.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, output_path = ?, records = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), outputPath, len(rep.Rows), run.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	for _, name := range rep.Strategies {
		m := rep.Metrics[name]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, strategy, correct, total, accuracy) VALUES (?, ?, ?, ?, ?)`,
			run.ID, name, m.Correct, m.Total, m.Accuracy())
		if err != nil {
			return fmt.Errorf("insert metrics for %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RunMetrics reads back the stored per-strategy scores for a run.
func (s *Store) RunMetrics(ctx context.Context, runID string) (map[string]evaluator.Metrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT strategy, correct, total FROM run_metrics WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	out := make(map[string]evaluator.Metrics)
	for rows.Next() {
		var name string
		var m evaluator.Metrics
		if err := rows.Scan(&name, &m.Correct, &m.Total); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		out[name] = m
	}
	return out, rows.Err()
}

// RequestLog returns a sink that persists provider requests under the
// given run. It satisfies llm.RequestLog.
func (s *Store) RequestLog(runID string) llm.RequestLog {
	return &runLog{db: s.db, runID: runID}
}

type runLog struct {
	db    *sql.DB
	runID string
}

func (l *runLog) AppendRequest(ctx context.Context, rec llm.RequestRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO requests (run_id, ts, purpose, model, input_tokens, output_tokens, duration_ms, cost_usd, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.runID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.Purpose, rec.Model,
		rec.InputTokens, rec.OutputTokens, rec.DurationMS, rec.CostUSD, rec.Err)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}
