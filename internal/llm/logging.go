package llm

import (
	"context"
	"time"

	"github.com/abhisek/mcceval/internal/logging"
)

// RequestLog receives a record of every completed provider call. The run
// store implements this to persist request history per evaluation run.
type RequestLog interface {
	AppendRequest(ctx context.Context, rec RequestRecord) error
}

// RequestRecord describes one provider round trip.
type RequestRecord struct {
	Timestamp    time.Time
	Purpose      string
	Model        string
	InputTokens  int
	OutputTokens int
	DurationMS   int64
	CostUSD      float64
	Err          string
}

// loggingProvider decorates a Provider with structured logging and an
// optional RequestLog sink.
type loggingProvider struct {
	inner Provider
	log   RequestLog
}

// WithRequestLog wraps a provider so every call is logged and, when log is
// non-nil, recorded.
func WithRequestLog(p Provider, log RequestLog) Provider {
	return &loggingProvider{inner: p, log: log}
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	rec := RequestRecord{
		Timestamp:  start,
		Purpose:    purpose,
		Model:      l.inner.ModelID(),
		DurationMS: elapsed.Milliseconds(),
	}

	if err != nil {
		rec.Err = err.Error()
		logging.Logger.Warnw("provider request failed",
			"purpose", purpose,
			"model", rec.Model,
			"duration", elapsed,
			"error", err,
		)
	} else {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.CostUSD = EstimateCost(resp.Model, resp.Usage)
		logging.Logger.Debugw("provider request complete",
			"purpose", purpose,
			"model", resp.Model,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"duration", elapsed,
			"cost_usd", rec.CostUSD,
		)
	}

	if l.log != nil {
		if logErr := l.log.AppendRequest(ctx, rec); logErr != nil {
			logging.Logger.Warnw("failed to record request", "error", logErr)
		}
	}

	return resp, err
}
