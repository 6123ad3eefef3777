// Package evaluator runs a batch of labeled merchants through one or more
// classification strategies, scores each strategy's accuracy against the
// ground-truth codes, and renders a side-by-side comparison table.
package evaluator

import (
	"context"

	"github.com/abhisek/mcceval/internal/classify"
	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
)

// Match flag values for one strategy's outcome on one row.
const (
	MatchYes   = "Yes"
	MatchNo    = "No"
	MatchError = "Error"
)

// Metrics accumulates one strategy's score over a run. Failed rows count
// toward neither Correct nor Total, so Accuracy reflects only the rows the
// strategy actually classified.
type Metrics struct {
	Correct int
	Total   int
}

// Accuracy is Correct/Total, or 0 when nothing was classified.
func (m Metrics) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Total)
}

// Cell is one strategy's outcome for one row. A failed classification has
// Code "ERROR", the error text as Description, and Match set to MatchError.
type Cell struct {
	Code        string
	Description string
	Confidence  float64
	Match       string
}

// Row pairs an input record with one Cell per strategy, in the same order
// as Report.Strategies.
type Row struct {
	Record Record
	Cells  []Cell
}

// Report is the outcome of one evaluation run.
type Report struct {
	// Strategies holds the strategy names in evaluation order. This is
	// also the column-group order of the comparison table.
	Strategies []string

	Rows    []Row
	Metrics map[string]Metrics
}

// Evaluate classifies every record with every strategy. Records missing a
// subject name or a ground-truth code are skipped with a warning. A
// per-record strategy failure produces an error cell and moves on; nothing
// short of context cancellation aborts the run.
func Evaluate(ctx context.Context, records []Record, strategies []classify.Strategy) (*Report, error) {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	rep := &Report{
		Strategies: names,
		Metrics:    make(map[string]Metrics, len(strategies)),
	}
	for _, name := range names {
		rep.Metrics[name] = Metrics{}
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rec.incomplete() {
			logging.Logger.Warnw("skipping row with missing data",
				"merchant", rec.SubjectName,
				"true_code", rec.TrueCode)
			continue
		}

		row := Row{Record: rec, Cells: make([]Cell, 0, len(strategies))}
		truth := mcc.NormalizeCode(rec.TrueCode)
		for _, s := range strategies {
			row.Cells = append(row.Cells, evaluateOne(ctx, s, rec, truth, rep.Metrics))
		}
		rep.Rows = append(rep.Rows, row)
	}

	for _, name := range names {
		m := rep.Metrics[name]
		logging.Logger.Infow("strategy evaluated",
			"strategy", name,
			"correct", m.Correct,
			"total", m.Total,
			"accuracy", m.Accuracy())
	}
	return rep, nil
}

func evaluateOne(ctx context.Context, s classify.Strategy, rec Record, truth string, metrics map[string]Metrics) Cell {
	d, err := s.Classify(ctx, rec.Query())
	if err != nil {
		logging.Logger.Errorw("classification failed",
			"strategy", s.Name(),
			"merchant", rec.SubjectName,
			"error", err)
		return Cell{Code: "ERROR", Description: err.Error(), Match: MatchError}
	}

	cell := Cell{
		Code:        d.Code,
		Description: d.Description,
		Confidence:  d.Confidence,
		Match:       MatchNo,
	}
	m := metrics[s.Name()]
	m.Total++
	if mcc.NormalizeCode(d.Code) == truth {
		m.Correct++
		cell.Match = MatchYes
	}
	metrics[s.Name()] = m
	return cell
}
