package classify

import (
	"context"

	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/mcc"
)

// Strategy classifies merchants. Implementations always receive the full
// query and decide internally which fields to use; a strategy never needs
// to be probed for what it supports.
type Strategy interface {
	// Name is the registry name, also used for output column headers.
	Name() string

	// Classify produces a decision for one query. Implementations absorb
	// service and parse failures into their fallback path; an error return
	// is reserved for conditions the strategy genuinely cannot recover
	// from, and the harness records it as a failed row.
	Classify(ctx context.Context, q Query) (Decision, error)
}

// Deps carries what a strategy needs at construction. Each strategy owns
// its dependencies exclusively; nothing here is shared between instances.
type Deps struct {
	// Table is the strategy's code table.
	Table *mcc.Table

	// Provider is the text-generation client. A nil provider routes every
	// query to the strategy's fallback classifier.
	Provider llm.Provider
}
