// Package classify implements the merchant classification strategies. Each
// strategy takes a query describing one merchant and produces a decision
// with a category code, confidence and alternatives. Strategies degrade to
// a deterministic fallback path whenever the text-generation service is
// unavailable or misbehaves; a query always yields a complete decision.
package classify

import (
	"github.com/abhisek/mcceval/internal/mcc"
	"github.com/abhisek/mcceval/internal/parse"
)

// Query describes one merchant to classify.
type Query struct {
	// SubjectName is the trade name. Empty or whitespace-only names yield
	// the strategy's fixed default decision without any service call.
	SubjectName string

	// LegalName is the owner's or registered legal name, when known.
	LegalName string

	// Prior classification metadata, when the merchant was classified
	// before. PriorCode drives the non-descriptive-name override and the
	// ChangedFromPrior flag on the decision.
	PriorCode        string
	PriorDescription string
	PriorNote        string

	// Extra carries passthrough columns from the input row.
	Extra map[string]string
}

// Alternative is a secondary classification candidate.
type Alternative = parse.Alternative

// Decision is the outcome of classifying one query.
type Decision struct {
	Code         string
	Description  string
	Confidence   float64
	Alternatives []Alternative
	Rationale    string
	Industry     string

	// Risk is the matched code's risk tier, when known.
	Risk mcc.RiskTier

	// Suspicious reports that the prior classification appears unrelated
	// to the subject name.
	Suspicious bool

	// ChangedFromPrior is true when Code differs from the query's
	// PriorCode, compared as normalized strings.
	ChangedFromPrior bool
}

// finalize applies the invariants every decision must satisfy: clamped
// confidence, no alternative duplicating the primary code, derived
// ChangedFromPrior, risk tier and industry enrichment from the table.
func (d *Decision) finalize(q Query, table *mcc.Table) {
	d.Confidence = parse.Clamp(d.Confidence)

	kept := d.Alternatives[:0]
	for _, alt := range d.Alternatives {
		if alt.Code != d.Code {
			alt.Confidence = parse.Clamp(alt.Confidence)
			kept = append(kept, alt)
		}
	}
	d.Alternatives = kept

	prior := mcc.NormalizeCode(q.PriorCode)
	d.ChangedFromPrior = prior != "" && d.Code != prior

	if table != nil {
		if e, ok := table.Lookup(d.Code); ok {
			if d.Description == "" {
				d.Description = e.Description
			}
			if d.Risk == "" {
				d.Risk = e.Risk
			}
		}
	}
	if d.Industry == "" {
		d.Industry = mcc.Industry(d.Code)
	}
}
