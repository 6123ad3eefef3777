package evaluator

import (
	"strings"

	"github.com/abhisek/mcceval/internal/classify"
)

// Record is one labeled input row: a merchant with its ground-truth
// category code, optional prior classification metadata, and any
// passthrough columns forwarded to strategies verbatim.
type Record struct {
	SubjectName     string
	LegalName       string
	TrueCode        string
	TrueDescription string

	PriorCode        string
	PriorDescription string
	PriorNote        string

	// Extra holds input columns with no recognized meaning, keyed by the
	// original header name.
	Extra map[string]string
}

// Query converts the record into a classification query.
func (r Record) Query() classify.Query {
	return classify.Query{
		SubjectName:      r.SubjectName,
		LegalName:        r.LegalName,
		PriorCode:        r.PriorCode,
		PriorDescription: r.PriorDescription,
		PriorNote:        r.PriorNote,
		Extra:            r.Extra,
	}
}

// incomplete reports whether the record is missing data the harness
// requires. Such rows are skipped with a warning and contribute to no
// strategy's counters.
func (r Record) incomplete() bool {
	return strings.TrimSpace(r.SubjectName) == "" || strings.TrimSpace(r.TrueCode) == ""
}
