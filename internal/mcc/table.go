package mcc

import (
	"fmt"
	"sort"
	"strings"
)

// CodeWidth is the fixed width of a merchant category code.
const CodeWidth = 4

// RiskTier classifies how much scrutiny a category requires before a
// merchant can be boarded under it.
type RiskTier string

const (
	RiskApproved    RiskTier = "approved"
	RiskRestricted  RiskTier = "restricted"
	RiskPreReview   RiskTier = "pre-review"
	RiskPreApproval RiskTier = "pre-approval"
	RiskProhibited  RiskTier = "prohibited"
)

// Entry is a single merchant category code with its canonical description
// and risk tier.
type Entry struct {
	Code        string
	Description string
	Risk        RiskTier
}

// Table is an immutable registry of category codes. Build one with Load;
// do not mutate it afterwards. Each strategy owns its own Table instance.
type Table struct {
	entries map[string]Entry
	codes   []string // sorted, for deterministic iteration
}

// NewTable builds a Table from the given entries. Codes are normalized to
// CodeWidth digits; entries without a risk tier default to approved.
// Duplicate codes keep the last entry.
func NewTable(entries []Entry) *Table {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		e.Code = NormalizeCode(e.Code)
		if e.Code == "" {
			continue
		}
		if e.Risk == "" {
			e.Risk = RiskApproved
		}
		m[e.Code] = e
	}
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return &Table{entries: m, codes: codes}
}

// Lookup returns the entry for code, normalizing it first.
func (t *Table) Lookup(code string) (Entry, bool) {
	e, ok := t.entries[NormalizeCode(code)]
	return e, ok
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.entries) }

// Codes returns the sorted list of codes. The caller must not modify it.
func (t *Table) Codes() []string { return t.codes }

// Entries returns all entries in code order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.codes))
	for _, c := range t.codes {
		out = append(out, t.entries[c])
	}
	return out
}

// ApprovedCSV renders the approved-only subset as a CSV block for prompt
// embedding. Catch-all codes stay in: the model is told to avoid them,
// removing them entirely just pushes it to invent codes.
func (t *Table) ApprovedCSV() string {
	var b strings.Builder
	b.WriteString("mcc,description\n")
	for _, c := range t.codes {
		e := t.entries[c]
		if e.Risk == RiskApproved {
			fmt.Fprintf(&b, "%s,%s\n", e.Code, e.Description)
		}
	}
	return b.String()
}

// RiskCSV renders the subset carrying a non-approved risk tier, with the
// tier in a third column.
func (t *Table) RiskCSV() string {
	var b strings.Builder
	b.WriteString("mcc,description,classification\n")
	for _, c := range t.codes {
		e := t.entries[c]
		if e.Risk != RiskApproved {
			fmt.Fprintf(&b, "%s,%s,%s\n", e.Code, e.Description, e.Risk)
		}
	}
	return b.String()
}

// FullCSV renders the entire table including risk tiers.
func (t *Table) FullCSV() string {
	var b strings.Builder
	b.WriteString("mcc,description,classification\n")
	for _, c := range t.codes {
		e := t.entries[c]
		fmt.Fprintf(&b, "%s,%s,%s\n", e.Code, e.Description, e.Risk)
	}
	return b.String()
}

// NormalizeCode strips everything but digits and zero-pads to CodeWidth.
// Returns "" when the input contains no digits or more than CodeWidth of them.
func NormalizeCode(s string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" || len(d) > CodeWidth {
		return ""
	}
	return strings.Repeat("0", CodeWidth-len(d)) + d
}
