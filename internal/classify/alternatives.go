package classify

import (
	"sort"
	"strings"

	"github.com/abhisek/mcceval/internal/mcc"
)

// Generic candidates appended when keyword scoring finds fewer than two
// alternatives. Broad categories spanning food service, retail and B2B.
var genericAlternatives = []mcc.Entry{
	{Code: "5812", Description: "Eating Places and Restaurants"},
	{Code: "5399", Description: "Miscellaneous General Merchandise"},
	{Code: "7399", Description: "Business Services, Not Elsewhere Classified"},
}

// KeywordAlternatives produces up to two secondary candidates for a
// decision by keyword-scoring the table against the subject name, never
// including the primary code. Runs on every decision, service-backed or
// not, so alternatives are always populated.
func KeywordAlternatives(primary, name string, table *mcc.Table) []Alternative {
	name = strings.ToLower(name)

	type candidate struct {
		entry mcc.Entry
		score int
	}
	var candidates []candidate

	for _, e := range table.Entries() {
		if e.Code == primary {
			continue
		}
		if s := keywordScore(name, e.Description); s > 0 {
			candidates = append(candidates, candidate{e, s})
		}
	}

	if len(candidates) < 2 {
		for _, g := range genericAlternatives {
			if g.Code != primary {
				if e, ok := table.Lookup(g.Code); ok {
					g = e
				}
				candidates = append(candidates, candidate{g, 0})
			}
		}
	}

	// Stable sort keeps code order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]Alternative, 0, 2)
	seen := map[string]bool{}
	for _, c := range candidates {
		if len(out) == 2 {
			break
		}
		if seen[c.entry.Code] {
			continue
		}
		seen[c.entry.Code] = true
		scoreFactor := 0.1 * float64(c.score)
		if scoreFactor > 0.4 {
			scoreFactor = 0.4
		}
		out = append(out, Alternative{
			Code:        c.entry.Code,
			Description: c.entry.Description,
			Confidence:  0.3 + scoreFactor,
		})
	}
	return out
}
