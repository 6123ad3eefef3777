package classify

import (
	"fmt"
	"strings"

	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
	"github.com/abhisek/mcceval/internal/parse"
)

// Confidence assigned when a fallback decision reuses the prior code.
const priorReuseConfidence = 0.65

// Fallback produces decisions without any external call. Used when the
// text-generation service is unavailable, unauthenticated, or fails
// mid-query. Deterministic: the same query always yields the same result.
type Fallback struct {
	Table *mcc.Table

	// DefaultCode and DefaultDescription are returned when neither the
	// prior code nor keyword scoring produce a match.
	DefaultCode        string
	DefaultDescription string
}

// Classify resolves a query using, in priority order: the prior code when
// it is in the table, the best keyword-scored table entry, and finally the
// strategy's default code.
func (f *Fallback) Classify(q Query) parse.TierResult {
	logging.Logger.Debugw("fallback classification", "subject", q.SubjectName)

	if e, ok := f.Table.Lookup(q.PriorCode); ok {
		res := parse.TierResult{
			Code:        e.Code,
			Description: e.Description,
			Confidence:  priorReuseConfidence,
			Rationale:   "Reusing the prior classification; no service available to reassess it.",
			RiskLevel:   e.Risk,
			Industry:    mcc.Industry(e.Code),
		}
		res.Alternatives = KeywordAlternatives(res.Code, combinedName(q), f.Table)
		return res
	}

	if code, score := bestKeywordMatch(combinedName(q), f.Table, ""); code != "" {
		e, _ := f.Table.Lookup(code)
		conf := 0.5 + 0.1*float64(score)
		if conf > 0.85 {
			conf = 0.85
		}
		res := parse.TierResult{
			Code:        e.Code,
			Description: e.Description,
			Confidence:  conf,
			Rationale:   fmt.Sprintf("Based on keywords in the business name, classified as %s.", e.Description),
			RiskLevel:   e.Risk,
			Industry:    mcc.Industry(e.Code),
		}
		res.Alternatives = KeywordAlternatives(res.Code, combinedName(q), f.Table)
		return res
	}

	res := parse.TierResult{
		Code:                 f.DefaultCode,
		Description:          f.DefaultDescription,
		Confidence:           0.5,
		Rationale:            "No clear business category identified from the name. Using the default category.",
		Industry:             mcc.Industry(f.DefaultCode),
		RequiresDeeperSearch: true,
	}
	res.Alternatives = KeywordAlternatives(res.Code, combinedName(q), f.Table)
	return res
}

// Decision runs Classify and shapes the result as a final decision.
func (f *Fallback) Decision(q Query) Decision {
	r := f.Classify(q)
	d := Decision{
		Code:         r.Code,
		Description:  r.Description,
		Confidence:   r.Confidence,
		Alternatives: r.Alternatives,
		Rationale:    r.Rationale,
		Industry:     r.Industry,
		Risk:         r.RiskLevel,
	}
	d.finalize(q, f.Table)
	return d
}

func combinedName(q Query) string {
	return strings.ToLower(strings.TrimSpace(q.SubjectName + " " + q.LegalName))
}

// bestKeywordMatch scores every table entry by how many of its description
// keywords (longer than three characters) appear as substrings of name.
// Ties resolve to the lowest code; returns ("", 0) when nothing scores.
func bestKeywordMatch(name string, table *mcc.Table, exclude string) (string, int) {
	bestCode, bestScore := "", 0
	for _, e := range table.Entries() {
		if e.Code == exclude {
			continue
		}
		if s := keywordScore(name, e.Description); s > bestScore {
			bestCode, bestScore = e.Code, s
		}
	}
	return bestCode, bestScore
}

func keywordScore(name, description string) int {
	score := 0
	for _, word := range strings.Fields(strings.ToLower(description)) {
		word = strings.Trim(word, ",.()-–")
		if len(word) > 3 && strings.Contains(name, word) {
			score++
		}
	}
	return score
}
