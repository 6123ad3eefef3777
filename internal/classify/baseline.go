package classify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
	"github.com/abhisek/mcceval/internal/parse"
)

// Baseline is the simplest service-backed strategy: a single call with a
// strict three-line reply format and hedge-word confidence scoring. It
// exists as the comparison floor for the other strategies.
type Baseline struct {
	deps     Deps
	fallback *Fallback
}

// NewBaseline builds the baseline strategy.
func NewBaseline(deps Deps) *Baseline {
	return &Baseline{
		deps: deps,
		fallback: &Fallback{
			Table:              deps.Table,
			DefaultCode:        parse.FallbackCode,
			DefaultDescription: parse.FallbackDescription,
		},
	}
}

func (s *Baseline) Name() string { return "baseline" }

func (s *Baseline) Classify(ctx context.Context, q Query) (Decision, error) {
	if strings.TrimSpace(q.SubjectName) == "" {
		d := Decision{
			Code:        parse.FallbackCode,
			Description: parse.FallbackDescription,
			Confidence:  0.5,
			Rationale:   "Default classification due to missing merchant name.",
			Alternatives: []Alternative{
				{Code: "5399", Description: "Miscellaneous General Merchandise", Confidence: 0.3},
				{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.2},
			},
		}
		d.finalize(q, s.deps.Table)
		return d, nil
	}

	if s.deps.Provider == nil {
		return s.fallback.Decision(q), nil
	}

	resp, err := s.deps.Provider.Generate(llm.WithPurpose(ctx, "baseline-classify"), llm.Request{
		System:      "You are an expert in merchant category codes (MCC). Provide your analysis and suggestions in the exact format requested. Avoid generic categories like 7299 unless absolutely necessary.",
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: s.prompt(q)}},
		MaxTokens:   600,
		Temperature: 0.1,
	})
	if err != nil {
		logging.Logger.Errorw("baseline classification failed, using fallback",
			"subject", q.SubjectName, "error", err)
		return s.fallback.Decision(q), nil
	}

	analysis, code, desc := parseNumberedReply(resp.Text())

	d := Decision{
		Code:         code,
		Description:  desc,
		Confidence:   hedgeConfidence(analysis),
		Rationale:    analysis,
		Alternatives: s.alternatives(code, q.SubjectName),
	}
	d.finalize(q, s.deps.Table)
	return d, nil
}

// parseNumberedReply reads the strict three-line format:
//
//	1. Analysis: ...
//	2. Suggested MCC: ...
//	3. Suggested Description: ...
//
// A reply of "Same" or one with no usable digits degrades to the fallback
// code.
func parseNumberedReply(text string) (analysis, code, desc string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "1. Analysis:"):
			analysis = strings.TrimSpace(strings.TrimPrefix(line, "1. Analysis:"))
		case strings.HasPrefix(line, "2. Suggested MCC:"):
			code = strings.TrimSpace(strings.TrimPrefix(line, "2. Suggested MCC:"))
		case strings.HasPrefix(line, "3. Suggested Description:"):
			desc = strings.TrimSpace(strings.TrimPrefix(line, "3. Suggested Description:"))
		}
	}

	if strings.EqualFold(code, "same") {
		return analysis, parse.FallbackCode, parse.FallbackDescription
	}

	code = mcc.NormalizeCode(code)
	if code == "" {
		return "Unable to determine a specific MCC from the business name.",
			parse.FallbackCode, parse.FallbackDescription
	}
	return analysis, code, desc
}

// hedgeConfidence scores the analysis text by its hedging language.
func hedgeConfidence(analysis string) float64 {
	lower := strings.ToLower(analysis)
	switch {
	case strings.Contains(lower, "unclear") || strings.Contains(lower, "ambiguous"):
		return 0.7
	case strings.Contains(lower, "strongly") || strings.Contains(lower, "clearly"):
		return 0.95
	default:
		return 0.85
	}
}

// alternatives blends keyword scoring with same-category neighbors: codes
// sharing the primary's two-digit prefix get a half-point score so the
// runner-up usually comes from the same industry.
func (s *Baseline) alternatives(primary, subject string) []Alternative {
	name := strings.ToLower(subject)

	type candidate struct {
		entry mcc.Entry
		score float64
	}
	best := map[string]candidate{}
	add := func(e mcc.Entry, score float64) {
		if cur, ok := best[e.Code]; !ok || score > cur.score {
			best[e.Code] = candidate{e, score}
		}
	}

	var prefix string
	if len(primary) >= 2 {
		prefix = primary[:2]
	}
	for _, e := range s.deps.Table.Entries() {
		if e.Code == primary {
			continue
		}
		if sc := keywordScore(name, e.Description); sc > 0 {
			add(e, float64(sc))
		}
		if prefix != "" && strings.HasPrefix(e.Code, prefix) {
			add(e, 0.5)
		}
	}

	if len(best) < 2 {
		for _, g := range genericAlternatives {
			if g.Code != primary {
				add(g, 0)
			}
		}
	}

	candidates := make([]candidate, 0, len(best))
	for _, c := range best {
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].entry.Code < candidates[j].entry.Code
	})

	out := make([]Alternative, 0, 2)
	for _, c := range candidates[:min(2, len(candidates))] {
		scoreFactor := 0.1 * c.score
		if scoreFactor > 0.4 {
			scoreFactor = 0.4
		}
		out = append(out, Alternative{
			Code:        c.entry.Code,
			Description: c.entry.Description,
			Confidence:  0.3 + scoreFactor,
			Rationale:   "Alternative classification based on merchant name similarity.",
		})
	}
	return out
}

func (s *Baseline) prompt(q Query) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A merchant named %q needs to be classified with an appropriate MCC code.\n", q.SubjectName)
	if q.LegalName != "" && q.LegalName != q.SubjectName {
		fmt.Fprintf(&b, "The legal representative's name is %q.\n", q.LegalName)
	}
	if q.PriorCode != "" && q.PriorDescription != "" {
		fmt.Fprintf(&b, "The merchant's original MCC code is %s - %s. Evaluate if this MCC is appropriate or if another MCC would be more suitable.\n", q.PriorCode, q.PriorDescription)
	}
	if q.PriorNote != "" {
		fmt.Fprintf(&b, "Additional business description: %s\n", q.PriorNote)
	}

	b.WriteString(`
Please assess the most appropriate MCC based on the following guidelines:
- If the merchant name is similar or identical to the legal representative's name without a specific industry indication, suggest a general service MCC.
- If the merchant name explicitly indicates a business category, suggest the most common MCC from the reference below.
- Only use generic MCCs like 7299 or 5999 as a last resort.

Here is a reference of commonly used MCC codes:

`)
	for _, e := range s.deps.Table.Entries() {
		if e.Risk == mcc.RiskApproved {
			fmt.Fprintf(&b, "- %s : %s\n", e.Code, e.Description)
		}
	}

	b.WriteString(`
Consider that these businesses are mostly solo entrepreneurs, so avoid MCCs for large enterprises.

Respond strictly in the following format:
1. Analysis: [Brief analysis, highlighting alignment or mismatch]
2. Suggested MCC: [Only MCC number]
3. Suggested Description: [MCC description]
`)
	return b.String()
}
