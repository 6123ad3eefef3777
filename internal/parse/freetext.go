package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
)

// Free-text replies loosely follow a requested section layout:
//
//	Analysis: ...
//	Industry Classification: ...
//	Primary MCC: 5812
//	MCC Description: Restaurants
//	Reasoning: ...
//	Confidence: High (85% confident)
//	Alternative MCCs:
//	5814 - Fast Food Restaurants
//	...
//
// Sections are recognized by case-insensitive substring match on the header
// keyword; all following lines belong to a section until the next header.
//
// Code extraction runs with decreasing specificity, first match wins:
//  1. first CodeWidth-digit run on an explicitly labeled code line
//     ("Primary MCC", "MCC code", "MCC:");
//  2. a labeled pattern ("MCC: nnnn", "code: nnnn", "suggested: nnnn")
//     inside the reasoning section, then the analysis section;
//  3. any line mentioning "mcc", "code" or "category" that carries a
//     CodeWidth-digit run;
//  4. the fixed fallback code, with a parse-failure warning.

var (
	codeRun       = regexp.MustCompile(`\d{4}`)
	labeledCode   = regexp.MustCompile(`(?i)(?:mcc|code|suggested):?\s*(\d{4})`)
	inlineDesc    = regexp.MustCompile(`\d{4}[:\s-]+(.+)`)
	percentAmount = regexp.MustCompile(`(\d{1,3})%|(\d{1,3})\s*percent`)
	decimalAmount = regexp.MustCompile(`confidence:?\s*(0\.\d+)`)
	descPrefix    = regexp.MustCompile(`(?i)^.*?description:?\s*`)
)

type section int

const (
	secNone section = iota
	secAnalysis
	secIndustry
	secReasoning
	secAlternatives
)

// FreeText parses a prose reply into a TierResult. It never fails: text
// with no recognizable code yields the fallback code at the default
// confidence. The table, when non-nil, canonicalizes descriptions.
func FreeText(text string, table *mcc.Table) TierResult {
	res := TierResult{Confidence: 0.7}

	lines := strings.Split(strings.TrimSpace(text), "\n")

	var analysis, industry, reasoning []string
	var alts []Alternative
	var current *Alternative
	var explanation []string

	cur := secNone
	flushAlt := func() {
		if current != nil {
			current.Rationale = strings.Join(explanation, " ")
			alts = append(alts, *current)
			current = nil
			explanation = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "analysis") || strings.Contains(lower, "step-by-step") || strings.Contains(lower, "step by step"):
			cur = secAnalysis

		case strings.Contains(lower, "industry classification"):
			cur = secIndustry

		case strings.Contains(lower, "primary mcc") || strings.Contains(lower, "mcc code") || strings.Contains(lower, "mcc:"):
			if res.Code == "" {
				if m := codeRun.FindString(line); m != "" {
					res.Code = m
				}
			}
			cur = secNone

		case strings.Contains(lower, "mcc description") || strings.Contains(lower, "description:"):
			desc := strings.TrimSpace(descPrefix.ReplaceAllString(line, ""))
			if desc == "" && i+1 < len(lines) {
				desc = strings.TrimSpace(lines[i+1])
				i++
			}
			if desc != "" {
				res.Description = desc
			}
			cur = secNone

		case strings.Contains(lower, "reasoning"):
			cur = secReasoning

		case strings.Contains(lower, "confidence"):
			res.Confidence = parseConfidence(lower, res.Confidence)
			cur = secNone

		case strings.Contains(lower, "alternative mcc"):
			cur = secAlternatives

		default:
			switch cur {
			case secAnalysis:
				analysis = append(analysis, line)
			case secIndustry:
				industry = append(industry, line)
			case secReasoning:
				reasoning = append(reasoning, line)
			case secAlternatives:
				if m := codeRun.FindString(line); m != "" {
					flushAlt()
					alt := Alternative{
						Code:       m,
						Confidence: altConfidence(res.Confidence, len(alts)),
					}
					if dm := inlineDesc.FindStringSubmatch(line); dm != nil {
						alt.Description = strings.TrimSpace(dm[1])
					}
					current = &alt
				} else if current != nil {
					explanation = append(explanation, line)
				}
			}
		}
	}
	flushAlt()

	res.Analysis = strings.Join(analysis, " ")
	res.Industry = strings.Join(industry, " ")
	res.Rationale = strings.Join(reasoning, " ")

	// Code extraction fallbacks, in the documented priority order.
	if res.Code == "" {
		res.Code = codeFromSections(res.Rationale, res.Analysis)
	}
	if res.Code == "" {
		res.Code = codeFromAnyLine(lines, &res)
	}
	if res.Code == "" {
		res.Code = FallbackCode
		res.Description = FallbackDescription
		logging.Logger.Warnw("no category code found in reply, using fallback",
			"code", FallbackCode)
	}

	res.Code = padCode(res.Code)
	res.Confidence = Clamp(res.Confidence)
	res.Alternatives = alts

	if table != nil {
		if e, ok := table.Lookup(res.Code); ok {
			res.Description = e.Description
		}
	}

	if res.Rationale == "" && res.Analysis != "" {
		res.Rationale = fmt.Sprintf("Classification based on merchant name analysis: %s", res.Analysis)
	} else if res.Rationale == "" {
		res.Rationale = "Classification based on merchant name patterns."
	}
	if res.Industry == "" {
		res.Industry = mcc.Industry(res.Code)
	}

	res.Alternatives = FillAlternatives(res.Alternatives, res.Code)
	return res
}

// parseConfidence maps a confidence line to a numeric value. Qualitative
// words set a band; an explicit percentage or decimal on the same line wins
// over the word.
func parseConfidence(lower string, def float64) float64 {
	conf := def
	switch {
	case strings.Contains(lower, "high"):
		conf = 0.95
	case strings.Contains(lower, "medium"):
		conf = 0.8
	case strings.Contains(lower, "low"):
		conf = 0.6
	}

	if m := percentAmount.FindStringSubmatch(lower); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if pct, err := strconv.Atoi(raw); err == nil {
			conf = float64(pct) / 100
			if conf > 0.99 {
				conf = 0.99
			}
			if conf < 0.01 {
				conf = 0.01
			}
		}
	}

	if m := decimalAmount.FindStringSubmatch(lower); m != nil {
		if d, err := strconv.ParseFloat(m[1], 64); err == nil {
			conf = d
		}
	}
	return conf
}

// altConfidence steps alternative confidence down from the primary's:
// primary - 0.2 - 0.1 per preceding alternative, floored at 0.1.
func altConfidence(primary float64, position int) float64 {
	c := primary - 0.2 - 0.1*float64(position)
	if c < 0.1 {
		c = 0.1
	}
	return c
}

func codeFromSections(sections ...string) string {
	for _, s := range sections {
		if s == "" {
			continue
		}
		if m := labeledCode.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

func codeFromAnyLine(lines []string, res *TierResult) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "mcc") && !strings.Contains(lower, "code") && !strings.Contains(lower, "category") {
			continue
		}
		if m := codeRun.FindString(line); m != "" {
			if dm := inlineDesc.FindStringSubmatch(line); dm != nil && res.Description == "" {
				res.Description = strings.TrimSpace(strings.TrimSuffix(dm[1], "."))
			}
			return m
		}
	}
	return ""
}

func padCode(code string) string {
	if n := mcc.NormalizeCode(code); n != "" {
		return n
	}
	return code
}

// genericPools maps a primary code's leading digit to a pair of broad
// alternatives from the same territory.
var genericPools = map[byte][2]Alternative{
	'5': {
		{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores", Confidence: 0.3, Rationale: "General retail fallback option"},
		{Code: "5499", Description: "Misc. Food Stores - Convenience Stores and Specialty Markets", Confidence: 0.25, Rationale: "Food retail alternative if applicable"},
	},
	'7': {
		{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.3, Rationale: "Business services alternative"},
		{Code: "7311", Description: "Advertising Services", Confidence: 0.25, Rationale: "Marketing/promotion services if applicable"},
	},
	'8': {
		{Code: "8999", Description: "Professional Services, Not Elsewhere Classified", Confidence: 0.3, Rationale: "Alternative professional services classification"},
		{Code: "8931", Description: "Accounting, Auditing, and Bookkeeping Services", Confidence: 0.25, Rationale: "Financial professional services if applicable"},
	},
}

var defaultPool = [2]Alternative{
	{Code: "5999", Description: "Miscellaneous and Specialty Retail Stores", Confidence: 0.3, Rationale: "Retail alternative"},
	{Code: "7299", Description: "Miscellaneous Personal Services", Confidence: 0.25, Rationale: "Services alternative"},
}

// FillAlternatives tops up alts to at least two entries with generics
// chosen by the primary's leading digit, never duplicating the primary.
func FillAlternatives(alts []Alternative, primary string) []Alternative {
	if len(alts) >= 2 {
		return alts
	}
	pool := defaultPool
	if primary != "" {
		if p, ok := genericPools[primary[0]]; ok {
			pool = p
		}
	}
	for _, alt := range pool {
		if len(alts) >= 2 {
			break
		}
		if alt.Code != primary {
			alts = append(alts, alt)
		}
	}
	return alts
}
