package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/mcceval/internal/llm"
	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/parse"
)

const (
	// tierAcceptThreshold is the minimum confidence for a tier's result to
	// be accepted without escalating further.
	tierAcceptThreshold = 0.7

	// catchAllCertainty is how confident a tier must be before a catch-all
	// code is allowed to stand without a deeper search.
	catchAllCertainty = 0.98

	tieredDefaultCode = "5812"
	tieredDefaultDesc = "Eating Places and Restaurants"
)

// catchAllCodes must only be the final answer when no specific code
// applies; picking one at ordinary confidence forces escalation.
var catchAllCodes = map[string]bool{
	"7299": true,
	"7399": true,
	"5399": true,
	"1799": true,
	"7999": true,
	"8999": true,
}

// Tiered escalates a query through up to three service calls: a screen
// against the approved-only code subset, a pass against the risk-flagged
// subset, and a last-resort search of the entire table. Confidence and
// risk signals from each tier drive the transitions.
type Tiered struct {
	deps     Deps
	fallback *Fallback
}

// NewTiered builds the tiered strategy.
func NewTiered(deps Deps) *Tiered {
	return &Tiered{
		deps: deps,
		fallback: &Fallback{
			Table:              deps.Table,
			DefaultCode:        tieredDefaultCode,
			DefaultDescription: tieredDefaultDesc,
		},
	}
}

func (s *Tiered) Name() string { return "tiered" }

func (s *Tiered) Classify(ctx context.Context, q Query) (Decision, error) {
	if strings.TrimSpace(q.SubjectName) == "" {
		return s.defaultDecision(q), nil
	}

	prior := q.PriorCode
	priorDesc := q.PriorDescription
	if prior == "" {
		prior, priorDesc = tieredDefaultCode, tieredDefaultDesc
	}

	tier1 := s.runTier(ctx, "tier-screen", tierScreenSchema(), s.screenPrompt(q), q)

	var final parse.TierResult
	switch {
	case tier1.NameNonDescriptive:
		// A name with no business-type signal carries no evidence against
		// the existing classification, so it stands untouched.
		final = parse.TierResult{
			Code:        prior,
			Description: priorDesc,
			Confidence:  1.0,
			Rationale:   joinRationale("NON-DESCRIPTIVE NAME MCC ACCEPTED", tier1.Rationale),
		}

	default:
		applyCatchAllOverride(&tier1)
		if accepts(tier1) && !tier1.MayBeHighRisk {
			final = tier1
			break
		}

		risk := s.runTier(ctx, "risk-tier", riskTierSchema(), s.riskPrompt(q, tier1.MayBeHighRisk), q)
		applyCatchAllOverride(&risk)
		risk.SuspiciousPriorCode = risk.SuspiciousPriorCode || tier1.SuspiciousPriorCode
		if accepts(risk) {
			if risk.RiskLevel != "" && risk.RiskLevel != "approved" {
				banner := fmt.Sprintf("ATTENTION: Business classified as %s.", strings.ToUpper(string(risk.RiskLevel)))
				risk.Rationale = joinRationale(banner, risk.Rationale)
			}
			final = risk
			break
		}

		full := s.runTier(ctx, "full-search", fullSearchSchema(), s.fullPrompt(q, risk.SuspiciousPriorCode), q)
		full.SuspiciousPriorCode = full.SuspiciousPriorCode || risk.SuspiciousPriorCode
		final = full
	}

	d := Decision{
		Code:        final.Code,
		Description: final.Description,
		Confidence:  final.Confidence,
		Rationale:   final.Rationale,
		Risk:        final.RiskLevel,
		Suspicious:  final.SuspiciousPriorCode,
	}
	d.Alternatives = KeywordAlternatives(d.Code, q.SubjectName, s.deps.Table)
	d.finalize(q, s.deps.Table)
	return d, nil
}

// accepts reports whether a tier's result terminates the state machine.
func accepts(r parse.TierResult) bool {
	return r.Confidence >= tierAcceptThreshold && !r.RequiresDeeperSearch
}

// applyCatchAllOverride forces a deeper search when a tier picked a
// catch-all code without near-certainty, regardless of what the tier
// itself reported.
func applyCatchAllOverride(r *parse.TierResult) {
	if catchAllCodes[r.Code] && r.Confidence < catchAllCertainty {
		r.RequiresDeeperSearch = true
		r.Rationale = joinRationale(r.Rationale,
			"Suggested MCC is a general catch-all category. Attempting to find a more specific classification.")
	}
}

// runTier performs one service call and parses the structured reply. Any
// failure substitutes the fallback classifier's result for this tier.
func (s *Tiered) runTier(ctx context.Context, purpose string, schema *llm.Schema, system string, q Query) parse.TierResult {
	if s.deps.Provider == nil {
		return s.fallback.Classify(q)
	}

	resp, err := s.deps.Provider.Generate(llm.WithPurpose(ctx, purpose), llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: s.queryPrompt(q)}},
		Schema:      schema,
		MaxTokens:   1024,
		Temperature: 0.1,
	})
	if err != nil {
		logging.Logger.Errorw("tier invocation failed, substituting fallback",
			"tier", purpose, "subject", q.SubjectName, "error", err)
		return s.fallback.Classify(q)
	}
	return parse.Structured(resp.Content, s.deps.Table)
}

func (s *Tiered) defaultDecision(q Query) Decision {
	d := Decision{
		Code:        tieredDefaultCode,
		Description: tieredDefaultDesc,
		Confidence:  0.5,
		Rationale:   "Default classification due to missing merchant name.",
		Alternatives: []Alternative{
			{Code: "5399", Description: "Miscellaneous General Merchandise", Confidence: 0.3},
			{Code: "7399", Description: "Business Services, Not Elsewhere Classified", Confidence: 0.2},
		},
	}
	d.finalize(q, s.deps.Table)
	return d
}

func joinRationale(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

const catchAllList = "7299, 7399, 5399, 1799, 7999, 8999"

func (s *Tiered) screenPrompt(q Query) string {
	return fmt.Sprintf(`You are an expert in merchant category classification. Evaluate whether a merchant's current classification is accurate.

Determine:
1. If the merchant name is non-descriptive, meaning it is just the owner's name or a minor variation of it. "Robert Paulson LLC" for owner Robert Paulson is non-descriptive; "Sunrise Enterprises" is not.
2. If the name suggests a potentially high-risk business (adult content, gambling, weapons).
3. Whether the current MCC is appropriate, or a better one from the list below.
4. Whether the current classification appears suspicious: set suspicious_classification only when the prior MCC has no logical connection to the name at all.

The following MCCs are catch-all categories and must only be used as a last resort: %s.
If you are considering one of them, set requires_full_search to true instead.

Approved MCC codes:

%s

Base your analysis on the complete business name, not partial word matches.`, catchAllList, s.deps.Table.ApprovedCSV())
}

func (s *Tiered) riskPrompt(q Query, flaggedHighRisk bool) string {
	screening := "needs additional review"
	if flaggedHighRisk {
		screening = "has been flagged as potentially high-risk"
	}
	return fmt.Sprintf(`You are an expert in merchant category classification with a focus on risk assessment. The merchant has been through an initial screening and %s.

Determine the most appropriate MCC from the risk-categorized list below and its risk level. When choosing between plausible codes, prioritize by risk: prohibited first, then pre-approval, pre-review, restricted, and approved only when nothing else fits.

Catch-all categories (%s) must only be used as a last resort; if you are considering one, set requires_full_search to true.

Set suspicious_classification only when the prior MCC has no logical connection to the merchant name at all.

Risk-categorized MCC codes:

%s`, screening, catchAllList, s.deps.Table.RiskCSV())
}

func (s *Tiered) fullPrompt(q Query, suspicious bool) string {
	return fmt.Sprintf(`You are an expert in merchant category classification. Find the most appropriate MCC for this merchant from the complete list below. The merchant has already been evaluated against a limited list and a risk-categorized list without a confident match.

Preliminary suspicion assessment from earlier tiers: %t.

Catch-all categories (%s) must only be used as a last resort. Look for the most specific category matching the business type.

Complete MCC list:

%s`, suspicious, catchAllList, s.deps.Table.FullCSV())
}

func (s *Tiered) queryPrompt(q Query) string {
	var b strings.Builder
	b.WriteString("Please analyze this merchant:\n\n")
	fmt.Fprintf(&b, "Merchant Name: %s\n", q.SubjectName)
	if q.LegalName != "" {
		fmt.Fprintf(&b, "Owner Name: %s\n", q.LegalName)
	}
	if q.PriorCode != "" {
		fmt.Fprintf(&b, "Current MCC: %s\n", q.PriorCode)
	}
	if q.PriorDescription != "" {
		fmt.Fprintf(&b, "MCC Description: %s\n", q.PriorDescription)
	}
	if q.PriorNote != "" {
		fmt.Fprintf(&b, "Additional description: %s\n", q.PriorNote)
	}
	b.WriteString("\nConsider the merchant name in its entirety when making your assessment.")
	return b.String()
}
