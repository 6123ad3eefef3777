package parse

import (
	"encoding/json"
	"strings"

	"github.com/abhisek/mcceval/internal/logging"
	"github.com/abhisek/mcceval/internal/mcc"
)

// tierPayload is the wire shape of a schema-validated tier reply. The three
// tier schemas share a common core; tier-specific fields simply come back
// zero-valued when the schema omits them.
type tierPayload struct {
	SuggestedMCC       string   `json:"suggested_mcc"`
	Description        string   `json:"mcc_suggestion_description"`
	Analysis           []string `json:"analysis"`
	Confidence         float64  `json:"confidence"`
	RiskLevel          string   `json:"risk_level"`
	RequiresFullSearch bool     `json:"requires_full_search"`
	IsNonDescriptive   bool     `json:"is_non_descriptive"`
	MayBeHighRisk      bool     `json:"may_be_high_risk"`
	Suspicious         bool     `json:"suspicious_classification"`
}

// Structured converts a schema-validated JSON reply into a TierResult.
// Field copy with coercion: codes are normalized to fixed width, confidence
// is clamped. Malformed or codeless payloads degrade to the fallback code;
// this never fails the caller.
func Structured(raw json.RawMessage, table *mcc.Table) TierResult {
	var p tierPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		logging.Logger.Warnw("unparseable structured reply, using fallback",
			"error", err, "code", FallbackCode)
		return TierResult{
			Code:        FallbackCode,
			Description: FallbackDescription,
			Confidence:  0.5,
			Rationale:   "Structured reply could not be decoded.",
			Industry:    mcc.Industry(FallbackCode),
		}
	}

	code := mcc.NormalizeCode(p.SuggestedMCC)
	if code == "" {
		logging.Logger.Warnw("structured reply carried no usable code, using fallback",
			"suggested", p.SuggestedMCC, "code", FallbackCode)
		code = FallbackCode
		if p.Description == "" {
			p.Description = FallbackDescription
		}
	}

	res := TierResult{
		Code:                 code,
		Description:          p.Description,
		Confidence:           Clamp(p.Confidence),
		Rationale:            strings.Join(p.Analysis, " "),
		RiskLevel:            mcc.RiskTier(p.RiskLevel),
		RequiresDeeperSearch: p.RequiresFullSearch,
		NameNonDescriptive:   p.IsNonDescriptive,
		MayBeHighRisk:        p.MayBeHighRisk,
		SuspiciousPriorCode:  p.Suspicious,
	}

	if table != nil {
		if e, ok := table.Lookup(res.Code); ok {
			if res.Description == "" {
				res.Description = e.Description
			}
			if res.RiskLevel == "" {
				res.RiskLevel = e.Risk
			}
		}
	}
	if res.Industry == "" {
		res.Industry = mcc.Industry(res.Code)
	}
	return res
}
