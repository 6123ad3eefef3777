// Package parse turns replies from the text-generation service into typed
// tier results. It tolerates format drift aggressively: whatever the model
// sends back, the caller always gets a fully populated result.
package parse

import "github.com/abhisek/mcceval/internal/mcc"

// FallbackCode is emitted when no code of the expected width can be found
// anywhere in a reply.
const (
	FallbackCode        = "7299"
	FallbackDescription = "Miscellaneous Personal Services"
)

// TierResult is one tier's classification outcome. Strategies merge one or
// more of these into a final decision; the tier-specific flags drive the
// escalation state machine.
type TierResult struct {
	Code        string
	Description string
	Confidence  float64
	Rationale   string
	Analysis    string
	Industry    string

	Alternatives []Alternative

	RiskLevel mcc.RiskTier

	RequiresDeeperSearch bool
	NameNonDescriptive   bool
	MayBeHighRisk        bool
	SuspiciousPriorCode  bool
}

// Alternative is a secondary classification candidate.
type Alternative struct {
	Code        string
	Description string
	Confidence  float64
	Rationale   string
}

// Clamp bounds a confidence value into [0, 1].
func Clamp(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
