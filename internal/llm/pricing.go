package llm

// ModelCost holds per-million-token prices in USD.
type ModelCost struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// modelCosts covers the models the evaluator commonly runs against.
// Unknown models cost zero rather than guessing.
var modelCosts = map[string]ModelCost{
	"gpt-4o":                       {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":                  {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"o3-mini":                      {InputPerMillion: 1.10, OutputPerMillion: 4.40},
	"claude-3-5-haiku-20241022":    {InputPerMillion: 0.80, OutputPerMillion: 4.00},
	"claude-sonnet-4-20250514":     {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"gemini-2.0-flash":             {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-pro":               {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"google/gemini-2.0-flash-exp":  {InputPerMillion: 0.0, OutputPerMillion: 0.0},
}

// EstimateCost returns the approximate USD cost of a call, or 0 for models
// with no pricing entry.
func EstimateCost(model string, usage Usage) float64 {
	cost, ok := modelCosts[model]
	if !ok {
		return 0
	}
	return float64(usage.InputTokens)/1e6*cost.InputPerMillion +
		float64(usage.OutputTokens)/1e6*cost.OutputPerMillion
}
