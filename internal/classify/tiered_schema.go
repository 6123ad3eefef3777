package classify

import "github.com/abhisek/mcceval/internal/llm"

func codeProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "The suggested MCC code for the merchant",
		"pattern":     "^[0-9]{4}$",
	}
}

func tierCoreProperties() map[string]any {
	return map[string]any{
		"suggested_mcc": codeProperty(),
		"mcc_suggestion_description": map[string]any{
			"type":        "string",
			"description": "Description of the suggested MCC",
		},
		"analysis": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Reasoning steps explaining the analysis",
		},
		"confidence": map[string]any{
			"type":        "number",
			"minimum":     0,
			"maximum":     1,
			"description": "Confidence score for the suggestion",
		},
		"suspicious_classification": map[string]any{
			"type":        "boolean",
			"description": "Whether the prior MCC seems intentionally misleading",
		},
	}
}

func tierScreenSchema() *llm.Schema {
	props := tierCoreProperties()
	props["requires_full_search"] = map[string]any{
		"type":        "boolean",
		"description": "Whether a full MCC database search is recommended",
	}
	props["is_non_descriptive"] = map[string]any{
		"type":        "boolean",
		"description": "Whether the merchant name is essentially just the owner's name",
	}
	props["may_be_high_risk"] = map[string]any{
		"type":        "boolean",
		"description": "Whether the merchant name suggests a potentially high-risk business",
	}
	return &llm.Schema{
		Name:        "tier-screen",
		Description: "Initial merchant classification against the approved code list",
		Definition: map[string]any{
			"type":       "object",
			"properties": props,
			"required": []any{
				"suggested_mcc", "mcc_suggestion_description", "analysis",
				"confidence", "requires_full_search", "is_non_descriptive",
				"may_be_high_risk", "suspicious_classification",
			},
			"additionalProperties": false,
		},
	}
}

func riskTierSchema() *llm.Schema {
	props := tierCoreProperties()
	props["risk_level"] = map[string]any{
		"type":        "string",
		"enum":        []any{"prohibited", "pre-approval", "pre-review", "restricted", "approved"},
		"description": "The risk level of the suggested MCC",
	}
	props["requires_full_search"] = map[string]any{
		"type":        "boolean",
		"description": "Whether a full MCC database search is still needed",
	}
	return &llm.Schema{
		Name:        "risk-tier",
		Description: "Merchant classification against the risk-categorized code list",
		Definition: map[string]any{
			"type":       "object",
			"properties": props,
			"required": []any{
				"suggested_mcc", "mcc_suggestion_description", "analysis",
				"confidence", "risk_level", "requires_full_search",
				"suspicious_classification",
			},
			"additionalProperties": false,
		},
	}
}

func fullSearchSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "full-search",
		Description: "Merchant classification against the complete code table",
		Definition: map[string]any{
			"type":       "object",
			"properties": tierCoreProperties(),
			"required": []any{
				"suggested_mcc", "mcc_suggestion_description", "analysis",
				"confidence", "suspicious_classification",
			},
			"additionalProperties": false,
		},
	}
}
