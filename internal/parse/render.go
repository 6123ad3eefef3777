package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderSections serializes a TierResult back into the section layout that
// FreeText reads. Parsing, rendering and re-parsing a well-formed reply
// yields the same result; used to verify parser stability and to echo
// decisions in a readable form.
func RenderSections(r TierResult) string {
	var b strings.Builder

	if r.Analysis != "" {
		b.WriteString("Analysis:\n")
		b.WriteString(r.Analysis)
		b.WriteString("\n\n")
	}
	if r.Industry != "" {
		b.WriteString("Industry Classification:\n")
		b.WriteString(r.Industry)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Primary MCC: %s\n", r.Code)
	if r.Description != "" {
		fmt.Fprintf(&b, "MCC Description: %s\n", r.Description)
	}
	b.WriteString("\n")

	if r.Rationale != "" {
		b.WriteString("Reasoning:\n")
		b.WriteString(r.Rationale)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Confidence: %s\n\n", strconv.FormatFloat(r.Confidence, 'f', -1, 64))

	if len(r.Alternatives) > 0 {
		b.WriteString("Alternative MCCs:\n")
		for _, alt := range r.Alternatives {
			if alt.Description != "" {
				fmt.Fprintf(&b, "%s - %s\n", alt.Code, alt.Description)
			} else {
				fmt.Fprintf(&b, "%s\n", alt.Code)
			}
			if alt.Rationale != "" {
				fmt.Fprintf(&b, "%s\n", alt.Rationale)
			}
		}
	}

	return b.String()
}
