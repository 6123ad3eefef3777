package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm.purpose"

// WithPurpose tags the context with a short label for what this request is
// for, e.g. "tier-screen" or "narrative-classify". The value flows into the
// request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the purpose label from the context, or "" if none.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return ""
}
