package llm

import "context"

type purposeKey struct{}

// Purposes recorded in the request log.
const (
	PurposePrediction = "prediction"
	PurposeUnknown    = "unknown"
)

// WithPurpose tags ctx so the request log can tell calls apart.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
