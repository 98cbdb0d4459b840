package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressOutputKey contextKey = "suppressOutput"
	skipHistoryKey    contextKey = "skipHistory"
)

// withSuppressOutput marks that per-list results should not be printed
func withSuppressOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressOutputKey, true)
}

// shouldSuppressOutput returns whether per-list printing is suppressed
func shouldSuppressOutput(ctx context.Context) bool {
	val := ctx.Value(suppressOutputKey)
	if val == nil {
		return false // default: print
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withSkipHistory marks that runs should not be recorded, e.g. for read-only queries
func withSkipHistory(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipHistoryKey, true)
}

// shouldSkipHistory returns whether history recording is disabled
func shouldSkipHistory(ctx context.Context) bool {
	val := ctx.Value(skipHistoryKey)
	if val == nil {
		return false
	}
	skip, ok := val.(bool)
	return ok && skip
}
