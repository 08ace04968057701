package core

import "context"

// Context keys for pick options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
)

// WithSuppressHeader marks the context so that pick and target headers are not printed.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunID stores the run ID in the context
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID retrieves the run ID from the context
func getRunID(ctx context.Context) (string, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return "", false
	}
	runID, ok := val.(string)
	return runID, ok && runID != ""
}
