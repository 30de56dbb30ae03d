package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
)

// WithSuppressHeader marks the context so executors skip the run header.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// withRunID stores the id of the run being recorded
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the id of the run being recorded, if any
func getRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(runIDKey).(string)
	return runID, ok && runID != ""
}
