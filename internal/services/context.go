package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	cueIndexKey contextKey = "cue_index"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCueIndex annotates context with the 1-based cue being processed.
func WithCueIndex(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, cueIndexKey, index)
}

// CueIndexFromContext returns the cue index if present.
func CueIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(cueIndexKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
