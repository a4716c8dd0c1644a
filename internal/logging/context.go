package logging

import (
	"context"
	"log/slog"
)

type jobIDKey struct{}

// WithJobID returns a context carrying a job identifier for log correlation.
func WithJobID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, jobIDKey{}, id)
}

// JobIDFromContext extracts a job identifier previously stored with WithJobID.
func JobIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(jobIDKey{}).(int64)
	return id, ok
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := JobIDFromContext(ctx); ok {
		return logger.With(Int64(FieldJobID, id))
	}
	return logger
}
