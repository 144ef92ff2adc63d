package database

import (
	"context"
	"time"
)

type timeoutKey struct{}

// WithTimeout overrides the configured query and execute timeouts for every
// store call made with the returned context.
func WithTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, timeoutKey{}, d)
}

// boundedContext applies the override set by WithTimeout, or fallback.
func boundedContext(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d, ok := ctx.Value(timeoutKey{}).(time.Duration); ok && d > 0 {
		fallback = d
	}
	return context.WithTimeout(ctx, fallback)
}
