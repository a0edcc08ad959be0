package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// WithTestEffectHandler registers a log handler that keeps every entry in memory.
func WithTestEffectHandler(
	ctx context.Context,
) (context.Context, func() context.Context) {
	ctx, end, _ := WithObservedEffectHandler(ctx)
	return ctx, end
}

// WithObservedEffectHandler is WithTestEffectHandler that also returns the observed entries.
func WithObservedEffectHandler(
	ctx context.Context,
) (context.Context, func() context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	ctx, end := WithZapEffectHandler(ctx, 16, zap.New(core))
	return ctx, end, logs
}
