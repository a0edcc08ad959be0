package effects

import (
	"context"

	"github.com/on-the-ground/action_ive_go/effects/internal/handlers"
	"github.com/on-the-ground/action_ive_go/effects/internal/helper"
	sharedHelper "github.com/on-the-ground/action_ive_go/shared/helper"
	"go.uber.org/zap"

	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
)

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like dispatching where per-key ordering matters.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, td)
	return register(ctx, enum, handler.EffectId, "resumable", handler, handler.Close)
}

// WithResumableEffectHandler registers a resumable effect handler for a given effect enum.
//
// Payloads are served one at a time, in the order they were performed.
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, td)
	return register(ctx, enum, handler.EffectId, "resumable", handler, handler.Close)
}

// PerformResumableEffect sends a payload to the resumable effect handler.
//
// The handler result arrives on the returned channel, which is closed without
// a value if the handler scope has already ended.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan handlers.ResumableResult[R] {
	handler := sharedHelper.MustGetTypedValue[handlers.ResumableHandler[P, R]](
		func() (any, error) {
			return helper.GetHandler(ctx, enum)
		},
	)
	return handler.PerformEffect(ctx, payload)
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or spawning goroutines.
// This handler executes without returning a result.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	return register(ctx, enum, handler.EffectId, "fire/forget", handler, handler.Close)
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
//
// The handler will process the payload asynchronously. The returned error is
// non-nil when the payload was dropped, see ErrHandlerClosed.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) error {
	handler := sharedHelper.MustGetTypedValue[handlers.FireAndForgetHandler[P]](
		func() (any, error) {
			return helper.GetHandler(ctx, enum)
		},
	)
	return handler.FireAndForgetEffect(ctx, payload)
}

// register stores handler under enum and returns the end-of-scope function,
// which closes the handler and hands back the parent context.
func register(
	ctx context.Context,
	enum effectmodel.EffectEnum,
	effectId, kind string,
	handler any,
	closeFn func(),
) (context.Context, func() context.Context) {
	logger := zap.L().Sugar()
	ctxWith := context.WithValue(ctx, enum, handler)
	logger.Debugf("created %s effect handler: effectId: %v, enum: %v", kind, effectId, enum)

	return ctxWith, func() context.Context {
		closeFn()
		logger.Debugf("closed %s effect handler: effectId: %v, enum: %v", kind, effectId, enum)
		return ctx
	}
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
