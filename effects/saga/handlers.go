package saga

import (
	"context"

	"github.com/on-the-ground/action_ive_go/effects/concurrency"
	"github.com/on-the-ground/action_ive_go/effects/dispatch"
)

// WithEffectHandlers installs the concurrency and dispatch handlers bound
// workers need, forwarding actions to d. A log handler must already be in ctx.
//
// The returned function waits for the running workers before it ends the
// dispatch scope, so their terminal actions still reach d.
func WithEffectHandlers(
	ctx context.Context,
	d dispatch.Dispatcher,
	bufferSize, numWorkers int,
) (context.Context, func() context.Context) {
	parent := ctx
	ctx, endOfConcurrency := concurrency.WithEffectHandler(ctx, bufferSize)
	ctx, endOfDispatch := dispatch.WithEffectHandler(ctx, d, bufferSize, numWorkers)
	return ctx, func() context.Context {
		endOfConcurrency()
		endOfDispatch()
		return parent
	}
}
