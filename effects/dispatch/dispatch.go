package dispatch

import (
	"context"

	"github.com/on-the-ground/action_ive_go/actions"
	"github.com/on-the-ground/action_ive_go/effects"
	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
)

// Dispatcher delivers actions to an external store or bus.
type Dispatcher interface {
	Dispatch(ctx context.Context, action actions.AnyAction) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, action actions.AnyAction) error

func (f DispatcherFunc) Dispatch(ctx context.Context, action actions.AnyAction) error {
	return f(ctx, action)
}

// Payload wraps the action being dispatched.
// Payloads are partitioned by action type.
type Payload struct {
	Action actions.AnyAction
}

func (p Payload) PartitionKey() string {
	return p.Action.ActionType()
}

// WithEffectHandler registers a resumable, partitionable dispatch handler forwarding to d.
//
// Actions of the same type are handed to d in the order they were put.
// Put waits for d, so actions put one after another by the same caller keep
// their order whatever their types.
func WithEffectHandler(
	ctx context.Context,
	d Dispatcher,
	bufferSize, numWorkers int,
) (context.Context, func() context.Context) {
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		effectmodel.NewEffectScopeConfig(bufferSize, numWorkers),
		effectmodel.EffectDispatch,
		func(ctx context.Context, p Payload) (struct{}, error) {
			return struct{}{}, d.Dispatch(ctx, p.Action)
		},
	)
}

// Put dispatches action and waits until the dispatcher accepted or rejected it.
//
// It returns ErrHandlerClosed if the dispatch scope already ended and
// ctx.Err() if ctx ends first. Panics if no dispatch handler is registered.
func Put(ctx context.Context, action actions.AnyAction) error {
	resultCh := effects.PerformResumableEffect[Payload, struct{}](ctx, effectmodel.EffectDispatch, Payload{Action: action})
	select {
	case res, ok := <-resultCh:
		if !ok {
			return effects.ErrHandlerClosed
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
