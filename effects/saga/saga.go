// Package saga binds workers to async action creators.
//
// A bound worker announces itself with the started action, runs the worker
// under the concurrency effect and reports exactly one terminal action:
// done on success, failed on error or cancellation. Actions travel through
// the dispatch effect, so ctx must carry log, concurrency and dispatch
// handlers; WithEffectHandlers installs the last two.
package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/action_ive_go/actions"
	"github.com/on-the-ground/action_ive_go/effects/concurrency"
	"github.com/on-the-ground/action_ive_go/effects/dispatch"
	"github.com/on-the-ground/action_ive_go/effects/log"
	"go.uber.org/multierr"
)

var (
	// ErrCancelled is the error carried by the failed action of a cancelled invocation.
	ErrCancelled = errors.New("cancelled")

	// ErrWorkerPanic wraps the value recovered from a panicking worker.
	ErrWorkerPanic = errors.New("worker panicked")
)

// Worker is the unit of work a bound worker wraps.
type Worker[P, S any] func(ctx context.Context, params P, args ...any) (S, error)

// BindAsyncAction returns a decorator turning a worker into one that
// dispatches ac's lifecycle actions around it.
//
// The returned worker has the same signature. It returns the worker's result
// or error unchanged, or an error matching ErrCancelled if ctx ends first.
// The started action is acknowledged even if ctx ends meanwhile; the
// invocation then ends as cancelled. If the dispatcher rejects the started
// action the worker is not run and no terminal action is dispatched.
func BindAsyncAction[P, S any](ac actions.AsyncActionCreators[P, S, error]) func(Worker[P, S]) Worker[P, S] {
	return func(worker Worker[P, S]) Worker[P, S] {
		return func(ctx context.Context, params P, args ...any) (S, error) {
			return invoke(ctx, ac, worker, params, args)
		}
	}
}

type result[S any] struct {
	value S
	err   error
}

func invoke[P, S any](
	ctx context.Context,
	ac actions.AsyncActionCreators[P, S, error],
	worker Worker[P, S],
	params P,
	args []any,
) (S, error) {
	var zero S

	// the lifecycle actions are delivered even when ctx is already done, so
	// that a started action that landed is always followed by a terminal one
	terminalCtx := context.WithoutCancel(ctx)

	if err := dispatch.Put(terminalCtx, ac.Started.New(params)); err != nil {
		return zero, fmt.Errorf("%s: dispatch started: %w", ac.Type, err)
	}

	// runCtx ends with the invocation or when the supervisor cancels the child
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var (
		res       result[S]
		cancelled bool
	)
	resultCh := make(chan result[S], 1)
	spawn := func() error {
		return concurrency.Eff(ctx, func(childCtx context.Context) {
			unwatch := context.AfterFunc(childCtx, stop)
			defer unwatch()
			resultCh <- call(runCtx, worker, params, args)
		})
	}

	switch {
	case ctx.Err() != nil:
		// cancelled while started was being acknowledged
		cancelled = true
	default:
		if err := spawn(); err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			res.err = fmt.Errorf("%s: spawn worker: %w", ac.Type, err)
			break
		}
		select {
		case res = <-resultCh:
			// a worker failing because ctx ended was cancelled
			cancelled = res.err != nil && ctx.Err() != nil
		case <-ctx.Done():
			cancelled = true
		}
	}

	if cancelled {
		log.Eff(terminalCtx, log.LogDebug, "async action cancelled", map[string]interface{}{
			"type":  ac.Type,
			"cause": context.Cause(ctx).Error(),
		})
		err := fmt.Errorf("%s: %w: %w", ac.Type, ErrCancelled, context.Cause(ctx))
		putErr := dispatch.Put(terminalCtx, ac.Failed.New(actions.Failure[P, error]{
			Params: params,
			Error:  ErrCancelled,
		}))
		return zero, multierr.Append(err, wrapTerminal(ac.Type, putErr))
	}

	if res.err != nil {
		log.Eff(terminalCtx, log.LogDebug, "async action failed", map[string]interface{}{
			"type":  ac.Type,
			"error": res.err.Error(),
		})
		putErr := dispatch.Put(terminalCtx, ac.Failed.New(actions.Failure[P, error]{
			Params: params,
			Error:  res.err,
		}))
		return zero, multierr.Append(res.err, wrapTerminal(ac.Type, putErr))
	}

	if err := dispatch.Put(terminalCtx, ac.Done.New(actions.Success[P, S]{
		Params: params,
		Result: res.value,
	})); err != nil {
		return res.value, wrapTerminal(ac.Type, err)
	}
	return res.value, nil
}

// call runs worker, turning a panic into an ErrWorkerPanic error.
func call[P, S any](ctx context.Context, worker Worker[P, S], params P, args []any) (res result[S]) {
	defer func() {
		if r := recover(); r != nil {
			res = result[S]{err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)}
		}
	}()
	v, err := worker(ctx, params, args...)
	return result[S]{value: v, err: err}
}

func wrapTerminal(typ string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: dispatch terminal action: %w", typ, err)
}
