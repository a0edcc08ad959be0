package saga

import (
	"context"
	"errors"
)

// Outcome is the result of Race.
// Exactly one of Result (with Err == nil), Cancelled or Err is meaningful.
type Outcome[S any] struct {
	Result    S
	Cancelled bool
	Err       error
}

// Race runs run until it finishes or cancel delivers.
//
// When cancel wins, the context given to run is cancelled and Race waits for
// run to return, so a bound worker's failed action is already dispatched
// when Race returns Outcome{Cancelled: true}. A closed cancel channel does
// not count as a cancellation, and neither does a run that completes or
// fails on its own after cancel delivered.
func Race[S, T any](ctx context.Context, run func(context.Context) (S, error), cancel <-chan T) Outcome[S] {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan Outcome[S], 1)
	go func() {
		v, err := run(runCtx)
		done <- Outcome[S]{Result: v, Err: err}
	}()

	for {
		select {
		case out := <-done:
			return out
		case _, ok := <-cancel:
			if !ok {
				cancel = nil
				continue
			}
			stop()
			out := <-done
			if errors.Is(out.Err, ErrCancelled) {
				return Outcome[S]{Cancelled: true}
			}
			// run finished before it saw the cancellation
			return out
		}
	}
}
