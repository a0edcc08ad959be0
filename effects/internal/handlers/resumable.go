package handlers

import (
	"context"
	"errors"

	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
)

// resume runs handleFn for msg and hands the result back to the performer.
// Once the scope is done the result channel is closed without handling msg.
func resume[P, R any](handleFn func(context.Context, P) (R, error)) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		if ctx.Err() != nil {
			close(msg.ResumeCh)
			return
		}
		select {
		case <-ctx.Done():
		case msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload)):
		}
		close(msg.ResumeCh)
	}
}

func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewSingleQueue(ctx, bufferSize, resume(handleFn)),
			func() {
				teardown()
				cancelFn()
			},
		),
	}
}

func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, resume(handleFn)),
			func() {
				teardown()
				cancelFn()
			},
		),
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect queues payload and returns the channel its result arrives on.
//
// The channel is closed without a value when the handler scope is already
// closed. When ctx ends before the payload is queued nothing is ever sent.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	// buffered so the worker never blocks on a performer that gave up
	resumeCh := make(chan ResumableResult[R], 1)

	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if err := rh.deliver(ctx, msg); errors.Is(err, effectmodel.ErrHandlerClosed) {
		close(resumeCh)
	}

	return resumeCh
}

// ResumableResult represents the result of handled effects.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

var _ effectmodel.Partitionable = ResumableEffectMessage[any, any]{}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
