package handlers

import (
	"context"
)

func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			NewSingleQueue(
				ctx,
				bufferSize,
				func(ctx context.Context, msg fireAndForgetEffectMessage[P]) {
					handleFn(ctx, msg.payload)
				},
			),
			func() {
				teardown()
				cancelFn()
			},
		),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[fireAndForgetEffectMessage[P]]
}

// FireAndForgetEffect queues payload without waiting for it to be handled.
// A non-nil error means the payload was dropped: either ctx ended first or
// the scope is already closed.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) error {
	return ffh.deliver(ctx, fireAndForgetEffectMessage[P]{payload: payload})
}

type fireAndForgetEffectMessage[P any] struct {
	payload P
}
