package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
	"go.uber.org/zap"
)

// effectScope ties a dispatcher to the teardown of its handler.
//
// Close may be called more than once, only the first call tears down.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	closeOnce  sync.Once
	closeFn    func()
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(func() {
		es.closeFn()
		zap.L().Debug("effect scope closed", zap.String("effectId", es.EffectId))
	})
}

// deliver hands msg to its worker unless ctx ends first.
// It returns ctx.Err() when msg was not queued because ctx ended, and
// ErrHandlerClosed when the scope already shut down.
func (es *effectScope[T]) deliver(ctx context.Context, msg T) error {
	err := es.dispatcher.Deliver(ctx, msg)
	if errors.Is(err, effectmodel.ErrHandlerClosed) {
		zap.L().Warn("effect performed on a closed scope", zap.String("effectId", es.EffectId))
	}
	return err
}

func newEffectScope[T any](
	dispatcher WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		closeFn:    teardown,
	}
}
