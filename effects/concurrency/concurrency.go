package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/action_ive_go/effects"
	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
	"github.com/on-the-ground/action_ive_go/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Eff(ctx, fns...)` to spawn goroutines under a managed scope.
//
//   - Children keep the values of the scope context (effect handlers included)
//     but are cancelled only by the supervisor.
//   - When the scope context is cancelled, every running child is cancelled.
//   - The returned function joins all children, then closes the handler.
//
// A log handler must be registered in ctx.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		cancels: make(map[uint64]context.CancelFunc),
		doneCh:  make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Eff spawns each function in its own supervised goroutine.
//
// A non-nil error means nothing was spawned: ctx ended before the request
// was queued or the handler is already closed.
func Eff(ctx context.Context, fns ...func(context.Context)) error {
	return effects.FireAndForgetEffect[Payload](ctx, effectmodel.EffectConcurrency, fns)
}

type Payload []func(context.Context)

// supervisor tracks the goroutines spawned by one concurrency handler.
type supervisor struct {
	wg sync.WaitGroup

	mu      sync.Mutex
	nextID  uint64
	cancels map[uint64]context.CancelFunc

	doneCh chan struct{}
}

// watchParentCancel cancels every running child once the parent context ends.
func (s *supervisor) watchParentCancel(parentContext context.Context) {
	ready := make(chan struct{})
	go func() {
		close(ready)
		select {
		case <-parentContext.Done():
			log.Eff(parentContext, log.LogInfo, "context cancelled, cancelling all routines", nil)
			s.cancelAll()
		case <-s.doneCh:
		}
	}()
	<-ready
}

func (s *supervisor) track(cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.cancels[s.nextID] = cancel
	return s.nextID
}

func (s *supervisor) untrack(id uint64) {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()
	if ok {
		cancel()
	}
}

func (s *supervisor) cancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// spawnConcurrentChildren starts each function in its own goroutine with its own context.
// Panics are recovered and logged per child.
func (s *supervisor) spawnConcurrentChildren(
	parentContext context.Context,
	functions Payload,
) {
	ready := sync.WaitGroup{}

	for _, fn := range functions {
		childCtx, cancel := context.WithCancel(context.WithoutCancel(parentContext))
		id := s.track(cancel)
		if parentContext.Err() != nil {
			cancel()
		}
		s.wg.Add(1)
		ready.Add(1)
		go func(f func(context.Context), ctx context.Context) {
			defer s.wg.Done()
			defer s.untrack(id)
			defer func() {
				if r := recover(); r != nil {
					log.Eff(parentContext, log.LogError, "panic in child routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			ready.Done()
			f(ctx)
		}(fn, childCtx)
	}

	// all children are running before the next payload is served
	ready.Wait()
}

// waitChildren blocks until all child goroutines complete.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.Eff(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()
	log.Eff(ctx, log.LogDebug, "all routines finished", nil)
}
