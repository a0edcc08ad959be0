package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
)

// WorkerDispatcher hands messages to the worker that serves them.
type WorkerDispatcher[T any] interface {
	// Deliver queues msg. It returns ctx.Err() if ctx ends first and
	// ErrHandlerClosed once the workers have stopped.
	Deliver(ctx context.Context, msg T) error
	// PartitionOf returns the index of the worker msg is routed to.
	PartitionOf(msg T) int
}

// workerPool runs one goroutine per channel until ctx is done.
//
// Senders hold mu for reading while they send; shutdown takes it for
// writing before the channels are closed, so no send ever hits a closed
// channel. Messages still buffered at shutdown are handed to handleFn under
// the finished ctx.
type workerPool[T any] struct {
	done  <-chan struct{}
	route func(T) int

	mu     sync.RWMutex
	closed bool
	chs    []chan T
}

func newWorkerPool[T any](
	ctx context.Context,
	numWorkers, bufferSize int,
	route func(T) int,
	handleFn func(context.Context, T),
) *workerPool[T] {
	p := &workerPool[T]{
		done:  ctx.Done(),
		route: route,
		chs:   make([]chan T, numWorkers),
	}

	started := &sync.WaitGroup{}
	stopped := &sync.WaitGroup{}
	for i := range p.chs {
		p.chs[i] = make(chan T, bufferSize)
		started.Add(1)
		stopped.Add(1)
		go func(ch chan T) {
			defer stopped.Done()
			started.Done()
			for {
				select {
				case msg := <-ch:
					handleFn(ctx, msg)
				case <-ctx.Done():
					return
				}
			}
		}(p.chs[i])
	}
	started.Wait()

	go func() {
		stopped.Wait()
		p.shutdown(ctx, handleFn)
	}()
	return p
}

func (p *workerPool[T]) PartitionOf(msg T) int {
	return p.route(msg)
}

func (p *workerPool[T]) Deliver(ctx context.Context, msg T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return effectmodel.ErrHandlerClosed
	}
	select {
	case <-p.done:
		return effectmodel.ErrHandlerClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return effectmodel.ErrHandlerClosed
	case p.chs[p.route(msg)] <- msg:
		return nil
	}
}

func (p *workerPool[T]) shutdown(ctx context.Context, handleFn func(context.Context, T)) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for _, ch := range p.chs {
		close(ch)
		for msg := range ch {
			handleFn(ctx, msg)
		}
	}
}

// NewSingleQueue serves every message on one worker, in arrival order.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return newWorkerPool(ctx, 1, bufferSize, func(T) int { return 0 }, handleFn)
}

// NewPartitionedQueue spreads messages over numWorkers workers.
// Messages sharing a partition key keep their arrival order.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	return newWorkerPool(ctx, numWorkers, bufferSize, func(msg T) int {
		return partitionIndex(msg, numWorkers)
	}, handleFn)
}
