// Package effects is the context-scoped effect runtime of action_ive_go.
//
// Side effects such as logging, spawning goroutines and dispatching actions
// to a store are delegated to handlers registered on a context.Context.
// Code performing an effect only needs the context; which handler serves it
// is decided by whoever set up the scope.
//
// # Handler kinds
//
//   - Resumable handlers return a result to the performer through a channel.
//     They may be partitioned: payloads are hashed by PartitionKey() onto a
//     fixed set of workers, so payloads sharing a key keep their order.
//   - Fire-and-forget handlers consume payloads without answering.
//
// Handlers are registered via `WithXxxEffectHandler(ctx, ...)`, which returns
// the derived context and an end-of-scope function. Calling the end function
// closes the handler and returns the parent context. Performing an effect
// with no handler in scope panics with an error wrapping ErrNoEffectHandler.
//
// Built-in effects live in sub-packages:
//   - log: structured logging through zap
//   - concurrency: supervised goroutines joined at the end of the scope
//   - dispatch: delivery of actions to a store
//   - saga: binding async workers to a started/done/failed action triplet
//
// Example:
//
//	func run(ctx context.Context, st *store.Store[State]) {
//	    ctx, endOfLog := log.WithZapEffectHandler(ctx, 16, zap.L())
//	    defer endOfLog()
//	    ctx, end := saga.WithEffectHandlers(ctx, st, 16, 1)
//	    defer end()
//
//	    result, err := fetchTodos(ctx, Query{Page: 1})
//	    ...
//	}
package effects
