// Package store is a small in-memory action store.
//
// A Store reduces every dispatched action into its state, keeps a journal of
// what it received and fans actions out to subscribers. It satisfies
// dispatch.Dispatcher, so bound workers can put their lifecycle actions
// straight into it.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/on-the-ground/action_ive_go/actions"
	"github.com/on-the-ground/action_ive_go/effects"
	"github.com/on-the-ground/action_ive_go/effects/dispatch"
	"go.uber.org/zap"
)

// ErrNilAction is returned when Dispatch is called with a nil action.
var ErrNilAction = errors.New("nil action")

// Reducer folds an action into the state. It must not keep a reference to action.
type Reducer[S any] func(state S, action actions.AnyAction) S

// Record is one journal entry.
type Record struct {
	Seq    uint64
	Action actions.AnyAction
	At     effects.TimeSpan
}

var _ effects.TimeBounded = Record{}

func (r Record) TimeSpan() effects.TimeSpan {
	return r.At
}

type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for dropped subscriber deliveries.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

var _ dispatch.Dispatcher = (*Store[struct{}])(nil)

type Store[S any] struct {
	logger  *zap.Logger
	reducer Reducer[S]

	mu      sync.Mutex
	state   S
	journal []Record
	nextSub uint64
	subs    map[uint64]chan actions.AnyAction
	takers  map[uint64]*taker
}

type taker struct {
	match func(actions.AnyAction) bool
	ch    chan actions.AnyAction
	stop  func() bool
}

func New[S any](reducer Reducer[S], initial S, opts ...Option) *Store[S] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if reducer == nil {
		reducer = func(state S, _ actions.AnyAction) S { return state }
	}
	return &Store[S]{
		logger:  o.logger,
		reducer: reducer,
		state:   initial,
		subs:    make(map[uint64]chan actions.AnyAction),
		takers:  make(map[uint64]*taker),
	}
}

// Dispatch reduces action into the state and records it.
//
// Subscribers whose buffer is full miss the action; a warning is logged for each.
// Dispatch does not block on ctx, it only refuses to start once ctx is done.
func (s *Store[S]) Dispatch(ctx context.Context, action actions.AnyAction) error {
	if action == nil {
		return ErrNilAction
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.reducer(s.state, action)
	rec := Record{
		Seq:    uint64(len(s.journal)) + 1,
		Action: action,
		At:     effects.Now(),
	}
	s.journal = append(s.journal, rec)

	for id, ch := range s.subs {
		select {
		case ch <- action:
		default:
			s.logger.Warn("subscriber buffer full, action dropped",
				zap.Uint64("subscription", id),
				zap.String("type", action.ActionType()),
				zap.Uint64("seq", rec.Seq),
			)
		}
	}

	for id, t := range s.takers {
		if !t.match(action) {
			continue
		}
		delete(s.takers, id)
		t.stop()
		t.ch <- action
		close(t.ch)
	}
	return nil
}

func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Journal returns a copy of every record so far, oldest first.
func (s *Store[S]) Journal() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.journal))
	copy(out, s.journal)
	return out
}

// Subscribe returns a channel receiving every action dispatched from now on,
// and a function that cancels the subscription and closes the channel.
func (s *Store[S]) Subscribe(buffer int) (<-chan actions.AnyAction, func()) {
	ch := make(chan actions.AnyAction, buffer)

	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Take returns a channel that receives the next action accepted by match and
// is then closed. If ctx ends first the channel is closed without a value.
func (s *Store[S]) Take(ctx context.Context, match func(actions.AnyAction) bool) <-chan actions.AnyAction {
	ch := make(chan actions.AnyAction, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	t := &taker{match: match, ch: ch}
	t.stop = context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.takers[id]; ok {
			delete(s.takers, id)
			close(ch)
		}
	})
	s.takers[id] = t
	return ch
}
