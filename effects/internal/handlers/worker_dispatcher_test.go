package handlers_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/action_ive_go/effects/internal/handlers"
	effectmodel "github.com/on-the-ground/action_ive_go/effects/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typedMessage is partitioned by the action type it stands for.
type typedMessage struct {
	seq        int
	actionType string
}

func (m typedMessage) PartitionKey() string {
	return m.actionType
}

func TestSingleQueue_DispatchesToHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		called []int
		wg     sync.WaitGroup
	)
	wg.Add(2)

	dispatcher := handlers.NewSingleQueue(ctx, 10, func(_ context.Context, msg int) {
		defer wg.Done()
		mu.Lock()
		called = append(called, msg)
		mu.Unlock()
	})
	require.NoError(t, dispatcher.Deliver(ctx, 1))
	require.NoError(t, dispatcher.Deliver(ctx, 2))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, called)
}

func TestPartitionedQueue_SameTypeSameWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := handlers.NewPartitionedQueue(ctx, 8, 10, func(context.Context, typedMessage) {})

	started := typedMessage{seq: 1, actionType: "FETCH_STARTED"}
	again := typedMessage{seq: 2, actionType: "FETCH_STARTED"}

	assert.Equal(t, dispatcher.PartitionOf(started), dispatcher.PartitionOf(again))
}

func TestPartitionedQueue_OrderIsPreservedForSameType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu        sync.Mutex
		processed = make(map[string][]int)
		wg        sync.WaitGroup
	)
	wg.Add(10)

	dispatcher := handlers.NewPartitionedQueue(ctx, 3, 10, func(_ context.Context, msg typedMessage) {
		defer wg.Done()
		mu.Lock()
		processed[msg.actionType] = append(processed[msg.actionType], msg.seq)
		mu.Unlock()
	})

	for i := 0; i < 5; i++ {
		for _, typ := range []string{"A_DONE", "B_DONE"} {
			msg := typedMessage{seq: i, actionType: typ}
			require.NoError(t, dispatcher.Deliver(ctx, msg))
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for _, typ := range []string{"A_DONE", "B_DONE"} {
		assert.True(t, slices.IsSorted(processed[typ]), "order of %s: %v", typ, processed[typ])
		assert.Len(t, processed[typ], 5)
	}
}

func TestWorkerDispatcher_RejectsDeliveryAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	called := make(chan int, 1)
	dispatcher := handlers.NewSingleQueue(ctx, 1, func(_ context.Context, msg int) {
		called <- msg
	})

	require.NoError(t, dispatcher.Deliver(context.Background(), 0))
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("handler was not called before context cancel")
	}

	cancel()

	err := dispatcher.Deliver(context.Background(), 1)
	assert.ErrorIs(t, err, effectmodel.ErrHandlerClosed)
}

func TestWorkerDispatcher_ConcurrentDeliveryDuringShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var handled sync.WaitGroup
	dispatcher := handlers.NewPartitionedQueue(ctx, 2, 1, func(context.Context, typedMessage) {})

	for i := 0; i < 8; i++ {
		handled.Add(1)
		go func(i int) {
			defer handled.Done()
			for j := 0; j < 50; j++ {
				err := dispatcher.Deliver(context.Background(), typedMessage{seq: j, actionType: "TICK"})
				if err != nil {
					assert.ErrorIs(t, err, effectmodel.ErrHandlerClosed)
					return
				}
			}
		}(i)
	}

	time.Sleep(time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		handled.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("senders blocked after shutdown")
	}
}

func TestResumableHandler_ReturnsResult(t *testing.T) {
	ctx := context.Background()

	tornDown := make(chan struct{})
	handler := handlers.NewResumableHandler(ctx, 1,
		func(_ context.Context, actionType string) (int, error) {
			return len(actionType), nil
		},
		func() { close(tornDown) },
	)

	res, ok := <-handler.PerformEffect(ctx, "FETCH_DONE")
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, 10, res.Value)

	handler.Close()
	handler.Close()
	<-tornDown
}

func TestResumableHandler_PartitionedPropagatesError(t *testing.T) {
	ctx := context.Background()
	errRejected := errors.New("rejected")

	handler := handlers.NewPartitionableResumableHandler(ctx,
		effectmodel.NewEffectScopeConfig(4, 4),
		func(_ context.Context, msg typedMessage) (struct{}, error) {
			if msg.actionType == "REJECT" {
				return struct{}{}, errRejected
			}
			return struct{}{}, nil
		},
		func() {},
	)
	defer handler.Close()

	res := <-handler.PerformEffect(ctx, typedMessage{actionType: "REJECT"})
	assert.ErrorIs(t, res.Err, errRejected)

	res = <-handler.PerformEffect(ctx, typedMessage{actionType: "ACCEPT"})
	assert.NoError(t, res.Err)
}

func TestResumableHandler_ClosedScopeClosesResultChannel(t *testing.T) {
	ctx := context.Background()

	handler := handlers.NewResumableHandler(ctx, 1,
		func(context.Context, int) (int, error) { return 0, nil },
		func() {},
	)
	handler.Close()
	time.Sleep(50 * time.Millisecond)

	select {
	case _, ok := <-handler.PerformEffect(ctx, 1):
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected a closed result channel")
	}
}

func TestResumableHandler_QueuedEffectsAreReleasedOnClose(t *testing.T) {
	ctx := context.Background()

	release := make(chan struct{})
	handler := handlers.NewResumableHandler(ctx, 4,
		func(context.Context, int) (int, error) {
			<-release
			return 1, nil
		},
		func() {},
	)

	first := handler.PerformEffect(ctx, 1)
	queued := handler.PerformEffect(ctx, 2)

	handler.Close()
	close(release)

	<-first
	select {
	case _, ok := <-queued:
		assert.False(t, ok, "queued effect must not be handled after close")
	case <-time.After(time.Second):
		t.Fatal("queued effect was never released")
	}
}

func TestFireAndForgetHandler_BasicExecution(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	handler := handlers.NewFireAndForgetHandler(ctx, 10,
		func(_ context.Context, actionType string) {
			received <- actionType
		},
		func() {},
	)
	defer handler.Close()

	require.NoError(t, handler.FireAndForgetEffect(ctx, "PING"))

	select {
	case got := <-received:
		assert.Equal(t, "PING", got)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for handler")
	}
}

func TestFireAndForgetHandler_ClosedScopeDropsPayload(t *testing.T) {
	ctx := context.Background()

	called := make(chan struct{}, 1)
	handler := handlers.NewFireAndForgetHandler(ctx, 1,
		func(context.Context, string) { called <- struct{}{} },
		func() {},
	)
	handler.Close()
	time.Sleep(50 * time.Millisecond)

	var err error
	assert.NotPanics(t, func() {
		err = handler.FireAndForgetEffect(ctx, "should-not-send")
	})
	assert.ErrorIs(t, err, effectmodel.ErrHandlerClosed)

	select {
	case <-called:
		t.Fatal("handler should not have been called")
	case <-time.After(100 * time.Millisecond):
	}
}
