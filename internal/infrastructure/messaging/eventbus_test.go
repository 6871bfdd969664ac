package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/pkg/logger"
)

var at = time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)

func sessionEvent(t shared.EventType) shared.Event {
	return shared.NewEvent(t, "mentoria-1", shared.Actor{ID: "mentor-1", Role: shared.RoleMentor}, at,
		map[string]interface{}{"negocio_id": "neg-1"})
}

func TestInMemoryEventBus_SyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()

	var typed, all []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventSessionConfirmed, func(_ context.Context, e shared.Event) error {
		typed = append(typed, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(_ context.Context, e shared.Event) error {
		all = append(all, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), sessionEvent(shared.EventSessionConfirmed)))
	require.NoError(t, bus.Publish(context.Background(), sessionEvent(shared.EventSessionCancelled)))

	assert.Equal(t, []shared.EventType{shared.EventSessionConfirmed}, typed)
	assert.Equal(t, []shared.EventType{shared.EventSessionConfirmed, shared.EventSessionCancelled}, all)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Published[shared.EventSessionConfirmed])
	assert.Equal(t, int64(3), snap.HandlerExecutions)
}

func TestInMemoryEventBus_HandlerErrorIsNotReturned(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(context.Context, shared.Event) error {
		return errors.New("notifier down")
	}))

	require.NoError(t, bus.Publish(context.Background(), sessionEvent(shared.EventSessionFinalized)))
	assert.Equal(t, int64(1), bus.Metrics().Snapshot().HandlerFailures)
}

func TestInMemoryEventBus_RecoveryMiddleware(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer bus.Close()
	bus.Use(RecoveryMiddleware(logger.Nop()))

	var after bool
	require.NoError(t, bus.SubscribeAll(func(context.Context, shared.Event) error { panic("boom") }))
	require.NoError(t, bus.SubscribeAll(func(context.Context, shared.Event) error {
		after = true
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), sessionEvent(shared.EventSessionCheckedIn)))
	assert.True(t, after)
	assert.Equal(t, int64(1), bus.Metrics().Snapshot().HandlerFailures)
}

func TestInMemoryEventBus_AsyncCloseWaitsForHandlers(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2, HandlerTimeout: time.Second})

	var handled int64
	require.NoError(t, bus.SubscribeAll(func(ctx context.Context, _ shared.Event) error {
		atomic.AddInt64(&handled, 1)
		return nil
	}))

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(context.Background(), sessionEvent(shared.EventMaterialStarted)))
	}
	require.NoError(t, bus.Close())

	assert.LessOrEqual(t, atomic.LoadInt64(&handled), int64(20))
	assert.ErrorIs(t, bus.Publish(context.Background(), sessionEvent(shared.EventMaterialStarted)), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(context.Context, shared.Event) error { return nil }), ErrEventBusClosed)
}

// ─────────────────────────────────────────────────────────────────────────────
// Redis publisher
// ─────────────────────────────────────────────────────────────────────────────

type fakeChannel struct {
	mu       sync.Mutex
	channel  string
	messages []interface{}
	err      error
}

func (f *fakeChannel) Publish(_ context.Context, channel string, message interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = channel
	f.messages = append(f.messages, message)
	return f.err
}

func TestRedisPublisher_PublishesEnvelopeAndDeliversLocally(t *testing.T) {
	local := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer local.Close()

	var delivered int
	require.NoError(t, local.SubscribeAll(func(context.Context, shared.Event) error {
		delivered++
		return nil
	}))

	ch := &fakeChannel{}
	pub, err := NewRedisPublisher(RedisPublisherConfig{Client: ch, Local: local, InstanceID: "api-1"})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), sessionEvent(shared.EventSessionScheduled)))

	assert.Equal(t, DefaultChannel, ch.channel)
	require.Len(t, ch.messages, 1)
	env, ok := ch.messages[0].(Envelope)
	require.True(t, ok)
	assert.Equal(t, "api-1", env.InstanceID)
	assert.Equal(t, shared.EventSessionScheduled, env.EventType)
	assert.Equal(t, "mentoria-1", env.AggregateID)
	assert.Equal(t, "neg-1", env.Payload["negocio_id"])
	assert.Equal(t, 1, delivered)
}

func TestRedisPublisher_RedisFailureStillDeliversLocally(t *testing.T) {
	local := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false})
	defer local.Close()

	var delivered int
	require.NoError(t, local.SubscribeAll(func(context.Context, shared.Event) error {
		delivered++
		return nil
	}))

	pub, err := NewRedisPublisher(RedisPublisherConfig{Client: &fakeChannel{err: errors.New("connection refused")}, Local: local})
	require.NoError(t, err)

	assert.Error(t, pub.Publish(context.Background(), sessionEvent(shared.EventSessionCancelled)))
	assert.Equal(t, 1, delivered)
}

func TestNewRedisPublisher_RequiresClient(t *testing.T) {
	_, err := NewRedisPublisher(RedisPublisherConfig{})
	assert.Error(t, err)
}
