package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quick(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := quick(5).Run(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRun_PermanentStopsAtOnce(t *testing.T) {
	denied := errors.New("password authentication failed")

	calls := 0
	err := quick(5).Run(context.Background(), func(context.Context) error {
		calls++
		return Permanent(fmt.Errorf("connect: %w", denied))
	})

	assert.ErrorIs(t, err, denied)
	assert.False(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestRun_ReturnsLastErrorWhenAttemptsRunOut(t *testing.T) {
	var retried []int
	p := quick(3)
	p.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	calls := 0
	err := p.Run(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("dial %d", calls)
	})

	assert.EqualError(t, err, "dial 3")
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := quick(3).Run(ctx, func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestConnect_BackoffIsCapped(t *testing.T) {
	p := Connect(6, nil)
	p.Jitter = 0

	assert.Equal(t, 6, p.Attempts)
	assert.Equal(t, 500*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 2*time.Second, p.Backoff(3))
	assert.Equal(t, 10*time.Second, p.Backoff(10))
	assert.Equal(t, 1, Connect(0, nil).Attempts)

	p = Connect(6, nil)
	for i := 1; i < 6; i++ {
		d := p.Backoff(i)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 12*time.Second)
	}
}
