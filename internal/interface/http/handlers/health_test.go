package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker(t *testing.T) {
	c := NewCompositeHealthChecker("test")

	st := c.Check(context.Background())
	assert.True(t, st.Healthy)
	assert.Equal(t, "No health checks registered", st.Message)

	c.AddCheck("database", NewPingCheck(pingFunc(func(context.Context) error { return nil })))
	st = c.Check(context.Background())
	assert.True(t, st.Ready)
	assert.True(t, st.Checks["database"].Healthy)

	c.AddCheck("redis", NewPingCheck(pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })))
	st = c.Check(context.Background())
	assert.False(t, st.Healthy)
	assert.False(t, st.Ready)
	assert.Equal(t, "Some checks failed: redis", st.Message)
	assert.Equal(t, "dial tcp: refused", st.Checks["redis"].Message)
}
