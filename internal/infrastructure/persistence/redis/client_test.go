package redis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError() {}

func TestIsAuthFailure(t *testing.T) {
	wrongPass := fmt.Errorf("%w: %w", ErrConnection, replyError("WRONGPASS invalid username-password pair"))
	assert.True(t, IsAuthFailure(wrongPass))
	assert.True(t, errors.Is(wrongPass, ErrConnection))
	assert.True(t, IsAuthFailure(replyError("NOAUTH Authentication required.")))

	assert.False(t, IsAuthFailure(replyError("LOADING Redis is loading the dataset in memory")))
	assert.False(t, IsAuthFailure(fmt.Errorf("%w: dial tcp: connection refused", ErrConnection)))
	assert.False(t, IsAuthFailure(nil))
}

func TestConfig_Options(t *testing.T) {
	opts, err := Config{URL: "redis://:secret@cache:6380/2", PoolSize: 7}.options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)

	opts, err = DefaultConfig().options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = Config{URL: "://nope"}.options()
	assert.Error(t, err)
}
