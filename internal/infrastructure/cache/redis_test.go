package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Noop
	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dst map[string]int
	found, err := c.Get(ctx, "k", &dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisCache_URLInvalida(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://no-es-redis", "pms:")
	assert.Error(t, err)
}

func TestRedisCache_Prefijo(t *testing.T) {
	c := &RedisCache{prefix: "pms:"}
	assert.Equal(t, "pms:categories:tree", c.key("categories:tree"))
}
