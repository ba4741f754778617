package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNilClient_FailsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))

	var dst map[string]string
	assert.False(t, c.GetJSON(ctx, "k", &dst))
}

func TestUnreachableRedis_ReadsAsMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewFromRedis(rdb)
	defer c.Close()
	ctx := context.Background()

	c.SetJSON(ctx, "user:1", map[string]int{"id": 1}, time.Minute)

	var dst map[string]int
	assert.False(t, c.GetJSON(ctx, "user:1", &dst))
	assert.Error(t, c.Ping(ctx))
}
