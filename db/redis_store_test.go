package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when REDIS_TEST_ADDR points at a disposable Redis server
func TestRedisBlobStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()

	client, err := InitializeRedisClient(ctx, RedisOptions{Addr: addr, DB: 15})
	require.NoError(t, err)
	defer client.Close()

	s := NewRedisBlobStore(client, "conduct_test_blob")
	require.NoError(t, client.Del(ctx, s.Key).Err())

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Save(ctx, []byte(`{"الصف":[]}`)))
	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"الصف":[]}`, string(data))

	require.NoError(t, client.Del(ctx, s.Key).Err())
}

func TestNewRedisBlobStore_DefaultKey(t *testing.T) {
	assert.Equal(t, DefaultKey, NewRedisBlobStore(nil, "").Key)
}
