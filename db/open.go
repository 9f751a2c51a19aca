package db

import (
	"context"
	"log"

	"conduct-server-go/config"
	"conduct-server-go/roster"
)

// Open returns the blob store selected by cfg together with a function that
// releases its connection
func Open(ctx context.Context, cfg config.Config) (roster.BlobStore, func() error, error) {
	if cfg.Store.Backend == config.BackendMemory {
		log.Println("Using in-memory store; classes will not survive a restart")
		return NewMemoryBlobStore(nil), func() error { return nil }, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
	defer cancel()
	client, err := InitializeRedisClient(ctx, RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return NewRedisBlobStore(client, cfg.Store.Key), client.Close, nil
}
