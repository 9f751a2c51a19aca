package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// DefaultKey is the Redis key holding the serialized classes
const DefaultKey = "school_db_final"

// RedisBlobStore keeps the whole record store as one Redis string value
type RedisBlobStore struct {
	Client *redis.Client
	Key    string
}

// NewRedisBlobStore creates a new RedisBlobStore instance
func NewRedisBlobStore(client *redis.Client, key string) *RedisBlobStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisBlobStore{
		Client: client,
		Key:    key,
	}
}

// Load fetches the stored blob. A missing key yields nil data and no error.
func (s *RedisBlobStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s from Redis: %w", s.Key, err)
	}
	return data, nil
}

// Save overwrites the stored blob
func (s *RedisBlobStore) Save(ctx context.Context, data []byte) error {
	if err := s.Client.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s to Redis: %w", s.Key, err)
	}
	return nil
}

// --- Utility ---

// RedisOptions are the connection settings for InitializeRedisClient
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitializeRedisClient creates a Redis client and pings it
func InitializeRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Successfully connected to Redis %s DB %d", opts.Addr, opts.DB)
	return rdb, nil
}
