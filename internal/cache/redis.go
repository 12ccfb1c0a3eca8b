package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canna-backoffice-requests/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached collections between several back-office instances.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// ConnectRedis opens a client and checks the connection.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	logger.ExternalServiceCall("redis", "GET", "key", s.key(key))
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.ExternalServiceResult("redis", "GET", nil, "key", s.key(key), "hit", false)
		return nil, false, nil
	}
	logger.ExternalServiceResult("redis", "GET", err, "key", s.key(key), "hit", err == nil)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.client.Set(ctx, s.key(key), value, ttl).Err()
	logger.ExternalServiceResult("redis", "SET", err, "key", s.key(key))
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	err := s.client.Del(ctx, full...).Err()
	logger.ExternalServiceResult("redis", "DEL", err, "keys", full)
	return err
}
