package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps tokens in Redis. The access token key carries a TTL so
// Redis expires it the way a browser expires a session cookie.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
	accessTTL time.Duration
}

// NewRedisStorage connects to addr and verifies the connection
func NewRedisStorage(addr string, accessTTL time.Duration) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStorageWithClient(client, "", accessTTL), nil
}

// NewRedisStorageWithClient creates a storage on an existing client
func NewRedisStorageWithClient(client *redis.Client, keyPrefix string, accessTTL time.Duration) *RedisStorage {
	if keyPrefix == "" {
		keyPrefix = "burger:tokens:"
	}
	return &RedisStorage{client: client, keyPrefix: keyPrefix, accessTTL: accessTTL}
}

func (s *RedisStorage) get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return value, nil
}

func (s *RedisStorage) set(ctx context.Context, name, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+name, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

func (s *RedisStorage) clear(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.keyPrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", name, err)
	}
	return nil
}

func (s *RedisStorage) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, accessTokenName)
}

func (s *RedisStorage) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, accessTokenName, token, s.accessTTL)
}

func (s *RedisStorage) ClearAccessToken(ctx context.Context) error {
	return s.clear(ctx, accessTokenName)
}

func (s *RedisStorage) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, refreshTokenName)
}

func (s *RedisStorage) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, refreshTokenName, token, 0)
}

func (s *RedisStorage) ClearRefreshToken(ctx context.Context) error {
	return s.clear(ctx, refreshTokenName)
}

// Close closes the Redis client
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

var _ Storage = (*RedisStorage)(nil)
