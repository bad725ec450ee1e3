package state

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/spendeats/internal/config"
)

// RedisManager manages user states using Redis
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager connects to Redis and fails when the server does not answer a ping.
func NewRedisManager(cfg config.RedisConfig) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.StateTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisManager{client: client, ttl: ttl}, nil
}

func stateKey(userID int64) string {
	return fmt.Sprintf("user:%d:state", userID)
}

func (m *RedisManager) GetUserState(ctx context.Context, userID int64) (*UserState, error) {
	data, err := m.client.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewUserState(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user state: %w", err)
	}
	return decodeState(userID, data), nil
}

// SetUserState refreshes the TTL, so inactive users expire on their own.
func (m *RedisManager) SetUserState(ctx context.Context, userID int64, state *UserState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, stateKey(userID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save user state: %w", err)
	}
	return nil
}

func (m *RedisManager) ClearUserState(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear user state: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
