package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/store/backend/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisCartStore implements cart.Store against the Redis keyspace shared
// with the cart service. Carts live as JSON blobs under cart:{userID};
// a missing key is an empty cart, not an error.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore creates a cart store with its own Redis client
func NewRedisCartStore(cfg RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{client: client}, nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client
func NewRedisCartStoreWithClient(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{client: client}
}

// Get returns the current cart snapshot for a user
func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Snapshot{UserID: userID}, nil
	}
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot cart.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return cart.Snapshot{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	snapshot.UserID = userID

	return snapshot, nil
}

// Clear empties the user's cart
func (s *RedisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

func cartKey(userID uuid.UUID) string {
	return fmt.Sprintf("cart:%s", userID)
}

// Ensure RedisCartStore implements the Store port
var _ cart.Store = (*RedisCartStore)(nil)
