package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dkellner/audiohaus-backend/pkg/redis"
)

// redisClient is the slice of the Redis wrapper the store needs.
type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

var _ redisClient = (*redis.Client)(nil)

// RedisStore persists carts as JSON values with a sliding TTL. Guest
// carts live here so an abandoned cart expires on its own.
type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed cart store.
func NewRedisStore(client redisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, owner string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(owner))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return &Cart{}, nil
		}
		return nil, err
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, owner string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	// Every write restarts the TTL, so active carts never expire.
	return s.client.Set(ctx, s.client.CartKey(owner), string(payload), s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, owner string) error {
	return s.client.Del(ctx, s.client.CartKey(owner))
}
