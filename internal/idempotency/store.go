// Package idempotency deduplicates checkout requests by client-supplied key.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyCheckout is idem:checkout:{user_id}:{client_key} -> "pending" | order_id
const (
	keyCheckout  = "idem:checkout:%s:%s"
	pendingValue = "pending"
)

// Store reserves keys before a checkout runs and remembers the order it produced.
type Store interface {
	// Reserve claims key for userID. When a previous checkout with the same key
	// already finished, it returns that order's ID and found=true. A checkout
	// still running under the key fails with model.ErrDuplicateCheckout.
	Reserve(ctx context.Context, userID uuid.UUID, key string) (orderID uuid.UUID, found bool, err error)

	// Complete records the order produced under key.
	Complete(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error

	// Release frees key after a failed checkout so the client can retry.
	Release(ctx context.Context, userID uuid.UUID, key string) error
}

// RedisStore implements Store on Redis.
type RedisStore struct {
	client     *redis.Client
	pendingTTL time.Duration
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewRedisStore creates a store. A reserved key expires after pendingTTL unless
// it is completed, which keeps the recorded order for ttl.
func NewRedisStore(client *redis.Client, pendingTTL, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	if pendingTTL <= 0 || pendingTTL > ttl {
		pendingTTL = ttl
	}
	return &RedisStore{
		client:     client,
		pendingTTL: pendingTTL,
		ttl:        ttl,
		logger:     logger.With().Str("store", "idempotency").Logger(),
	}
}

func redisKey(userID uuid.UUID, key string) string {
	return fmt.Sprintf(keyCheckout, userID, key)
}

func (s *RedisStore) Reserve(ctx context.Context, userID uuid.UUID, key string) (uuid.UUID, bool, error) {
	k := redisKey(userID, key)

	ok, err := s.client.SetNX(ctx, k, pendingValue, s.pendingTTL).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("key", k).Msg("failed to reserve idempotency key")
		return uuid.Nil, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return uuid.Nil, false, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired or released between SETNX and GET.
			return s.Reserve(ctx, userID, key)
		}
		return uuid.Nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	if val == pendingValue {
		return uuid.Nil, false, model.ErrDuplicateCheckout
	}

	orderID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt idempotency value for %s: %w", k, err)
	}

	s.logger.Debug().Str("key", k).Str("order_id", val).Msg("idempotent replay")
	return orderID, true, nil
}

func (s *RedisStore) Complete(ctx context.Context, userID uuid.UUID, key string, orderID uuid.UUID) error {
	if err := s.client.Set(ctx, redisKey(userID, key), orderID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, userID uuid.UUID, key string) error {
	if err := s.client.Del(ctx, redisKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// NopStore never deduplicates. Used when Redis is disabled.
type NopStore struct{}

func (NopStore) Reserve(context.Context, uuid.UUID, string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (NopStore) Complete(context.Context, uuid.UUID, string, uuid.UUID) error { return nil }

func (NopStore) Release(context.Context, uuid.UUID, string) error { return nil }
