// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package engagement

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a KeySetStore over Redis sets. Redis executes each
// command atomically, which satisfies the per-key atomicity contract
// even with multiple server instances sharing one Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing Redis client. The caller owns the
// client lifecycle.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Add implements KeySetStore via SADD.
func (r *RedisStore) Add(ctx context.Context, key, member string) error {
	if err := r.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("%w: sadd %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Remove implements KeySetStore via SREM.
func (r *RedisStore) Remove(ctx context.Context, key, member string) error {
	if err := r.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("%w: srem %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Contains implements KeySetStore via SISMEMBER.
func (r *RedisStore) Contains(ctx context.Context, key, member string) (bool, error) {
	found, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("%w: sismember %s: %v", ErrStoreUnavailable, key, err)
	}
	return found, nil
}

// Cardinality implements KeySetStore via SCARD.
func (r *RedisStore) Cardinality(ctx context.Context, key string) (int64, error) {
	n, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: scard %s: %v", ErrStoreUnavailable, key, err)
	}
	return n, nil
}

// Members implements KeySetStore via SMEMBERS.
func (r *RedisStore) Members(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: smembers %s: %v", ErrStoreUnavailable, key, err)
	}
	return members, nil
}

// Delete implements KeySetStore via DEL.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}
