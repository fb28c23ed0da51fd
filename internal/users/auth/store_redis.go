// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/taskly/internal/platform/constants"
	"github.com/taibuivan/taskly/internal/platform/sec"
)

// Hash fields of a cached account entry.
const (
	cacheFieldUsername = "username"
	cacheFieldEmail    = "email"
)

// # Account Cache

// RedisAccountCache implements [AccountCache] with one Redis hash per account.
type RedisAccountCache struct {
	client redis.Cmdable
}

// NewAccountCache creates a new Redis-backed AccountCache.
func NewAccountCache(client redis.Cmdable) *RedisAccountCache {
	return &RedisAccountCache{client: client}
}

/*
Get returns the cached projection of an account.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - *sec.Principal: Cached account
  - error: ErrCacheMiss or connectivity errors
*/
func (cache *RedisAccountCache) Get(context context.Context, accountID string) (*sec.Principal, error) {
	fields, err := cache.client.HGetAll(context, accountKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_account_cache_get_failed: %w", err)
	}

	// HGETALL on a missing key yields an empty map, not redis.Nil.
	username, found := fields[cacheFieldUsername]
	if !found {
		return nil, ErrCacheMiss
	}

	return &sec.Principal{
		AccountID: accountID,
		Username:  username,
		Email:     fields[cacheFieldEmail],
	}, nil
}

/*
Set stores the projection with the given TTL in a single transaction.

Parameters:
  - context: context.Context
  - principal: *sec.Principal
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (cache *RedisAccountCache) Set(context context.Context, principal *sec.Principal, ttl time.Duration) error {
	key := accountKey(principal.AccountID)

	_, err := cache.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, key,
			cacheFieldUsername, principal.Username,
			cacheFieldEmail, principal.Email,
		)
		pipe.Expire(context, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_account_cache_set_failed: %w", err)
	}

	return nil
}

func accountKey(accountID string) string {
	return constants.RedisPrefixAccount + accountID
}
