// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/blablabook/internal/platform/constants"
	"github.com/taibuivan/blablabook/pkg/uuidv7"
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard is a [Guard] shared by every API replica.
//
// The lock is a SET NX PX key holding a random token. The TTL bounds how long a
// crashed owner can block others; waiters poll at a fixed interval.
type RedisGuard struct {
	client       redis.UniversalClient
	ttl          time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewRedisGuard(client redis.UniversalClient, ttl, pollInterval time.Duration, logger *slog.Logger) *RedisGuard {
	if pollInterval <= 0 {
		pollInterval = constants.DefaultImportPollInterval
	}
	return &RedisGuard{
		client:       client,
		ttl:          ttl,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

func (guard *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := constants.RedisPrefixImportLock + key
	token := uuidv7.New()

	ticker := time.NewTicker(guard.pollInterval)
	defer ticker.Stop()

	for {
		acquired, err := guard.client.SetNX(ctx, lockKey, token, guard.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("importer: acquire %s: %w", lockKey, err)
		}
		if acquired {
			return guard.releaser(ctx, lockKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (guard *RedisGuard) releaser(ctx context.Context, lockKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()

			if err := releaseScript.Run(releaseCtx, guard.client, []string{lockKey}, token).Err(); err != nil {
				guard.logger.Warn("import_lock_release_failed",
					slog.String("key", lockKey),
					slog.Any("error", err),
				)
			}
		})
	}
}
