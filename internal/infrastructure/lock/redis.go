package lock

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bsm/redislock"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/ports"
)

const (
	redisKeyPrefix  = "assetverify:lock:"
	redisRetryDelay = 100 * time.Millisecond
)

// RedisLock holds a lease of ttl per key. Acquire keeps retrying until ctx is done
// or the retry budget (ttl worth of attempts) runs out.
type RedisLock struct {
	client *redislock.Client
	ttl    time.Duration
}

var _ ports.WriterLock = (*RedisLock)(nil)

func NewRedisLock(client redislock.RedisClient, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLock{client: redislock.New(client), ttl: ttl}
}

func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := redisKeyPrefix + strings.TrimSpace(key)
	attempts := int(l.ttl / redisRetryDelay)
	options := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(redisRetryDelay), attempts),
	}

	obtained, err := l.client.Obtain(ctx, lockKey, l.ttl, options)
	// Obtain bounds its own retries by ttl when ctx has no deadline; running out of
	// that budget while ctx is still live means the lock stayed held.
	if errors.Is(err, redislock.ErrNotObtained) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
		return nil, errs.Wrapf(ports.ErrLockNotObtained, "acquire writer lock %q", key)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "acquire writer lock %q", key)
	}

	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		if err := obtained.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logging.Warn(releaseCtx, "release writer lock failed",
				slog.String("key", lockKey),
				slog.Any("err", errs.Loggable(err)),
			)
		}
	}, nil
}
