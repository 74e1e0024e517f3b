package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tingle/internal/middleware"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock is held by another request")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Lock takes an advisory lock on key for at most ttl. The returned release
// function only deletes the key if this caller still owns it. Without Redis,
// or when Redis is unreachable, Lock succeeds with a no-op release so callers
// fall back to storage-level constraints.
func Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	noop := func() {}
	if client == nil {
		return noop, nil
	}

	token := uuid.NewString()
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "advisory lock unavailable", slog.String("key", key), slog.String("error", err.Error()))
		return noop, nil
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func() {
		// Release must not be cancelled with the request.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "advisory lock release failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}
