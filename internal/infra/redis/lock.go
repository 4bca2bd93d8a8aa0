package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/lukasssicevs/drippler-web/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// RedisLocker serializes the quota check-then-record window per user so two
// concurrent try-on requests cannot both pass the limit check. The lease is
// an optimization, not a gate: when redis is unreachable the caller proceeds
// without it and the recording function stays the authoritative limit.
type RedisLocker struct {
	cli RedisClient
	log *zerolog.Logger
}

func NewLocker(c RedisClient, log *zerolog.Logger) *RedisLocker {
	return &RedisLocker{cli: c, log: log}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	for i := 0; i < 5; i++ { // 5 tries
		ok, err := l.cli.SetNX(ctx, key, token, ttl)
		if err != nil {
			// Fail open: a redis outage must not block generation.
			l.log.Warn().Err(err).Str("key", key).Msg("lease store unavailable, proceeding without lease")
			return token, nil
		}
		if ok {
			return token, nil
		}
		time.Sleep(50 * time.Millisecond) // wait before retrying
	}
	return "", domain.ErrGenerationBusy
}

const luaUnlock = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := l.cli.Eval(ctx, luaUnlock, []string{key}, token)
	return err
}

// GenerationLockKey is the per-user try-on lease key.
func GenerationLockKey(userID string) string {
	return fmt.Sprintf("tryon:lock:%s", userID)
}
