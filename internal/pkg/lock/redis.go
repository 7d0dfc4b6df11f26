package lock

import (
	"context"
	"fmt"
	"time"

	"bookhub/internal/pkg/redis"

	"github.com/google/uuid"
)

const (
	acquireScriptName = "lock_acquire"
	releaseScriptName = "lock_release"
	keyPrefix         = "bookhub:lock:"
)

// RedisLocker 基于 SET NX PX 实现的互斥锁，释放时校验 token，避免误删他人的锁。
type RedisLocker struct {
	client        *redis.Client
	retryInterval time.Duration
	maxWait       time.Duration
}

// NewRedisLocker 创建锁实例并注册所需的 Lua 脚本。
func NewRedisLocker(client *redis.Client, retryInterval, maxWait time.Duration) (*RedisLocker, error) {
	if err := client.LoadScriptFromContent(acquireScriptName, acquireScript); err != nil {
		return nil, fmt.Errorf("failed to load lock acquire script: %w", err)
	}
	if err := client.LoadScriptFromContent(releaseScriptName, releaseScript); err != nil {
		return nil, fmt.Errorf("failed to load lock release script: %w", err)
	}
	if retryInterval <= 0 {
		retryInterval = 50 * time.Millisecond
	}
	return &RedisLocker{client: client, retryInterval: retryInterval, maxWait: maxWait}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	fullKey := keyPrefix + key
	token := uuid.NewString()

	waitCtx := ctx
	if l.maxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()
	for {
		res, err := l.client.RunScript(waitCtx, acquireScriptName, []string{fullKey}, token, ttl.Milliseconds())
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("lock acquire script failed for %s: %w", key, err)
		}
		if code, ok := res.(int64); ok && code == 1 {
			return &redisLease{client: l.client, key: fullKey, token: token}, nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrNotAcquired
		case <-ticker.C:
		}
	}
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLease) Release(ctx context.Context) error {
	res, err := l.client.RunScript(ctx, releaseScriptName, []string{l.key}, l.token)
	if err != nil {
		return fmt.Errorf("lock release script failed for %s: %w", l.key, err)
	}
	if code, ok := res.(int64); !ok || code == 0 {
		// 锁已过期或被他人持有
		return ErrNotAcquired
	}
	return nil
}

var acquireScript = `
-- KEYS[1]: 锁的 key
-- ARGV[1]: 持有者 token
-- ARGV[2]: 过期时间（毫秒）
if redis.call('set', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) then
    return 1
end
return 0
`

var releaseScript = `
-- 只有 token 匹配时才删除
if redis.call('get', KEYS[1]) == ARGV[1] then
    return redis.call('del', KEYS[1])
end
return 0
`
