// internal/pkg/lock/lock.go
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired 表示在等待时间内没有拿到锁。
var ErrNotAcquired = errors.New("lock: not acquired")

// Locker 是分布式锁的抽象，目前有 redis 与 zookeeper 两种实现。
type Locker interface {
	// Acquire 阻塞直到拿到 key 对应的锁、ctx 结束或等待超时。
	// ttl 是锁的最长持有时间，防止持有者崩溃后锁无法释放。
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease 代表一次成功的加锁。
type Lease interface {
	Release(ctx context.Context) error
}
