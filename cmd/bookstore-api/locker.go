package main

import (
	"strings"

	"bookhub/internal/pkg/bootstrap"
	"bookhub/internal/pkg/lock"
	"bookhub/internal/pkg/redis"
)

// newLocker 按配置选择提货锁的实现，返回的 closer 在关停时调用。
func newLocker(cfg *bootstrap.Config, client *redis.Client) (lock.Locker, func(), error) {
	if cfg.Infra.Lock.Driver == "zookeeper" {
		zl, err := lock.NewZookeeperLocker(strings.Split(cfg.Infra.Zookeeper.Servers, ","), cfg.Infra.Zookeeper.SessionTimeout)
		if err != nil {
			return nil, nil, err
		}
		return zl, zl.Close, nil
	}
	rl, err := lock.NewRedisLocker(client, cfg.Infra.Lock.RetryInterval, cfg.Infra.Lock.MaxWait)
	if err != nil {
		return nil, nil, err
	}
	return rl, func() {}, nil
}
