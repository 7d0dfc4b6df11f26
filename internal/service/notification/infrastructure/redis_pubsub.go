package infrastructure

import (
	"context"
	"encoding/json"

	"bookhub/internal/pkg/logger"
	"bookhub/internal/pkg/redis"
	"bookhub/internal/service/notification/domain"

	"github.com/pkg/errors"
)

// Channel 是所有 API 节点共同订阅的通知频道。
const Channel = "bookhub:notifications"

// RedisPublisher 通过 redis pub/sub 把通知扇出到每个 API 节点。
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: Channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "failed to marshal notification")
	}
	if err := p.client.GetClient().Publish(ctx, p.channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "failed to publish notification to %s", p.channel)
	}
	return nil
}

// Subscribe 阻塞消费频道消息直到 ctx 结束，每条通知交给 handle。
func (p *RedisPublisher) Subscribe(ctx context.Context, handle func(context.Context, *domain.Notification)) error {
	sub := p.client.GetClient().Subscribe(ctx, p.channel)
	defer sub.Close()

	// 等待订阅确认，连不上时尽早返回
	if _, err := sub.Receive(ctx); err != nil {
		return errors.Wrapf(err, "failed to subscribe to %s", p.channel)
	}
	logger.Ctx(ctx).Info().Str("channel", p.channel).Msg("notification subscriber started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var n domain.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Msg("dropping malformed notification")
				continue
			}
			handle(ctx, &n)
		}
	}
}
