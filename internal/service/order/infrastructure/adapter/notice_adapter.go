package adapter

import (
	"context"

	notificationdomain "bookhub/internal/service/notification/domain"
	"bookhub/internal/service/order/domain"
)

// NoticeBroadcastAdapter 把提货动态交给 notification 上下文的发布者。
type NoticeBroadcastAdapter struct {
	publisher notificationdomain.Publisher
}

func NewNoticeBroadcastAdapter(publisher notificationdomain.Publisher) *NoticeBroadcastAdapter {
	return &NoticeBroadcastAdapter{publisher: publisher}
}

func (a *NoticeBroadcastAdapter) Broadcast(ctx context.Context, n *domain.Notice) error {
	return a.publisher.Publish(ctx, &notificationdomain.Notification{
		ID:        n.ID,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	})
}
